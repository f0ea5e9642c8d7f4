// Package rewardsservice contains the AsTrade daily engagement rewards
// engine: login and exploration streaks, the seven day reward cycle,
// experience progression, achievements and minted reward collectibles.
//
// The module keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition.
package rewardsservice
