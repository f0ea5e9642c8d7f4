// Package accountservice contains AsTrade user registration and lookup.
// Registration stages an identity event in the outbox so downstream
// services can seed per-user state.
package accountservice
