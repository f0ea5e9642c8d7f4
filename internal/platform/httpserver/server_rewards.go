package httpserver

import (
	"errors"
	"net/http"
	"strings"

	rewardserrors "astrade/contexts/player-engagement/rewards-service/domain/errors"
	rewardshttp "astrade/contexts/player-engagement/rewards-service/transport/http"
)

func writeRewardsError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, rewardshttp.ErrorResponse{Code: code, Message: message})
}

func writeRewardsDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rewardserrors.ErrProfileNotFound):
		writeRewardsError(w, http.StatusNotFound, "profile_not_found", err.Error())
	case errors.Is(err, rewardserrors.ErrCollectibleNotFound):
		writeRewardsError(w, http.StatusNotFound, "collectible_not_found", err.Error())
	case errors.Is(err, rewardserrors.ErrAlreadyClaimed),
		errors.Is(err, rewardserrors.ErrActivityAlreadyRecorded):
		writeRewardsError(w, http.StatusConflict, "already_claimed", err.Error())
	case errors.Is(err, rewardserrors.ErrIdempotencyKeyConflict):
		writeRewardsError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	case errors.Is(err, rewardserrors.ErrVersionConflict),
		errors.Is(err, rewardserrors.ErrConcurrentUpdate):
		writeRewardsError(w, http.StatusConflict, "concurrent_update", err.Error())
	case errors.Is(err, rewardserrors.ErrInvalidActivityKind),
		errors.Is(err, rewardserrors.ErrInvalidActivityDate):
		writeRewardsError(w, http.StatusUnprocessableEntity, "unprocessable_entity", err.Error())
	case errors.Is(err, rewardserrors.ErrInvalidRequest):
		writeRewardsError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeRewardsError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireRewardsAuthorization(w http.ResponseWriter, r *http.Request) bool {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		writeRewardsError(w, http.StatusUnauthorized, "unauthorized", "Authorization bearer token is required")
		return false
	}
	return true
}

func requireRewardsUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeRewardsError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return userID, true
}

func (s *Server) handleRewardsDailyStatus(w http.ResponseWriter, r *http.Request) {
	if !requireRewardsAuthorization(w, r) {
		return
	}
	userID, ok := requireRewardsUser(w, r)
	if !ok {
		return
	}
	resp, err := s.rewards.Handler.DailyStatusHandler(r.Context(), userID)
	if err != nil {
		writeRewardsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRewardsClaimDaily(w http.ResponseWriter, r *http.Request) {
	if !requireRewardsAuthorization(w, r) {
		return
	}
	userID, ok := requireRewardsUser(w, r)
	if !ok {
		return
	}

	// The claim body is optional; an absent body claims the default daily login reward.
	var req rewardshttp.ClaimDailyRequest
	if r.ContentLength != 0 {
		if !s.decodeJSON(w, r, &req, writeRewardsError) {
			return
		}
	}

	resp, err := s.rewards.Handler.ClaimDailyHandler(
		r.Context(),
		userID,
		req,
		r.Header.Get("Idempotency-Key"),
	)
	if err != nil {
		writeRewardsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRewardsRecordActivity(w http.ResponseWriter, r *http.Request) {
	if !requireRewardsAuthorization(w, r) {
		return
	}
	userID, ok := requireRewardsUser(w, r)
	if !ok {
		return
	}
	resp, err := s.rewards.Handler.RecordActivityHandler(r.Context(), userID)
	if err != nil {
		writeRewardsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRewardsAchievements(w http.ResponseWriter, r *http.Request) {
	if !requireRewardsAuthorization(w, r) {
		return
	}
	userID, ok := requireRewardsUser(w, r)
	if !ok {
		return
	}
	resp, err := s.rewards.Handler.AchievementsHandler(r.Context(), userID)
	if err != nil {
		writeRewardsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRewardsStreakInfo(w http.ResponseWriter, r *http.Request) {
	if !requireRewardsAuthorization(w, r) {
		return
	}
	userID, ok := requireRewardsUser(w, r)
	if !ok {
		return
	}
	resp, err := s.rewards.Handler.StreakInfoHandler(r.Context(), userID)
	if err != nil {
		writeRewardsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRewardsProfile(w http.ResponseWriter, r *http.Request) {
	if !requireRewardsAuthorization(w, r) {
		return
	}
	userID, ok := requireRewardsUser(w, r)
	if !ok {
		return
	}
	resp, err := s.rewards.Handler.ProfileHandler(r.Context(), userID)
	if err != nil {
		writeRewardsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRewardsListNFTs(w http.ResponseWriter, r *http.Request) {
	if !requireRewardsAuthorization(w, r) {
		return
	}
	userID, ok := requireRewardsUser(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	resp, err := s.rewards.Handler.ListNFTsHandler(
		r.Context(),
		userID,
		query.Get("nft_type"),
		query.Get("rarity"),
	)
	if err != nil {
		writeRewardsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRewardsGetNFT(w http.ResponseWriter, r *http.Request) {
	if !requireRewardsAuthorization(w, r) {
		return
	}
	userID, ok := requireRewardsUser(w, r)
	if !ok {
		return
	}
	nftID := strings.TrimSpace(r.PathValue("nft_id"))
	if nftID == "" {
		writeRewardsError(w, http.StatusBadRequest, "invalid_request", "nft_id is required")
		return
	}
	resp, err := s.rewards.Handler.GetNFTHandler(r.Context(), userID, nftID)
	if err != nil {
		writeRewardsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRewardsNFTStats(w http.ResponseWriter, r *http.Request) {
	if !requireRewardsAuthorization(w, r) {
		return
	}
	userID, ok := requireRewardsUser(w, r)
	if !ok {
		return
	}
	resp, err := s.rewards.Handler.NFTStatsHandler(r.Context(), userID)
	if err != nil {
		writeRewardsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
