package httpserver

import (
	"errors"
	"net/http"
	"strings"

	accounterrors "astrade/contexts/identity-access/account-service/domain/errors"
	accountshttp "astrade/contexts/identity-access/account-service/transport/http"
)

func writeAccountsError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, accountshttp.ErrorResponse{Code: code, Message: message})
}

func writeAccountsDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accounterrors.ErrAccountNotFound):
		writeAccountsError(w, http.StatusNotFound, "account_not_found", err.Error())
	case errors.Is(err, accounterrors.ErrInvalidRequest),
		errors.Is(err, accounterrors.ErrIdempotencyKeyRequired):
		writeAccountsError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, accounterrors.ErrAccountExists),
		errors.Is(err, accounterrors.ErrIdempotencyConflict):
		writeAccountsError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeAccountsError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireAccountsAuthorization(w http.ResponseWriter, r *http.Request) bool {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		writeAccountsError(w, http.StatusUnauthorized, "unauthorized", "Authorization bearer token is required")
		return false
	}
	return true
}

func requireAccountsIdempotencyKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key == "" {
		writeAccountsError(w, http.StatusBadRequest, "idempotency_key_required", "Idempotency-Key header is required")
		return "", false
	}
	return key, true
}

func (s *Server) handleAccountRegister(w http.ResponseWriter, r *http.Request) {
	idempotencyKey, ok := requireAccountsIdempotencyKey(w, r)
	if !ok {
		return
	}
	var req accountshttp.RegisterUserRequest
	if !s.decodeJSON(w, r, &req, writeAccountsError) {
		return
	}
	resp, err := s.accounts.Handler.RegisterUserHandler(r.Context(), idempotencyKey, req)
	if err != nil {
		writeAccountsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAccountGet(w http.ResponseWriter, r *http.Request) {
	if !requireAccountsAuthorization(w, r) {
		return
	}
	userID := strings.TrimSpace(r.PathValue("user_id"))
	if userID == "" {
		writeAccountsError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}
	resp, err := s.accounts.Handler.GetAccountHandler(r.Context(), userID)
	if err != nil {
		writeAccountsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
