package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"astrade/contexts/identity-access/account-service/application"
	httptransport "astrade/contexts/identity-access/account-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// RegisterUserHandler godoc
// @Summary Register a user account
// @Description Creates an account and stages the registration event; known identities return the existing account.
// @Tags accounts
// @Accept json
// @Produce json
// @Param Idempotency-Key header string true "Idempotency key"
// @Param request body httptransport.RegisterUserRequest true "Registration payload"
// @Success 200 {object} httptransport.RegisterUserResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/accounts/v1/users [post]
func (h Handler) RegisterUserHandler(
	ctx context.Context,
	idempotencyKey string,
	req httptransport.RegisterUserRequest,
) (httptransport.RegisterUserResponse, error) {
	result, err := h.Service.RegisterUser(ctx, idempotencyKey, application.RegisterUserInput{
		Email:         req.Email,
		Provider:      req.Provider,
		CavosUserID:   req.CavosUserID,
		WalletAddress: req.WalletAddress,
	})
	if err != nil {
		return httptransport.RegisterUserResponse{}, err
	}

	resp := httptransport.RegisterUserResponse{Status: "success"}
	resp.Data.UserID = result.Account.UserID
	resp.Data.Email = result.Account.Email
	resp.Data.Provider = result.Account.Provider
	resp.Data.WalletAddress = result.Account.WalletAddress
	resp.Data.Created = result.Created
	resp.Data.CreatedAt = formatTimestamp(result.Account.CreatedAt)
	return resp, nil
}

// GetAccountHandler godoc
// @Summary Get a user account
// @Description Returns one account by user id.
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "User id"
// @Success 200 {object} httptransport.GetAccountResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/accounts/v1/users/{user_id} [get]
func (h Handler) GetAccountHandler(ctx context.Context, userID string) (httptransport.GetAccountResponse, error) {
	account, err := h.Service.GetAccount(ctx, strings.TrimSpace(userID))
	if err != nil {
		return httptransport.GetAccountResponse{}, err
	}

	resp := httptransport.GetAccountResponse{Status: "success"}
	resp.Data.UserID = account.UserID
	resp.Data.Email = account.Email
	resp.Data.Provider = account.Provider
	resp.Data.CavosUserID = account.CavosUserID
	resp.Data.WalletAddress = account.WalletAddress
	resp.Data.CreatedAt = formatTimestamp(account.CreatedAt)
	resp.Data.UpdatedAt = formatTimestamp(account.UpdatedAt)
	return resp, nil
}

func formatTimestamp(value time.Time) string {
	return value.UTC().Format("2006-01-02T15:04:05Z")
}
