package httptransport

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterUserRequest struct {
	Email         string `json:"email"`
	Provider      string `json:"provider,omitempty"`
	CavosUserID   string `json:"cavos_user_id,omitempty"`
	WalletAddress string `json:"wallet_address,omitempty"`
}

type RegisterUserResponse struct {
	Status string `json:"status"`
	Data   struct {
		UserID        string `json:"user_id"`
		Email         string `json:"email"`
		Provider      string `json:"provider,omitempty"`
		WalletAddress string `json:"wallet_address,omitempty"`
		Created       bool   `json:"created"`
		CreatedAt     string `json:"created_at"`
	} `json:"data"`
}

type GetAccountResponse struct {
	Status string `json:"status"`
	Data   struct {
		UserID        string `json:"user_id"`
		Email         string `json:"email"`
		Provider      string `json:"provider,omitempty"`
		CavosUserID   string `json:"cavos_user_id,omitempty"`
		WalletAddress string `json:"wallet_address,omitempty"`
		CreatedAt     string `json:"created_at"`
		UpdatedAt     string `json:"updated_at"`
	} `json:"data"`
}
