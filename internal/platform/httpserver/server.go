package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	accountservice "astrade/contexts/identity-access/account-service"
	rewardsservice "astrade/contexts/player-engagement/rewards-service"
	_ "astrade/internal/platform/httpserver/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	rewards  rewardsservice.Module
	accounts accountservice.Module
}

func New(
	rewards rewardsservice.Module,
	accounts accountservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		rewards:  rewards,
		accounts: accounts,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /api/rewards/v1/daily-status", s.handleRewardsDailyStatus)
	s.mux.HandleFunc("POST /api/rewards/v1/claim-daily", s.handleRewardsClaimDaily)
	s.mux.HandleFunc("POST /api/rewards/v1/record-activity", s.handleRewardsRecordActivity)
	s.mux.HandleFunc("GET /api/rewards/v1/achievements", s.handleRewardsAchievements)
	s.mux.HandleFunc("GET /api/rewards/v1/streak-info", s.handleRewardsStreakInfo)
	s.mux.HandleFunc("GET /api/rewards/v1/profile", s.handleRewardsProfile)
	s.mux.HandleFunc("GET /api/rewards/v1/nfts", s.handleRewardsListNFTs)
	s.mux.HandleFunc("GET /api/rewards/v1/nfts/stats", s.handleRewardsNFTStats)
	s.mux.HandleFunc("GET /api/rewards/v1/nfts/{nft_id}", s.handleRewardsGetNFT)

	s.mux.HandleFunc("POST /api/accounts/v1/users", s.handleAccountRegister)
	s.mux.HandleFunc("GET /api/accounts/v1/users/{user_id}", s.handleAccountGet)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) decodeJSON(
	w http.ResponseWriter,
	r *http.Request,
	target any,
	writeError func(http.ResponseWriter, int, string, string),
) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
