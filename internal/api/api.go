package api

import (
	"log/slog"
	"net/http"

	"github.com/pingline/pingline/internal/auth"
	"github.com/pingline/pingline/internal/config"
	"github.com/pingline/pingline/internal/store"
)

// Config holds the handler-level settings the API needs.
type Config struct {
	BcryptCost int
	Avatar     config.AvatarConfig
}

// API holds the dependencies for the stateless HTTP handlers.
type API struct {
	cfg    Config
	users  store.Users
	convs  store.Conversations
	tokens *auth.TokenIssuer
	logger *slog.Logger
}

// NewAPI creates the REST handler set.
func NewAPI(cfg Config, users store.Users, convs store.Conversations, tokens *auth.TokenIssuer, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		cfg:    cfg,
		users:  users,
		convs:  convs,
		tokens: tokens,
		logger: logger.With("component", "api"),
	}
}

// Register mounts all REST routes on mux. Authenticated routes are
// wrapped in the session middleware.
func (a *API) Register(mux *http.ServeMux) {
	authed := auth.Middleware(a.tokens)

	mux.HandleFunc("POST /api/v1/user/register", a.handleRegister)
	mux.HandleFunc("POST /api/v1/user/login", a.handleLogin)
	mux.HandleFunc("POST /api/v1/user/logout", a.handleLogout)
	mux.Handle("GET /api/v1/user/users", authed(http.HandlerFunc(a.handleListUsers)))
	mux.Handle("GET /api/v1/user/me", authed(http.HandlerFunc(a.handleMe)))

	mux.Handle("POST /api/v1/message/send/{id}", authed(http.HandlerFunc(a.handleSendMessage)))
	mux.Handle("GET /api/v1/message/{id}", authed(http.HandlerFunc(a.handleGetMessages)))
}
