// internal/api/api.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"gouno/internal/auth"
	"gouno/internal/database"
	"gouno/internal/game"
)

// Handlers carries the REST surface: accounts and the lobby listing.
// Realtime play happens over the websocket endpoint, not here.
type Handlers struct {
	DB      *database.DB
	Issuer  *auth.Issuer
	Manager *game.Manager
	Log     *logrus.Logger
}

// Register mounts every route on the mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/register", h.handleRegister)
	mux.HandleFunc("POST /api/login", h.handleLogin)
	mux.HandleFunc("POST /api/games", h.handleCreateGame)
	mux.HandleFunc("GET /api/games", h.handleListGames)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
}

func (h *Handlers) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || len(creds.Password) < 8 {
		httpError(w, http.StatusBadRequest, "username required and password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		h.Log.WithError(err).Error("hashing password")
		httpError(w, http.StatusInternalServerError, "internal error")
		return
	}
	user, err := h.DB.CreateUser(r.Context(), creds.Username, hash)
	if err != nil {
		httpError(w, http.StatusConflict, "username taken")
		return
	}

	token, err := h.Issuer.Mint(user.ID, user.Username)
	if err != nil {
		h.Log.WithError(err).Error("minting token")
		httpError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{
		Token: token, UserID: user.ID.String(), Username: user.Username,
	})
}

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.DB.GetUserByUsername(r.Context(), creds.Username)
	if errors.Is(err, database.ErrUserNotFound) || (err == nil && !auth.CheckPassword(user.PasswordHash, creds.Password)) {
		httpError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		h.Log.WithError(err).Error("fetching user")
		httpError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := h.Issuer.Mint(user.ID, user.Username)
	if err != nil {
		h.Log.WithError(err).Error("minting token")
		httpError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		Token: token, UserID: user.ID.String(), Username: user.Username,
		Wins: user.Wins, Losses: user.Losses,
	})
}

func (h *Handlers) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	user, err := h.DB.GetUser(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, http.StatusUnauthorized, "unknown user")
		return
	}

	g, err := h.Manager.CreateGame(r.Context(), user)
	if err != nil {
		h.Log.WithError(err).Error("creating game")
		httpError(w, http.StatusInternalServerError, "could not create game")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"gameId": g.ID.String()})
}

func (h *Handlers) handleListGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Manager.ListGames())
}

// authenticate pulls the bearer token off the request.
func (h *Handlers) authenticate(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		httpError(w, http.StatusUnauthorized, "missing token")
		return nil, false
	}
	claims, err := h.Issuer.Verify(token)
	if err != nil {
		httpError(w, http.StatusUnauthorized, "invalid token")
		return nil, false
	}
	return claims, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
