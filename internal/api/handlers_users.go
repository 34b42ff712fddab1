package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/pingline/pingline/internal/auth"
	"github.com/pingline/pingline/internal/model"
	"github.com/pingline/pingline/internal/store"
)

type registerRequest struct {
	FullName        string `json:"fullname"`
	Username        string `json:"userName"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Gender          string `json:"gender"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FullName == "" || req.Username == "" || req.Password == "" || req.Gender == "" {
		writeError(w, http.StatusBadRequest, "all fields are required")
		return
	}
	if req.Password != req.ConfirmPassword {
		writeError(w, http.StatusBadRequest, "passwords do not match")
		return
	}

	hash, err := auth.HashPassword(req.Password, a.cfg.BcryptCost)
	if err != nil {
		a.logger.Error("password hashing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user := model.User{
		ID:         uuid.New(),
		Username:   req.Username,
		FullName:   req.FullName,
		Password:   hash,
		ProfilePic: a.avatarURL(req.Gender, req.Username),
		Gender:     req.Gender,
	}
	if err := a.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			writeError(w, http.StatusBadRequest, "username already exists")
			return
		}
		a.logger.Error("user create failed", "error", err, "username", req.Username)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Account created successfully",
		"success": true,
	})
}

// avatarURL picks the provider base for the gender and appends the
// username so each account renders a stable image.
func (a *API) avatarURL(gender, username string) string {
	base := a.cfg.Avatar.MaleURL
	if gender == "female" {
		base = a.cfg.Avatar.FemaleURL
	}
	return fmt.Sprintf("%s?username=%s", base, url.QueryEscape(username))
}

type loginRequest struct {
	Username string `json:"userName"`
	Password string `json:"password"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := a.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			writeError(w, http.StatusBadRequest, "invalid username or password")
			return
		}
		a.logger.Error("user lookup failed", "error", err, "username", req.Username)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		writeError(w, http.StatusBadRequest, "invalid username or password")
		return
	}

	token, err := a.tokens.Issue(user.ID, time.Now())
	if err != nil {
		a.logger.Error("token issue failed", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.tokens.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	a.logger.Info("user logged in", "user_id", user.ID, "username", user.Username)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Logged in successfully",
		"success": true,
		"token":   token,
		"user":    user.Public(),
	})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Logged out successfully",
		"success": true,
	})
}

func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	users, err := a.users.ListOthers(r.Context(), userID)
	if err != nil {
		a.logger.Error("user list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]model.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := a.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		a.logger.Error("user lookup failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, user.Public())
}
