package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/csg-hackathon/dilbot/internal/core"
	"github.com/csg-hackathon/dilbot/internal/models"
	"github.com/csg-hackathon/dilbot/internal/services"
)

type AuthHandler struct {
	users     *services.UserService
	jwtSecret string
}

func NewAuthHandler(users *services.UserService, jwtSecret string) *AuthHandler {
	return &AuthHandler{users: users, jwtSecret: jwtSecret}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Password == "" {
		respondError(w, http.StatusBadRequest, "password required")
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, core.ErrDuplicateUser):
		respondError(w, http.StatusConflict, "username already exists")
		return
	case errors.Is(err, core.ErrInvalidEmail):
		respondError(w, http.StatusBadRequest, "invalid email format")
		return
	case err != nil:
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"username": user.Username,
		"email":    user.Email,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}

	role, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) || errors.Is(err, core.ErrWrongPassword) {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	token, err := h.generateJWT(req.Username, role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "token generation failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"token": token,
		"role":  string(role),
	})
}

func (h *AuthHandler) generateJWT(username string, role models.Role) (string, error) {
	claims := jwt.MapClaims{
		"sub":  username,
		"role": string(role),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(h.jwtSecret))
}
