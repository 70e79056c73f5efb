package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mbella-dev/bankcore/internal/auth"
	"github.com/mbella-dev/bankcore/internal/domain"
	"github.com/mbella-dev/bankcore/internal/logging"
)

const tokenExpiry = 24 * time.Hour

type userByEmailGetter interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type AuthHandler struct {
	users     userByEmailGetter
	jwtSecret string
}

func NewAuthHandler(users userByEmailGetter, jwtSecret string) *AuthHandler {
	return &AuthHandler{users: users, jwtSecret: jwtSecret}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		RespondValidationError(w, []FieldError{
			{"email", "email and password are required"},
		})
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			RespondAppError(w, ErrInvalidCredentials)
			return
		}
		logging.FromContext(r.Context()).Error("login lookup failed", "error", err)
		RespondAppError(w, ErrInternalError)
		return
	}

	if user.Status != domain.UserStatusActive {
		RespondAppError(w, ErrInvalidCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		RespondAppError(w, ErrInvalidCredentials)
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email, h.jwtSecret, tokenExpiry)
	if err != nil {
		logging.FromContext(r.Context()).Error("token generation failed", "error", err)
		RespondAppError(w, ErrInternalError)
		return
	}

	RespondJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Token:   token,
		UserID:  user.ID.String(),
		Email:   user.Email,
	})
}
