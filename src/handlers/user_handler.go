package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/username/stockledger/src/logger"
	"github.com/username/stockledger/src/model"
	"github.com/username/stockledger/src/security"
	"github.com/username/stockledger/src/utils"
)

type UserHandler struct {
	db                 *sql.DB
	authService        *security.AuthService
	refreshTokenExpiry time.Duration
}

func NewUserHandler(db *sql.DB, authService *security.AuthService, refreshTokenExpiry time.Duration) *UserHandler {
	return &UserHandler{
		db:                 db,
		authService:        authService,
		refreshTokenExpiry: refreshTokenExpiry,
	}
}

type userResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func newUserResponse(u *model.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
}

// issueSession creates an access/refresh token pair and stores the session.
func (h *UserHandler) issueSession(r *http.Request, userID int64) (*model.Session, error) {
	accessToken, err := h.authService.GenerateToken(fmt.Sprintf("%d", userID))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := h.authService.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	session := &model.Session{
		UserID:       userID,
		Token:        accessToken,
		RefreshToken: refreshToken,
		UserAgent:    r.UserAgent(),
		ClientIP:     r.RemoteAddr,
		ExpiresAt:    time.Now().Add(h.refreshTokenExpiry),
	}
	if err := model.CreateSession(h.db, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

func (h *UserHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	user, err := model.GetUserByID(h.db, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.SendJSONError(w, "User not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to load current user", "error", err)
		utils.SendJSONError(w, "Failed to load user", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, map[string]any{"user": newUserResponse(user)}, http.StatusOK)
}
