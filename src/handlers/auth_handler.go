package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/username/stockledger/src/logger"
	"github.com/username/stockledger/src/model"
	"github.com/username/stockledger/src/security/validation"
	"github.com/username/stockledger/src/utils"
)

func (h *UserHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req struct {
		Email           string `json:"email"`
		Password        string `json:"password"`
		PasswordConfirm string `json:"password_confirm"`
		FirstName       string `json:"first_name"`
		LastName        string `json:"last_name"`
	}
	if r.ContentLength == 0 {
		utils.SendJSONError(w, "Request body is required. Please provide email, password, and password_confirm.", http.StatusBadRequest)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.Email = strings.ToLower(validation.CleanText(req.Email))
	req.FirstName = validation.CleanText(req.FirstName)
	req.LastName = validation.CleanText(req.LastName)

	errs := validation.FieldErrors{}
	if req.Email == "" {
		errs.Add("email", "This field is required.")
	} else if validation.ValidateEmail(req.Email) != nil {
		errs.Add("email", "Enter a valid email address.")
	}
	minLenMsg := fmt.Sprintf("Ensure this field has at least %d characters.", validation.MinPasswordLength)
	if req.Password == "" {
		errs.Add("password", "Password is required.")
	} else if len(req.Password) < validation.MinPasswordLength {
		errs.Add("password", minLenMsg)
	}
	if req.PasswordConfirm == "" {
		errs.Add("password_confirm", "Password confirmation is required.")
	} else if len(req.PasswordConfirm) < validation.MinPasswordLength {
		errs.Add("password_confirm", minLenMsg)
	}
	for field, value := range map[string]string{"first_name": req.FirstName, "last_name": req.LastName} {
		if validation.ValidateStringMaxLength(value, 150, field) != nil {
			errs.Add(field, "Ensure this field has no more than 150 characters.")
		}
	}
	if len(errs) == 0 && req.Password != req.PasswordConfirm {
		errs.Add("password", "Passwords do not match.")
	}
	if len(errs) == 0 {
		_, err := model.GetUserByEmail(h.db, req.Email)
		if err == nil {
			errs.Add("email", "A user with this email already exists.")
		} else if !errors.Is(err, sql.ErrNoRows) {
			log.Error("Error checking email uniqueness", "error", err)
			utils.SendJSONError(w, "Failed to process registration", http.StatusInternalServerError)
			return
		}
	}
	if len(errs) > 0 {
		utils.SendJSONFieldErrors(w, errs)
		return
	}

	hashedPassword, err := h.authService.HashPassword(req.Password)
	if err != nil {
		log.Error("Failed to hash password", "error", err)
		utils.SendJSONError(w, "Failed to process registration", http.StatusInternalServerError)
		return
	}

	user := &model.User{
		Email:     req.Email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := user.CreateUser(h.db); err != nil {
		log.Error("Failed to create user in DB", "error", err)
		utils.SendJSONError(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	session, err := h.issueSession(r, user.ID)
	if err != nil {
		log.Error("Failed to issue session after signup", "userID", user.ID, "error", err)
		utils.SendJSONError(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	log.Info("User registered", "userID", user.ID)
	utils.SendJSON(w, map[string]any{
		"message":       "User registered successfully",
		"user":          newUserResponse(user),
		"token":         session.Token,
		"refresh_token": session.RefreshToken,
	}, http.StatusCreated)
}

func (h *UserHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		log.Warn("Invalid request body for login", "error", err)
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	credentials.Email = strings.ToLower(validation.CleanText(credentials.Email))
	if credentials.Email == "" || credentials.Password == "" {
		utils.SendJSONError(w, "Must include 'email' and 'password'.", http.StatusBadRequest)
		return
	}

	user, err := model.GetUserByEmail(h.db, credentials.Email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error("User lookup by email failed for login", "error", err)
		}
		utils.SendJSONError(w, "Invalid email or password.", http.StatusBadRequest)
		return
	}

	if err := h.authService.CompareHashAndPassword(user.Password, credentials.Password); err != nil {
		log.Warn("Password check failed for login", "userID", user.ID)
		utils.SendJSONError(w, "Invalid email or password.", http.StatusBadRequest)
		return
	}
	if !user.IsActive {
		utils.SendJSONError(w, "User account is disabled.", http.StatusBadRequest)
		return
	}

	session, err := h.issueSession(r, user.ID)
	if err != nil {
		log.Error("Failed to issue session on login", "userID", user.ID, "error", err)
		utils.SendJSONError(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	log.Info("User login successful, tokens generated", "userID", user.ID)
	utils.SendJSON(w, map[string]any{
		"message":       "Login successful",
		"user":          newUserResponse(user),
		"token":         session.Token,
		"refresh_token": session.RefreshToken,
	}, http.StatusOK)
}

func (h *UserHandler) RefreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var requestBody struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if requestBody.RefreshToken == "" {
		utils.SendJSONError(w, "Refresh token is required", http.StatusBadRequest)
		return
	}

	oldSession, err := model.GetSessionByRefreshToken(h.db, requestBody.RefreshToken)
	if err != nil {
		log.Warn("Refresh token lookup failed or token invalid/expired", "error", err)
		utils.SendJSONError(w, "Invalid or expired refresh token", http.StatusUnauthorized)
		return
	}

	if err := model.DeleteSessionByRefreshToken(h.db, requestBody.RefreshToken); err != nil {
		log.Error("Failed to delete old session during refresh", "userID", oldSession.UserID, "error", err)
	}

	session, err := h.issueSession(r, oldSession.UserID)
	if err != nil {
		log.Error("Failed to issue session on refresh", "userID", oldSession.UserID, "error", err)
		utils.SendJSONError(w, "Failed to create new session on refresh", http.StatusInternalServerError)
		return
	}

	log.Info("Token refreshed successfully", "userID", oldSession.UserID)
	utils.SendJSON(w, map[string]string{
		"token":         session.Token,
		"refresh_token": session.RefreshToken,
	}, http.StatusOK)
}

func (h *UserHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if err := model.DeleteSessionByToken(h.db, bearerToken(r)); err != nil {
		log.Warn("Failed to delete session on logout", "error", err)
	} else {
		log.Info("Session invalidated successfully on logout")
	}

	w.WriteHeader(http.StatusNoContent)
}
