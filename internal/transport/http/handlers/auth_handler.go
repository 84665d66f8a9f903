package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vedran77/itemvault/internal/domain"
	"github.com/vedran77/itemvault/internal/service"
	"github.com/vedran77/itemvault/pkg/validator"
)

type AuthService interface {
	Register(ctx context.Context, input service.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input service.LoginInput) (*service.TokenResponse, error)
}

type AuthHandler struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	username, password, err := decodeCredentials(w, r)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	if errs := validator.ValidateRegister(username, password); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	_, err = h.authService.Register(r.Context(), service.RegisterInput{Username: username, Password: password})
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			writeError(w, http.StatusBadRequest, "USERNAME_TAKEN", "Username already exists")
		} else {
			h.logger.ErrorContext(r.Context(), "register", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeMessage(w, http.StatusOK, "User registered successfully")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username, password, err := decodeCredentials(w, r)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	if errs := validator.ValidateLogin(username, password); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	resp, err := h.authService.Login(r.Context(), service.LoginInput{Username: username, Password: password})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCreds) {
			writeError(w, http.StatusBadRequest, "INVALID_CREDENTIALS", "Invalid username or password")
		} else {
			h.logger.ErrorContext(r.Context(), "login", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeBodyError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeValidationErrors(w, verrs)
	case errors.Is(err, errUnsupportedMedia):
		writeError(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "Unsupported content type")
	case errors.Is(err, errBodyTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "Request body is too large")
	case errors.Is(err, errUploadTooLarge):
		writeValidationErrors(w, validator.ValidationErrors{"image": "Image is too large"})
	default:
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
}
