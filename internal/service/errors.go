package service

import (
	"net/http"

	apperrors "github.com/spec-kit/recipe-service/pkg/util"
)

// Auth failure taxonomy. Expected outcomes are values the transport layer can
// distinguish; only process-level faults travel as wrapped internal errors.
var (
	ErrDuplicateIdentity   = apperrors.NewDomainError("DUPLICATE_IDENTITY", "email already registered", http.StatusConflict, nil)
	ErrIdentityNotFound    = apperrors.NewDomainError("IDENTITY_NOT_FOUND", "user not found", http.StatusUnauthorized, nil)
	ErrInvalidCredentials  = apperrors.NewDomainError("INVALID_CREDENTIALS", "invalid credentials", http.StatusUnauthorized, nil)
	ErrInvalidRefreshToken = apperrors.NewDomainError("INVALID_REFRESH_TOKEN", "invalid refresh token", http.StatusUnauthorized, nil)
	ErrTooManyAttempts     = apperrors.NewDomainError("TOO_MANY_ATTEMPTS", "too many login attempts", http.StatusTooManyRequests, nil)
)
