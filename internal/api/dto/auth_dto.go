package dto

import "github.com/spec-kit/recipe-service/internal/domain"

// VerifyPasswordKind is the fixed response kind the web client expects.
const VerifyPasswordKind = "identitytoolkit#VerifyPasswordResponse"

// AuthRequest is the signup/login payload.
type AuthRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// RefreshTokenRequest is the token-exchange payload.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse mirrors the identity-toolkit response shape the client consumes.
type AuthResponse struct {
	Kind         string `json:"kind"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	Registered   bool   `json:"registered"`
	ExpiresIn    int    `json:"expiresIn"`
}

// NewAuthResponse maps a session onto the wire shape.
func NewAuthResponse(session *domain.AuthSession) AuthResponse {
	return AuthResponse{
		Kind:         VerifyPasswordKind,
		LocalID:      session.UserID,
		Email:        session.Email,
		IDToken:      session.AccessToken,
		RefreshToken: session.RefreshToken,
		Registered:   true,
		ExpiresIn:    session.ExpiresIn,
	}
}
