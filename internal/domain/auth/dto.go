package auth

import (
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// LoginRequest accepts either an email or a handle as identifier.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Handle     string `json:"handle"`
	Password   string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Identifier) {
		switch {
		case !validator.IsEmpty(r.Email):
			r.Identifier = r.Email
		case !validator.IsEmpty(r.Handle):
			r.Identifier = r.Handle
		}
	}
	r.Identifier = strings.TrimSpace(r.Identifier)

	if r.Identifier == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "identifier",
			Message: "email or handle is required",
		})
	} else if len(r.Identifier) > 254 {
		errs = append(errs, validator.ValidationError{
			Field:   "identifier",
			Message: "identifier must not exceed 254 characters",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RefreshToken) {
		errs = append(errs, validator.ValidationError{
			Field:   "refresh_token",
			Message: "refresh_token is required",
		})
	}
	if len(r.RefreshToken) > 2048 {
		errs = append(errs, validator.ValidationError{
			Field:   "refresh_token",
			Message: "refresh_token must not exceed 2048 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}

type MeResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Handle  *string `json:"handle"`
	Email   *string `json:"email"`
	Role    string  `json:"role"`
	IsAdmin bool    `json:"is_admin"`
}
