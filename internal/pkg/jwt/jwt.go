package jwt

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrInvalidClaims = errors.New("token claims are missing or malformed")

// Claims is the subset of token claims the service relies on.
type Claims struct {
	EmployeeID string
	Role       string
	Type       string
}

type Service interface {
	GenerateAccessToken(employeeID string, role string) (token string, expiresAt int64, err error)
	GenerateRefreshToken(employeeID string) (token string, expiresAt int64, err error)
	// ParseToken verifies signature and expiry and returns the claims.
	ParseToken(tokenString string) (Claims, error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
	ClearRefreshTokenCookie() *http.Cookie
}

type JWTService struct {
	accessTokenExpiration  time.Duration
	refreshTokenExpiration time.Duration
	secureCookie           bool
	tokenAuth              *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// NewJWTService builds an HS256 token service. Expirations use
// time.ParseDuration syntax ("1h", "168h").
func NewJWTService(secretKey string, accessTokenExpirationTime string, refreshTokenExpirationTime string, secureCookie bool) (Service, error) {
	accessExp, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, err
	}
	refreshExp, err := time.ParseDuration(refreshTokenExpirationTime)
	if err != nil {
		return nil, err
	}
	return &JWTService{
		accessTokenExpiration:  accessExp,
		refreshTokenExpiration: refreshExp,
		secureCookie:           secureCookie,
		tokenAuth:              jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}, nil
}

func (j *JWTService) GenerateAccessToken(employeeID string, role string) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpiration).Unix()
	claims := map[string]interface{}{
		"employee_id": employeeID,
		"role":        role,
		"type":        TokenTypeAccess,
		"exp":         expiresAt,
	}
	jwtauth.SetIssuedNow(claims)
	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(employeeID string) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.refreshTokenExpiration).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"type":        TokenTypeRefresh,
		"exp":         expiresAt,
		// two refresh tokens minted in the same second must still differ
		"jti": uuid.NewString(),
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) ParseToken(tokenString string) (Claims, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return Claims{}, err
	}
	return ClaimsFromMap(token.PrivateClaims())
}

// ClaimsFromMap reads employee_id, role and type from decoded claims.
func ClaimsFromMap(claims map[string]interface{}) (Claims, error) {
	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return Claims{}, ErrInvalidClaims
	}
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType == "" {
		return Claims{}, ErrInvalidClaims
	}
	role, _ := claims["role"].(string)
	return Claims{EmployeeID: employeeID, Role: role, Type: tokenType}, nil
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}

func (j *JWTService) ClearRefreshTokenCookie() *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     "/api/v1/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}
