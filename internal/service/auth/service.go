package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	tx database.Transactor
	employee.EmployeeRepository
	jwt.Service
	auth.RefreshTokenRepository
}

func NewAuthService(tx database.Transactor, employeeRepository employee.EmployeeRepository, jwtService jwt.Service, refreshTokenRepository auth.RefreshTokenRepository) auth.AuthService {
	return &AuthServiceImpl{
		tx:                     tx,
		EmployeeRepository:     employeeRepository,
		Service:                jwtService,
		RefreshTokenRepository: refreshTokenRepository,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := loginReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	employeeData, err := a.EmployeeRepository.GetByLogin(ctx, loginReq.Identifier)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee by login: %w", err)
	}

	// Employees without a password can only be punched for by an admin
	if employeeData.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*employeeData.PasswordHash), []byte(loginReq.Password)); err != nil {
		slog.Warn("Login failed", "employee_id", employeeData.ID, "ip_address", sessionTrackReq.IPAddress)
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	var tokenResponse auth.TokenResponse
	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(employeeData.ID, string(employeeData.Role))
		if err != nil {
			return fmt.Errorf("failed to create access token: %w", err)
		}
		tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(employeeData.ID)
		if err != nil {
			return fmt.Errorf("failed to create refresh token: %w", err)
		}

		err = a.CreateRefreshToken(txCtx, employeeData.ID, tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, sessionTrackReq)
		if err != nil {
			return fmt.Errorf("failed to save refresh token to database: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	slog.Info("Employee logged in", "employee_id", employeeData.ID, "role", employeeData.Role)
	return tokenResponse, nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	// 1. Verify signature, expiry and token type
	claims, err := a.Service.ParseToken(req.RefreshToken)
	if err != nil || claims.Type != jwt.TokenTypeRefresh {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// 2. Check DB for revocation/expiry
	employeeID, isRevoked, err := a.RefreshTokenRepository.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if isRevoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	// 3. Reload the employee so role changes apply on refresh
	employeeData, err := a.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	var accessTokenResponse auth.AccessTokenResponse
	accessTokenResponse.AccessToken, accessTokenResponse.AccessTokenExpiresIn, err =
		a.Service.GenerateAccessToken(employeeData.ID, string(employeeData.Role))
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessTokenResponse, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	return a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		_, isRevoked, err := a.RefreshTokenRepository.IsRefreshTokenRevoked(txCtx, token)
		if err != nil {
			return fmt.Errorf("failed to check if refresh token is revoked: %w", err)
		}
		if !isRevoked {
			if err := a.RefreshTokenRepository.RevokeRefreshToken(txCtx, token); err != nil {
				return fmt.Errorf("failed to revoke refresh token: %w", err)
			}
		}
		return nil
	})
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, caller auth.Identity) (auth.MeResponse, error) {
	if err := caller.RequireAuthenticated(); err != nil {
		return auth.MeResponse{}, err
	}

	employeeData, err := a.EmployeeRepository.GetByID(ctx, caller.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.MeResponse{}, auth.ErrUnauthenticated
		}
		return auth.MeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return auth.MeResponse{
		ID:      employeeData.ID,
		Name:    employeeData.Name,
		Handle:  employeeData.Handle,
		Email:   employeeData.Email,
		Role:    string(employeeData.Role),
		IsAdmin: employeeData.IsAdmin(),
	}, nil
}
