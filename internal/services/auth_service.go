package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"portfolio_admin/internal/appErrors"
	"portfolio_admin/internal/auth"
	"portfolio_admin/internal/repositories"
	"portfolio_admin/internal/services/dto"
)

type AuthService interface {
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, appErrors.ErrInvalidCredentials
	}

	token, expiresAt, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
