package auth

import (
	"context"
	"fmt"

	"github.com/jwalitptl/triage-api/internal/model"
	"github.com/jwalitptl/triage-api/internal/repository"
	pkgauth "github.com/jwalitptl/triage-api/pkg/auth"
	apperrors "github.com/jwalitptl/triage-api/pkg/errors"
	"github.com/jwalitptl/triage-api/pkg/security"
)

type AuthService interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
}

type Service struct {
	repo repository.StaffRepository
	jwt  pkgauth.JWTService
}

func NewService(repo repository.StaffRepository, jwt pkgauth.JWTService) *Service {
	return &Service{repo: repo, jwt: jwt}
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Unauthorized(fmt.Errorf("unknown staff account: %w", err))
	}

	if !security.CheckPassword(req.Password, user.PasswordHash) {
		return nil, apperrors.Unauthorized(fmt.Errorf("invalid credentials"))
	}

	token, expiresAt, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &model.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Role:      user.Role,
	}, nil
}
