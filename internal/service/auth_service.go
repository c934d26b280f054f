package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/auth"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/config"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/repository"
	apperrors "github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/pkg/util/errorutil"
)

// AuthService authenticates staff members.
type AuthService struct {
	staff      repository.StaffRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// LoginInput carries staff credentials.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// StaffInput registers a staff account.
type StaffInput struct {
	Name     string           `json:"name" validate:"required,max=255"`
	Email    string           `json:"email" validate:"required,email,max=320"`
	Password string           `json:"password" validate:"required,min=8,max=72"`
	Role     domain.StaffRole `json:"role" validate:"omitempty,oneof=staff admin"`
}

// Session is an issued access token.
type Session struct {
	Staff     *domain.StaffMember
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, staff repository.StaffRepository, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		staff:      staff,
		tokenMgr:   tokens,
		bcryptCost: cfg.Auth.BcryptCost,
		logger:     logger,
	}
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*Session, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	staff, err := s.staff.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if err := auth.ComparePassword(staff.PasswordHash, input.Password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Error("stored password hash unreadable", zap.String("staff_id", staff.ID), zap.Error(err))
		}
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if !staff.Active {
		return nil, apperrors.NewUnauthorized("account disabled")
	}

	token, exp, err := s.tokenMgr.GenerateToken(staff)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if err := s.staff.TouchLastSignedIn(ctx, staff.ID); err != nil {
		s.logger.Warn("failed to record sign in", zap.String("staff_id", staff.ID), zap.Error(err))
	}
	return &Session{Staff: staff, Token: token, ExpiresAt: exp}, nil
}

// Me reloads the signed-in staff member.
func (s *AuthService) Me(ctx context.Context, id string) (*domain.StaffMember, error) {
	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "staff member", id)
	}
	return staff, nil
}

// CreateStaff registers an active staff account. Role defaults to admin.
func (s *AuthService) CreateStaff(ctx context.Context, input StaffInput) (*domain.StaffMember, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if input.Role == "" {
		input.Role = domain.StaffRoleAdmin
	}
	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	staff := &domain.StaffMember{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		Active:       true,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": input.Email})
		}
		return nil, err
	}
	return staff, nil
}
