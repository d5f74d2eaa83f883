package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/auth"
	"github.com/precise-ai/backend/internal/config"
	"github.com/precise-ai/backend/internal/models"
)

type UserService struct {
	userRepo  UserStore
	auditRepo AuditStore
	cfg       *config.Config
	log       *zap.Logger
}

func NewUserService(userRepo UserStore, auditRepo AuditStore, cfg *config.Config, log *zap.Logger) *UserService {
	return &UserService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		cfg:       cfg,
		log:       log,
	}
}

type Session struct {
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
	IsAdmin bool         `json:"is_admin"`
}

// Login upserts the user by email and issues a token. Role applies only to new users.
func (s *UserService) Login(ctx context.Context, email, name, role string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email required", models.ErrInvalidInput)
	}
	if role == "" {
		role = models.RoleMediaBuyer
	}
	if !models.IsValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", models.ErrInvalidInput, role)
	}

	user, err := s.userRepo.UpsertByEmail(ctx, email, strings.TrimSpace(name), role)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	return s.session(user)
}

func (s *UserService) GetMe(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// CompleteOnboarding sets the role and returns a fresh token carrying it.
func (s *UserService) CompleteOnboarding(ctx context.Context, userID uuid.UUID, role string) (*Session, error) {
	if !models.IsValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", models.ErrInvalidInput, role)
	}

	user, err := s.userRepo.CompleteOnboarding(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.UserAction(userID, models.ActionOnboardingCompleted, models.EntityUser, userID,
		map[string]any{"role": role}))

	return s.session(user)
}

func (s *UserService) Ping(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.UpdateLastActive(ctx, userID)
}

func (s *UserService) session(user *models.User) (*Session, error) {
	token, err := auth.GenerateJWT(s.cfg.JWTSecret, user.ID, user.Email, user.Role, s.cfg.JWTExpiration)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Token: token, User: user, IsAdmin: s.cfg.IsAdmin(user.Email)}, nil
}
