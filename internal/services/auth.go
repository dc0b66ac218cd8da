package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/apierr"
	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/repos"
	"github.com/medtrace/pathlab-backend/internal/types"
)

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*types.AppUser, error)
	Login(ctx context.Context, email, password string) (string, *types.AppUser, error)
	// Refresh issues a new access token for an already-authenticated user.
	Refresh(ctx context.Context, userID uuid.UUID) (string, *types.AppUser, error)
	// ParseToken validates the signed token and returns its claims; the
	// auth middleware builds request data from these.
	ParseToken(tokenString string) (*TokenClaims, error)
	AccessTTL() time.Duration
}

type RegisterInput struct {
	TenantID uuid.UUID
	BranchID *uuid.UUID
	Email    string
	Username string
	FullName string
	Password string
	Role     types.UserRole
}

type TokenClaims struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	BranchID uuid.UUID
	Role     types.UserRole
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	jwtSecretKey string
	accessTTL    time.Duration
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, jwtSecretKey string, accessTTL time.Duration) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:           db,
		log:          serviceLog,
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}
}

func (as *authService) Register(ctx context.Context, in RegisterInput) (*types.AppUser, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, apierr.Validation("email is required")
	}
	if len(in.Password) < 8 {
		return nil, apierr.Validation("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &types.AppUser{
		TenantID:     in.TenantID,
		BranchID:     in.BranchID,
		Email:        email,
		Username:     in.Username,
		FullName:     in.FullName,
		PasswordHash: string(hash),
		Role:         in.Role,
	}
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if existing, err := as.userRepo.GetByEmail(ctx, tx, email); err == nil && existing != nil {
			return apierr.Conflict("email already registered")
		}
		_, err := as.userRepo.Create(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (string, *types.AppUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return "", nil, apierr.Forbidden("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apierr.Forbidden("invalid email or password")
	}

	token, err := as.generateAccessToken(user)
	if err != nil {
		return "", nil, err
	}
	as.log.Info("User logged in", "user_id", user.ID.String())
	return token, user, nil
}

func (as *authService) Refresh(ctx context.Context, userID uuid.UUID) (string, *types.AppUser, error) {
	user, err := as.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return "", nil, apierr.Forbidden("unknown user")
	}
	token, err := as.generateAccessToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (as *authService) generateAccessToken(user *types.AppUser) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       user.ID.String(),
		"tenant_id": user.TenantID.String(),
		"role":      string(user.Role),
		"iat":       now.Unix(),
		"exp":       now.Add(as.accessTTL).Unix(),
	}
	if user.BranchID != nil {
		claims["branch_id"] = user.BranchID.String()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

func (as *authService) ParseToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, apierr.Forbidden("invalid or expired token")
	}
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierr.Forbidden("invalid token claims")
	}

	out := &TokenClaims{}
	if sub, ok := mapClaims["sub"].(string); ok {
		out.UserID, _ = uuid.Parse(sub)
	}
	if tid, ok := mapClaims["tenant_id"].(string); ok {
		out.TenantID, _ = uuid.Parse(tid)
	}
	if bid, ok := mapClaims["branch_id"].(string); ok {
		out.BranchID, _ = uuid.Parse(bid)
	}
	if role, ok := mapClaims["role"].(string); ok {
		out.Role = types.UserRole(role)
	}
	if out.UserID == uuid.Nil || out.TenantID == uuid.Nil {
		return nil, apierr.Forbidden("invalid token claims")
	}
	return out, nil
}

func (as *authService) AccessTTL() time.Duration {
	return as.accessTTL
}
