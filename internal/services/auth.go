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

	"github.com/voyageprep/voyage-backend/internal/logger"
	"github.com/voyageprep/voyage-backend/internal/repos"
	"github.com/voyageprep/voyage-backend/internal/requestdata"
	"github.com/voyageprep/voyage-backend/internal/types"
)

type AuthService interface {
	Register(ctx context.Context, email, name, password string) (*types.UserProfile, string, error)
	Login(ctx context.Context, email, password string) (*types.UserProfile, string, error)

	// SetContextFromToken validates the token and attaches the request
	// identity to the context.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	db          *gorm.DB
	log         *logger.Logger
	profiles    repos.ProfileRepo
	taskService TaskService
	secret      []byte
	tokenTTL    time.Duration
}

func NewAuthService(db *gorm.DB, baseLog *logger.Logger, profileRepo repos.ProfileRepo, taskService TaskService, secret string, tokenTTL time.Duration) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &authService{
		db:          db,
		log:         baseLog.With("service", "AuthService"),
		profiles:    profileRepo,
		taskService: taskService,
		secret:      []byte(secret),
		tokenTTL:    tokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, email, name, password string) (*types.UserProfile, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return nil, "", fmt.Errorf("email and name required")
	}
	if len(password) < 8 {
		return nil, "", fmt.Errorf("password must be at least 8 characters")
	}

	exists, err := s.profiles.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", fmt.Errorf("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	profile, err := s.profiles.Create(ctx, nil, &types.UserProfile{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CurrentStage: types.StageProfileBuilding,
	})
	if err != nil {
		return nil, "", err
	}

	if _, err := s.taskService.SeedBaselineTasks(ctx, profile.ID); err != nil {
		s.log.Warn("Baseline task seeding failed at signup", "user_id", profile.ID, "error", err)
	}

	token, err := s.mintToken(profile)
	if err != nil {
		return nil, "", err
	}
	return profile, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*types.UserProfile, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	profile, err := s.profiles.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, "", fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid credentials")
	}
	token, err := s.mintToken(profile)
	if err != nil {
		return nil, "", err
	}
	return profile, token, nil
}

func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return ctx, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx, fmt.Errorf("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return ctx, fmt.Errorf("invalid token subject")
	}
	email, _ := claims["email"].(string)

	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		Email:       email,
	}), nil
}

func (s *authService) mintToken(profile *types.UserProfile) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   profile.ID.String(),
		"email": profile.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	})
	return token.SignedString(s.secret)
}
