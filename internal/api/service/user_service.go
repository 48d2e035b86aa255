package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ctchen222/tictactoe/internal/api/models"
	"ctchen222/tictactoe/internal/api/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// UserService defines the interface for user-related business logic.
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	GuestLogin(ctx context.Context) (*models.AuthResponse, error)
	// ParseToken returns the player ID a token was issued for.
	ParseToken(token string) (string, error)
}

type userService struct {
	userRepo repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

// NewUserService creates a new UserService signing HS256 tokens with secret.
func NewUserService(userRepo repository.UserRepository, secret string, tokenTTL time.Duration) UserService {
	return &userService{
		userRepo: userRepo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// Register creates an account with a fresh player ID and signs it in.
func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	existingUser, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, ErrUsernameTaken
	}

	user := &models.User{
		Username: req.Username,
		PlayerID: uuid.NewString(),
	}
	if err := s.userRepo.CreateUser(ctx, user, req.Password); err != nil {
		return nil, err
	}

	return s.issue(user.PlayerID, user.Username)
}

// Login handles user login and returns a JWT on success.
func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user.PlayerID, user.Username)
}

// GuestLogin generates a player ID with a token and no account behind it.
func (s *userService) GuestLogin(ctx context.Context) (*models.AuthResponse, error) {
	return s.issue(uuid.NewString(), "")
}

func (s *userService) issue(playerID, username string) (*models.AuthResponse, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": playerID,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}
	if username != "" {
		claims["un"] = username
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &models.AuthResponse{PlayerID: playerID, Token: token}, nil
}

func (s *userService) ParseToken(tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	playerID, err := claims.GetSubject()
	if err != nil || playerID == "" {
		return "", ErrInvalidToken
	}
	return playerID, nil
}
