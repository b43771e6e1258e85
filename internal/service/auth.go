package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/FleXiZ-IWNL/antiSnoreBack/internal"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/auth"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/storage"
)

var validate = validator.New()

var (
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("incorrect email or password")
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResult is what both register and login hand back: a bearer
// credential plus the user it is scoped to.
type TokenResult struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	User        *internal.User `json:"user"`
}

func ValidateRegisterRequest(req *RegisterRequest) error {
	return validate.Struct(req)
}

func ValidateLoginRequest(req *LoginRequest) error {
	return validate.Struct(req)
}

func Register(ctx context.Context, users storage.UserRepository, jwt *auth.JWTManager, req *RegisterRequest) (*TokenResult, error) {
	_, err := users.GetUserByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &internal.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return issueToken(jwt, user)
}

func Login(ctx context.Context, users storage.UserRepository, jwt *auth.JWTManager, req *LoginRequest) (*TokenResult, error) {
	user, err := users.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, ErrBadCredentials
	}
	return issueToken(jwt, user)
}

func issueToken(jwt *auth.JWTManager, user *internal.User) (*TokenResult, error) {
	token, err := jwt.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &TokenResult{AccessToken: token, TokenType: "bearer", User: user}, nil
}
