package user

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"invoiceservice/internal/domain"
)

const tokenTTL = 24 * time.Hour

type Service interface {
	Register(ctx context.Context, name, email, password string) (User, string, error)
	Login(ctx context.Context, email, password string) (User, string, error)
}

type service struct {
	users  Repository
	secret []byte
}

func NewService(users Repository, jwtSecret []byte) Service {
	return &service{
		users:  users,
		secret: jwtSecret,
	}
}

func (s *service) Register(ctx context.Context, name, email, password string) (User, string, error) {
	if name == "" || email == "" || password == "" {
		return User{}, "", &domain.DomainError{
			Code:       domain.ErrorCodeValidation,
			Message:    "name, email and password are required",
			HTTPStatus: http.StatusBadRequest,
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, "", err
	}

	created, err := s.users.Create(ctx, User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return User{}, "", err
	}

	token, err := s.issueToken(created.ID)
	if err != nil {
		return User{}, "", err
	}

	return created, token, nil
}

func (s *service) Login(ctx context.Context, email, password string) (User, string, error) {
	notAuthorized := &domain.DomainError{
		Code:       domain.ErrorCodeNotAuthorized,
		Message:    "invalid credentials",
		HTTPStatus: http.StatusUnauthorized,
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		var de *domain.DomainError
		if errors.As(err, &de) && de.Code == domain.ErrorCodeNotFound {
			return User{}, "", notAuthorized
		}
		return User{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, "", notAuthorized
	}

	token, err := s.issueToken(u.ID)
	if err != nil {
		return User{}, "", err
	}

	return u, token, nil
}

func (s *service) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
