package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/stockwise/inventory-backend/internal/modules/user"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type service struct {
	userRepo user.Repository
	jwtKey   []byte
}

// NewService creates a new auth service signing tokens with the given key.
func NewService(userRepo user.Repository, jwtKey []byte) Service {
	return &service{userRepo: userRepo, jwtKey: jwtKey}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	fieldErrors := map[string][]string{}

	if strings.TrimSpace(req.Name) == "" {
		fieldErrors["name"] = append(fieldErrors["name"], "The name field is required.")
	}
	switch {
	case strings.TrimSpace(req.Email) == "":
		fieldErrors["email"] = append(fieldErrors["email"], "The email field is required.")
	default:
		if _, err := mail.ParseAddress(req.Email); err != nil {
			fieldErrors["email"] = append(fieldErrors["email"], "The email must be a valid email address.")
		} else {
			existing, err := s.userRepo.GetUserByEmail(ctx, req.Email)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				fieldErrors["email"] = append(fieldErrors["email"], "The email has already been taken.")
			}
		}
	}
	switch {
	case req.Password == "":
		fieldErrors["password"] = append(fieldErrors["password"], "The password field is required.")
	case len(req.Password) < 8:
		fieldErrors["password"] = append(fieldErrors["password"], "The password must be at least 8 characters.")
	case req.Password != req.PasswordConfirmation:
		fieldErrors["password"] = append(fieldErrors["password"], "The password confirmation does not match.")
	}

	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return s.newSession(u)
}

func (s *service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.newSession(u)
}

func (s *service) VerifyToken(tokenString string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidCredentials
	}
	return claims.Subject, nil
}

func (s *service) newSession(u *user.User) (*Session, error) {
	expirationTime := time.Now().Add(tokenTTL)
	claims := &jwt.StandardClaims{
		Subject:   u.ID.String(),
		ExpiresAt: expirationTime.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtKey)
	if err != nil {
		return nil, err
	}

	return &Session{User: u, Token: tokenString, TokenType: "Bearer"}, nil
}
