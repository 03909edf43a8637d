package services

import (
	"fmt"
	"log"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"dessertlab/internal/models"
	"dessertlab/internal/repositories"
)

// AuthService is the local-mode user directory: accounts live in the local
// user repository, passwords are bcrypt-hashed, and logins are answered
// with a signed JWT. In rest mode the upstream backend owns all of this.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  24 * time.Hour,
	}
}

// Register creates a new account with a hashed password.
func (s *AuthService) Register(user *models.User) error {
	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return fmt.Errorf("email '%s' already registered", user.Email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	user.Password = ""
	return nil
}

// Login authenticates by email and password and returns the user carrying
// a fresh token.
func (s *AuthService) Login(email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		// Do not reveal whether the email exists.
		return nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	user.Password = ""
	user.Token = signed
	return user, nil
}

// Profile fetches a user's profile.
func (s *AuthService) Profile(id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// SaveProfile applies the non-empty fields of the update to the stored
// profile. A new password is re-hashed.
func (s *AuthService) SaveProfile(id string, update *models.User) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if update.FirstName != "" {
		user.FirstName = update.FirstName
	}
	if update.LastName != "" {
		user.LastName = update.LastName
	}
	if update.Email != "" {
		user.Email = update.Email
	}
	if update.Phone != "" {
		user.Phone = update.Phone
	}
	if update.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(update.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// List returns one admin page of users without password hashes.
func (s *AuthService) List(page, limit int, search string) (*repositories.UserPage, error) {
	users, err := s.userRepo.List(page, limit, search)
	if err != nil {
		return nil, err
	}
	for i := range users.Users {
		users.Users[i].Password = ""
	}
	return users, nil
}

// Delete removes a user account.
func (s *AuthService) Delete(id string) error {
	return s.userRepo.Delete(id)
}

// ValidateToken parses and validates a locally issued JWT.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
