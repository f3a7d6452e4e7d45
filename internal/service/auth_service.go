package service

import (
	"errors"
	"strings"

	"github.com/fundhouse/internal/db"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned for an unknown user or wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService verifies admin credentials.
type AuthService struct {
	db *gorm.DB
}

// NewAuthService creates an AuthService instance.
func NewAuthService(gdb *gorm.DB) *AuthService {
	return &AuthService{db: gdb}
}

// Authenticate returns the user matching username and password.
func (s *AuthService) Authenticate(username, password string) (*db.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user db.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GetUser fetches a user by id.
func (s *AuthService) GetUser(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return &user, nil
}
