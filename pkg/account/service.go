// Package account handles identity: account creation, authentication, and
// password changes. Password hashing is bcrypt; nothing outside this package
// touches hashes.
package account

import (
	"errors"

	"github.com/cloudgoose/storage/pkg/cgdb/model"
	"github.com/cloudgoose/storage/pkg/cgdb/stor"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	users stor.UserStor
}

func NewService(users stor.UserStor) *Service {
	return &Service{users: users}
}

// CreateAccount creates a user and their "~root" folder. The two inserts share a
// transaction, so no committed user ever lacks a root folder.
func (s *Service) CreateAccount(username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, stor.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.users.CreateUserWithRoot(username, string(hash))
}

// Authenticate looks the user up by exact username and verifies the password.
// Unknown users and wrong passwords both return ErrInvalidCredentials so the
// caller can't distinguish the two.
func (s *Service) Authenticate(username, password string) (*model.User, error) {
	user, err := s.users.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, stor.ErrNotFound) {
			return nil, stor.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, stor.ErrInvalidCredentials
	}

	return user, nil
}

// ChangePassword replaces the stored hash. No other entity is touched.
func (s *Service) ChangePassword(user *model.User, newPassword string) error {
	if newPassword == "" {
		return stor.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.users.UpdatePasswordHash(user, string(hash))
}

func (s *Service) GetUserByUsername(username string) (*model.User, error) {
	return s.users.GetUserByUsername(username)
}

func (s *Service) GetUserBySlug(slug string) (*model.User, error) {
	return s.users.GetUserBySlug(slug)
}
