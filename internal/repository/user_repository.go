package repository

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/placement-cell-api/internal/models"
	appErrors "github.com/noah-isme/placement-cell-api/pkg/errors"
)

// DefaultUsers is the built-in credential list used when no users file is configured.
func DefaultUsers() []models.User {
	return []models.User{
		{Username: "admin", Password: "admin123", Role: models.RoleAdmin},
		{Username: "user1", Password: "user123", Role: models.RoleViewer},
	}
}

type usersFile struct {
	Users []models.User `yaml:"users"`
}

// LoadUsersFile reads a YAML credential list of the form
//
//	users:
//	  - username: admin
//	    password: secret
//	    role: admin
//
// Entries may carry password_hash (bcrypt) instead of a plain password.
func LoadUsersFile(path string) ([]models.User, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	var doc usersFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}
	if len(doc.Users) == 0 {
		return nil, fmt.Errorf("users file %s defines no users", path)
	}
	return doc.Users, nil
}

// UserRepository holds the static credential list with bcrypt hashed passwords.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

// NewUserRepository hashes plain passwords and indexes users by lower-cased username.
func NewUserRepository(users []models.User) (*UserRepository, error) {
	repo := &UserRepository{users: make(map[string]models.User, len(users))}
	for _, u := range users {
		name := strings.TrimSpace(u.Username)
		if name == "" {
			return nil, fmt.Errorf("user without username")
		}
		switch u.Role {
		case models.RoleAdmin, models.RoleViewer:
		default:
			return nil, fmt.Errorf("user %s has unknown role %q", name, u.Role)
		}
		if u.PasswordHash == "" {
			if u.Password == "" {
				return nil, fmt.Errorf("user %s has no password", name)
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("hash password for %s: %w", name, err)
			}
			u.PasswordHash = string(hash)
		}
		u.Username = name
		u.Password = ""
		repo.users[strings.ToLower(name)] = u
	}
	return repo, nil
}

// FindByUsername looks a user up case-insensitively.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	return &u, nil
}

// Count returns the number of configured users.
func (r *UserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
