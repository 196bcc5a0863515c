package service

import (
	"errors"
	"fmt"

	"github.com/linksgen/linksbot/internal/domain"
	"github.com/linksgen/linksbot/internal/storage"
)

var (
	// ErrNotRegistered means the target Telegram ID never sent /start.
	ErrNotRegistered = errors.New("user never registered")
	// ErrNotAdmin means the target is registered but holds no admin role.
	ErrNotAdmin = errors.New("user is not an admin")
)

type UserService struct {
	storage          *storage.Storage
	bootstrapAdminID int64
}

func NewUserService(s *storage.Storage, bootstrapAdminID int64) *UserService {
	return &UserService{storage: s, bootstrapAdminID: bootstrapAdminID}
}

// Register creates a store row for a previously-unseen Telegram ID and
// returns the assigned role. The configured bootstrap admin gets the admin
// role, everyone else starts as a plain user. Calling Register again for a
// known ID is a no-op.
func (s *UserService) Register(telegramID int64) (domain.Role, bool, error) {
	role := domain.RoleUser
	if telegramID == s.bootstrapAdminID {
		role = domain.RoleAdmin
	}

	err := s.storage.CreateUser(telegramID, role)
	if errors.Is(err, storage.ErrDuplicateUser) {
		user, err := s.storage.GetUserByTelegramID(telegramID)
		if err != nil {
			return "", false, fmt.Errorf("get user: %w", err)
		}
		return user.Role, false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("create user: %w", err)
	}
	return role, true, nil
}

// IsAdmin reports whether the Telegram ID currently holds the admin role.
// The store is consulted on every call, so a demotion takes effect on the
// target's next command.
func (s *UserService) IsAdmin(telegramID int64) bool {
	ok, err := s.storage.IsAdmin(telegramID)
	if err != nil {
		// При сбое БД считаем, что прав нет
		return false
	}
	return ok
}

// PromoteAdmin grants the admin role to a registered user.
func (s *UserService) PromoteAdmin(targetID int64) error {
	exists, err := s.storage.UserExists(targetID)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return ErrNotRegistered
	}
	return s.storage.PromoteToAdmin(targetID)
}

// DemoteAdmin takes the admin role away from a current admin.
func (s *UserService) DemoteAdmin(targetID int64) error {
	isAdmin, err := s.storage.IsAdmin(targetID)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if !isAdmin {
		return ErrNotAdmin
	}
	return s.storage.DemoteToUser(targetID)
}
