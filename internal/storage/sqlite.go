package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/linksgen/linksbot/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

var (
	ErrDuplicateUser = errors.New("user already registered")
	ErrUnknownRole   = errors.New("unknown role")
)

type Storage struct {
	db *sql.DB
}

func New(dbPath string) (*Storage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS role (
			id_role INTEGER NOT NULL PRIMARY KEY,
			role_name VARCHAR(500) NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tg_id INTEGER NOT NULL UNIQUE,
			id_role INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (id_role) REFERENCES role(id_role)
		)`,
		// Справочник ролей: закрытое множество
		`INSERT OR IGNORE INTO role (id_role, role_name) VALUES (1, 'admin'), (2, 'user')`,
		`CREATE INDEX IF NOT EXISTS idx_users_tg_id ON users(tg_id)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// === Users ===

func (s *Storage) UserExists(telegramID int64) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM users WHERE tg_id = ?`, telegramID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateUser registers a Telegram ID with the given role. The role must be
// one of the seeded role names.
func (s *Storage) CreateUser(telegramID int64, role domain.Role) error {
	exists, err := s.UserExists(telegramID)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateUser
	}

	var roleID int64
	err = s.db.QueryRow(`SELECT id_role FROM role WHERE role_name = ?`, string(role)).Scan(&roleID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(`INSERT INTO users (tg_id, id_role) VALUES (?, ?)`, telegramID, roleID); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Storage) GetUserByTelegramID(telegramID int64) (*domain.User, error) {
	u := &domain.User{}
	err := s.db.QueryRow(
		`SELECT u.id, u.tg_id, r.role_name, u.created_at
		 FROM users u JOIN role r ON u.id_role = r.id_role
		 WHERE u.tg_id = ?`,
		telegramID,
	).Scan(&u.ID, &u.TelegramID, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

// PromoteToAdmin sets the user's role to admin. The target is not validated:
// updating an unregistered ID touches no rows and is not an error, callers
// are expected to check UserExists first.
func (s *Storage) PromoteToAdmin(telegramID int64) error {
	return s.setRole(telegramID, domain.RoleAdmin)
}

// DemoteToUser sets the user's role back to user. Same shape as PromoteToAdmin.
func (s *Storage) DemoteToUser(telegramID int64) error {
	return s.setRole(telegramID, domain.RoleUser)
}

func (s *Storage) setRole(telegramID int64, role domain.Role) error {
	var roleID int64
	err := s.db.QueryRow(`SELECT id_role FROM role WHERE role_name = ?`, string(role)).Scan(&roleID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(`UPDATE users SET id_role = ? WHERE tg_id = ?`, roleID, telegramID); err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return nil
}

// IsAdmin reports whether the Telegram ID has the admin role. Unknown users
// are not admins.
func (s *Storage) IsAdmin(telegramID int64) (bool, error) {
	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM users u
		 JOIN role r ON u.id_role = r.id_role
		 WHERE u.tg_id = ? AND r.role_name = 'admin'`,
		telegramID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListAdmins returns the Telegram IDs of all admins, in registration order.
func (s *Storage) ListAdmins() ([]int64, error) {
	rows, err := s.db.Query(
		`SELECT u.tg_id FROM users u
		 JOIN role r ON u.id_role = r.id_role
		 WHERE r.role_name = 'admin'
		 ORDER BY u.id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
