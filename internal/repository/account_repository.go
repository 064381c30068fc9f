package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/coursehub-dev/coursehub-api/internal/models"
)

// AccountRepository manages persistence for accounts and their profiles.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository constructs an AccountRepository.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// FindByEmail fetches an account by email.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	const query = `SELECT id, email, password_hash, role, banned, created_at, updated_at FROM accounts WHERE LOWER(email) = LOWER($1)`
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, email); err != nil {
		return nil, err
	}
	return &account, nil
}

// ExistsByEmail checks whether an account already uses the given email.
func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT 1 FROM accounts WHERE LOWER(email) = LOWER($1) LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check account email: %w", err)
	}
	return true, nil
}

// FindPrincipalByEmail loads the account with its user profile and, when
// present, its teacher profile.
func (r *AccountRepository) FindPrincipalByEmail(ctx context.Context, email string) (*models.Principal, error) {
	account, err := r.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	const userQuery = `SELECT id, account_id, first_name, last_name, profile, created_at, updated_at FROM users WHERE account_id = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, userQuery, account.ID); err != nil {
		return nil, fmt.Errorf("load user profile: %w", err)
	}

	principal := &models.Principal{Account: *account, User: user}

	const teacherQuery = `SELECT id, account_id, bio, headline, social, education, experience, profile, created_at, updated_at FROM teachers WHERE account_id = $1`
	var teacher models.Teacher
	err = r.db.GetContext(ctx, &teacher, teacherQuery, account.ID)
	switch {
	case err == nil:
		principal.Teacher = &teacher
	case errors.Is(err, sql.ErrNoRows):
		// student account, no teacher profile
	default:
		return nil, fmt.Errorf("load teacher profile: %w", err)
	}

	return principal, nil
}

// CreateWithProfile inserts the account, its user profile and, for teacher
// signups, the teacher profile in a single transaction.
func (r *AccountRepository) CreateWithProfile(ctx context.Context, account *models.Account, user *models.User, teacher *models.Teacher) error {
	now := time.Now().UTC()
	if account.ID == "" {
		account.ID = models.NewID()
	}
	account.CreatedAt = now
	account.UpdatedAt = now

	user.ID = models.NewID()
	user.AccountID = account.ID
	user.CreatedAt = now
	user.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin signup tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const accountQuery = `INSERT INTO accounts (id, email, password_hash, role, banned, created_at, updated_at)
		VALUES (:id, :email, :password_hash, :role, :banned, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, accountQuery, account); err != nil {
		return fmt.Errorf("create account: %w", err)
	}

	const userQuery = `INSERT INTO users (id, account_id, first_name, last_name, profile, created_at, updated_at)
		VALUES (:id, :account_id, :first_name, :last_name, :profile, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, userQuery, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	if teacher != nil {
		teacher.ID = models.NewID()
		teacher.AccountID = account.ID
		teacher.CreatedAt = now
		teacher.UpdatedAt = now

		const teacherQuery = `INSERT INTO teachers (id, account_id, bio, headline, social, education, experience, profile, created_at, updated_at)
			VALUES (:id, :account_id, :bio, :headline, :social, :education, :experience, :profile, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, teacherQuery, teacher); err != nil {
			return fmt.Errorf("create teacher profile: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit signup tx: %w", err)
	}
	return nil
}

// TeacherExists reports whether a teacher profile with the given id exists.
func (r *AccountRepository) TeacherExists(ctx context.Context, teacherID string) (bool, error) {
	const query = `SELECT 1 FROM teachers WHERE id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check teacher: %w", err)
	}
	return true, nil
}
