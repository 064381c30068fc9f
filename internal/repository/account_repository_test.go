package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub-dev/coursehub-api/internal/models"
)

func TestAccountRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "banned", "created_at", "updated_at"}).
		AddRow("a1", "user@example.com", "hash", "STUDENT", false, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password_hash, role, banned, created_at, updated_at FROM accounts WHERE LOWER(email) = LOWER($1)")).
		WithArgs("user@example.com").
		WillReturnRows(rows)

	account, err := repo.FindByEmail(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, account.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryExistsByEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM accounts WHERE LOWER(email) = LOWER($1) LIMIT 1")).
		WithArgs("taken@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM accounts WHERE LOWER(email) = LOWER($1) LIMIT 1")).
		WithArgs("free@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	exists, err := repo.ExistsByEmail(context.Background(), "taken@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(context.Background(), "free@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryCreateWithProfileStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO accounts").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	account := &models.Account{Email: "user@example.com", PasswordHash: "hash", Role: models.RoleStudent}
	user := &models.User{FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, repo.CreateWithProfile(context.Background(), account, user, nil))
	assert.True(t, models.ValidID(account.ID))
	assert.Equal(t, account.ID, user.AccountID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryCreateWithProfileTeacher(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO accounts").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO teachers").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	account := &models.Account{Email: "t@example.com", PasswordHash: "hash", Role: models.RoleTeacher}
	user := &models.User{FirstName: "Grace", LastName: "Hopper"}
	teacher := &models.Teacher{Social: types.JSONText("{}"), Education: types.JSONText("{}"), Experience: types.JSONText("{}")}
	require.NoError(t, repo.CreateWithProfile(context.Background(), account, user, teacher))
	assert.Equal(t, account.ID, teacher.AccountID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryFindPrincipalByEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectQuery("SELECT id, email, password_hash, role, banned, created_at, updated_at FROM accounts").
		WithArgs("t@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "banned", "created_at", "updated_at"}).
			AddRow("a1", "t@example.com", "hash", "TEACHER", false, time.Now(), time.Now()))
	mock.ExpectQuery("SELECT id, account_id, first_name, last_name, profile, created_at, updated_at FROM users").
		WithArgs("a1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "first_name", "last_name", "profile", "created_at", "updated_at"}).
			AddRow("u1", "a1", "Grace", "Hopper", "", time.Now(), time.Now()))
	mock.ExpectQuery("SELECT id, account_id, bio, headline, social, education, experience, profile, created_at, updated_at FROM teachers").
		WithArgs("a1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "bio", "headline", "social", "education", "experience", "profile", "created_at", "updated_at"}).
			AddRow("t1", "a1", "", "", []byte("{}"), []byte("{}"), []byte("{}"), "", time.Now(), time.Now()))

	principal, err := repo.FindPrincipalByEmail(context.Background(), "t@example.com")
	require.NoError(t, err)
	assert.True(t, principal.IsTeacher())
	assert.Equal(t, "t1", principal.Teacher.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryFindPrincipalByEmailStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectQuery("SELECT id, email, password_hash, role, banned, created_at, updated_at FROM accounts").
		WithArgs("s@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "banned", "created_at", "updated_at"}).
			AddRow("a2", "s@example.com", "hash", "STUDENT", false, time.Now(), time.Now()))
	mock.ExpectQuery("SELECT id, account_id, first_name, last_name, profile, created_at, updated_at FROM users").
		WithArgs("a2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "first_name", "last_name", "profile", "created_at", "updated_at"}).
			AddRow("u2", "a2", "Ada", "Lovelace", "", time.Now(), time.Now()))
	mock.ExpectQuery("SELECT id, account_id, bio, headline, social, education, experience, profile, created_at, updated_at FROM teachers").
		WithArgs("a2").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	principal, err := repo.FindPrincipalByEmail(context.Background(), "s@example.com")
	require.NoError(t, err)
	assert.Nil(t, principal.Teacher)
	assert.False(t, principal.IsTeacher())
	assert.NoError(t, mock.ExpectationsWereMet())
}
