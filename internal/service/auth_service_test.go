package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/coursehub-dev/coursehub-api/internal/models"
	appErrors "github.com/coursehub-dev/coursehub-api/pkg/errors"
)

type mockAccountRepo struct {
	accounts       map[string]*models.Account
	principals     map[string]*models.Principal
	createdAccount *models.Account
	createdUser    *models.User
	createdTeacher *models.Teacher
}

func (m *mockAccountRepo) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	if a, ok := m.accounts[email]; ok {
		return a, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := m.accounts[email]
	return ok, nil
}

func (m *mockAccountRepo) FindPrincipalByEmail(ctx context.Context, email string) (*models.Principal, error) {
	if p, ok := m.principals[email]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccountRepo) CreateWithProfile(ctx context.Context, account *models.Account, user *models.User, teacher *models.Teacher) error {
	if account.ID == "" {
		account.ID = models.NewID()
	}
	user.AccountID = account.ID
	if teacher != nil {
		teacher.AccountID = account.ID
	}
	m.createdAccount = account
	m.createdUser = user
	m.createdTeacher = teacher
	if m.accounts == nil {
		m.accounts = make(map[string]*models.Account)
	}
	m.accounts[account.Email] = account
	return nil
}

func newAuthService(repo *mockAccountRepo) *AuthService {
	return NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
	})
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthServiceSignupStudent(t *testing.T) {
	repo := &mockAccountRepo{}
	svc := newAuthService(repo)

	account, err := svc.Signup(context.Background(), models.SignupRequest{
		Email:     "student@example.com",
		Password:  "secret1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Role:      models.RoleStudent,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, account.Role)
	assert.NotEmpty(t, account.ID)
	assert.NotEqual(t, "secret1", account.PasswordHash, "password must be hashed")

	require.NotNil(t, repo.createdUser)
	assert.Equal(t, "Ada", repo.createdUser.FirstName)
	assert.Nil(t, repo.createdTeacher, "student signup must not create a teacher profile")
}

func TestAuthServiceSignupTeacherCreatesProfile(t *testing.T) {
	repo := &mockAccountRepo{}
	svc := newAuthService(repo)

	account, err := svc.Signup(context.Background(), models.SignupRequest{
		Email:     "teacher@example.com",
		Password:  "secret1",
		FirstName: "Grace",
		LastName:  "Hopper",
		Role:      models.RoleTeacher,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, account.Role)

	require.NotNil(t, repo.createdTeacher)
	assert.Equal(t, account.ID, repo.createdTeacher.AccountID)
	assert.JSONEq(t, "{}", string(repo.createdTeacher.Social))
}

func TestAuthServiceSignupDuplicateEmail(t *testing.T) {
	repo := &mockAccountRepo{accounts: map[string]*models.Account{
		"taken@example.com": {ID: models.NewID(), Email: "taken@example.com"},
	}}
	svc := newAuthService(repo)

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		Email:     "taken@example.com",
		Password:  "secret1",
		FirstName: "A",
		LastName:  "B",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Status, appErrors.FromError(err).Status)
}

func TestAuthServiceSignupRejectsInvalidPayload(t *testing.T) {
	svc := newAuthService(&mockAccountRepo{})

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		Email:     "not-an-email",
		Password:  "short",
		FirstName: "A",
		LastName:  "B",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidInput.Status, appErrors.FromError(err).Status)
}

func TestAuthServiceLogin(t *testing.T) {
	account := &models.Account{
		ID:           models.NewID(),
		Email:        "user@example.com",
		PasswordHash: hashPassword(t, "secret1"),
		Role:         models.RoleStudent,
	}
	repo := &mockAccountRepo{accounts: map[string]*models.Account{account.Email: account}}
	svc := newAuthService(repo)

	result, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, account.ID, result.User.ID)
	assert.NotEmpty(t, result.Token)

	claims, err := svc.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.AccountID)
	assert.Equal(t, account.Email, claims.Email)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	account := &models.Account{
		ID:           models.NewID(),
		Email:        "user@example.com",
		PasswordHash: hashPassword(t, "secret1"),
	}
	repo := &mockAccountRepo{accounts: map[string]*models.Account{account.Email: account}}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthenticated.Status, appErrors.FromError(err).Status)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	svc := newAuthService(&mockAccountRepo{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@example.com", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
}

func TestAuthServiceLoginBannedAccount(t *testing.T) {
	account := &models.Account{
		ID:           models.NewID(),
		Email:        "banned@example.com",
		PasswordHash: hashPassword(t, "secret1"),
		Banned:       true,
	}
	repo := &mockAccountRepo{accounts: map[string]*models.Account{account.Email: account}}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "banned@example.com", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Status, appErrors.FromError(err).Status)
}

func TestAuthServiceValidateTokenRejectsTampered(t *testing.T) {
	svc := newAuthService(&mockAccountRepo{})
	other := NewAuthService(&mockAccountRepo{}, validator.New(), zap.NewNop(), AuthConfig{
		TokenSecret: "another-secret",
		TokenExpiry: time.Hour,
	})

	token, err := other.generateToken(&models.Account{ID: models.NewID(), Email: "x@example.com"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthenticated.Status, appErrors.FromError(err).Status)
}

func TestAuthServiceResolvePrincipal(t *testing.T) {
	account := &models.Account{
		ID:           models.NewID(),
		Email:        "user@example.com",
		PasswordHash: hashPassword(t, "secret1"),
	}
	principal := &models.Principal{
		Account: *account,
		User:    models.User{ID: models.NewID(), AccountID: account.ID, FirstName: "Ada", LastName: "Lovelace"},
	}
	repo := &mockAccountRepo{
		accounts:   map[string]*models.Account{account.Email: account},
		principals: map[string]*models.Principal{account.Email: principal},
	}
	svc := newAuthService(repo)

	result, err := svc.Login(context.Background(), models.LoginRequest{Email: account.Email, Password: "secret1"})
	require.NoError(t, err)

	resolved, err := svc.ResolvePrincipal(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, resolved.Account.ID)
	assert.Equal(t, "Ada Lovelace", resolved.User.FullName())
	assert.False(t, resolved.IsTeacher())
}

func TestAuthServiceResolvePrincipalStaleEmail(t *testing.T) {
	account := &models.Account{
		ID:           models.NewID(),
		Email:        "old@example.com",
		PasswordHash: hashPassword(t, "secret1"),
	}
	repo := &mockAccountRepo{accounts: map[string]*models.Account{account.Email: account}}
	svc := newAuthService(repo)

	result, err := svc.Login(context.Background(), models.LoginRequest{Email: account.Email, Password: "secret1"})
	require.NoError(t, err)

	// No principal registered under the token's email: resolution fails even
	// though the account row still exists under a new address.
	_, err = svc.ResolvePrincipal(context.Background(), result.Token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthenticated.Status, appErrors.FromError(err).Status)
}
