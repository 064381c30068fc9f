package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/coursehub-dev/coursehub-api/internal/models"
	"github.com/coursehub-dev/coursehub-api/internal/service"
)

type stubAccountRepo struct {
	account   *models.Account
	principal *models.Principal
}

func (s *stubAccountRepo) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	if s.account != nil && s.account.Email == email {
		return s.account, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubAccountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.account != nil && s.account.Email == email, nil
}

func (s *stubAccountRepo) FindPrincipalByEmail(ctx context.Context, email string) (*models.Principal, error) {
	if s.principal != nil && s.principal.Account.Email == email {
		return s.principal, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubAccountRepo) CreateWithProfile(ctx context.Context, account *models.Account, user *models.User, teacher *models.Teacher) error {
	return nil
}

func newAuthFixture(t *testing.T) (*service.AuthService, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	account := models.Account{
		ID:           models.NewID(),
		Email:        "user@example.com",
		PasswordHash: string(hash),
	}
	repo := &stubAccountRepo{
		account: &account,
		principal: &models.Principal{
			Account: account,
			User:    models.User{ID: models.NewID(), AccountID: account.ID, FirstName: "Ada"},
		},
	}
	svc := service.NewAuthService(repo, validator.New(), zap.NewNop(), service.AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
	})

	result, err := svc.Login(context.Background(), models.LoginRequest{Email: account.Email, Password: "secret1"})
	require.NoError(t, err)
	return svc, result.Token
}

func authTestRouter(svc *service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Auth(svc, "token"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": Principal(c).Account.ID})
	})
	return r
}

func TestAuthAcceptsCookieToken(t *testing.T) {
	svc, token := newAuthFixture(t)
	r := authTestRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthAcceptsBearerToken(t *testing.T) {
	svc, token := newAuthFixture(t)
	r := authTestRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRejectsMissingToken(t *testing.T) {
	svc, _ := newAuthFixture(t)
	r := authTestRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	svc, _ := newAuthFixture(t)
	r := authTestRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPreventIfLoggedIn(t *testing.T) {
	svc, token := newAuthFixture(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", PreventIfLoggedIn(svc, "token"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/login", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Garbage tokens are ignored and the request goes through.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPost, "/login", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "expired-or-garbage"})
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireTeacher(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/teach", func(c *gin.Context) {
		c.Set(ContextUserKey, &models.Principal{
			Account: models.Account{Role: models.RoleStudent},
		})
	}, RequireTeacher(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/teach", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireTeacherAllowsTeacher(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/teach", func(c *gin.Context) {
		c.Set(ContextUserKey, &models.Principal{
			Account: models.Account{Role: models.RoleTeacher},
			Teacher: &models.Teacher{ID: models.NewID()},
		})
	}, RequireTeacher(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/teach", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
