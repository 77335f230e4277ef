//go:build unit

package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blib-backend/internal/domain/subscriber"
	"blib-backend/internal/handler/api"
	"blib-backend/internal/pkg/errs"
	"blib-backend/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

// stubAccounts scripts AccountCommands responses per test.
type stubAccounts struct {
	loginResult *commands.LoginResult
	loginErr    error
	registerErr error
	updateErr   error

	lastLoginID int
}

func (s *stubAccounts) Register(context.Context, subscriber.Subscriber) error {
	return s.registerErr
}

func (s *stubAccounts) Login(_ context.Context, userID int, _ string) (*commands.LoginResult, error) {
	s.lastLoginID = userID
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.loginResult, nil
}

func (s *stubAccounts) UpdateDetails(context.Context, int, string, string, string) error {
	return s.updateErr
}

type AuthHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	accounts *stubAccounts
}

func (s *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.accounts = &stubAccounts{}

	handler := api.NewAuthHandler(s.accounts)
	s.router.POST("/api/auth/login", handler.Login)
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) postLogin(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *AuthHandlerTestSuite) TestLogin() {
	s.Run("success: returns token and role", func() {
		s.SetupTest()
		s.accounts.loginResult = &commands.LoginResult{Token: "test-jwt-token", Role: "subscriber"}

		rec := s.postLogin(`{"subscriber_id": 42, "password": "123456"}`)

		s.Equal(http.StatusOK, rec.Code)
		s.Equal(42, s.accounts.lastLoginID)
		s.Contains(rec.Body.String(), "test-jwt-token")
		s.Contains(rec.Body.String(), `"role":"subscriber"`)
	})

	s.Run("bad credentials: returns 401 without detail", func() {
		s.SetupTest()
		s.accounts.loginErr = errs.ErrInvalidCredentials

		rec := s.postLogin(`{"subscriber_id": 42, "password": "wrong"}`)

		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Contains(rec.Body.String(), "Invalid subscriber number or password")
	})

	s.Run("malformed body: returns 400", func() {
		s.SetupTest()
		rec := s.postLogin(`{"subscriber_id": "not a number"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("store failure: returns 500", func() {
		s.SetupTest()
		s.accounts.loginErr = errs.ErrDatabaseOperationFailed

		rec := s.postLogin(`{"subscriber_id": 42, "password": "123456"}`)

		s.Equal(http.StatusInternalServerError, rec.Code)
		s.NotContains(rec.Body.String(), "database", "internals stay hidden")
	})
}
