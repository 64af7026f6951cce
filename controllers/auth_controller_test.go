package controllers

import (
	"context"
	"net/http"
	"testing"

	"catalog-service/common/middleware"
	"catalog-service/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req services.RegisterRequest) (*services.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AuthResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req services.LoginRequest) (*services.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AuthResult), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, userID string) (*services.UserInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.UserInfo), args.Error(1)
}

func newAuthRouter(svc AuthServiceAPI, userID string) *gin.Engine {
	ctrl := NewAuthController(svc, NewRequestValidator())
	r := newTestEngine()
	r.POST("/api/auth/register", ctrl.Register)
	r.POST("/api/auth/login", ctrl.Login)
	r.GET("/api/auth/me", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	}, ctrl.Me)
	return r
}

func TestLogin(t *testing.T) {
	t.Run("Invalid credentials", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, services.LoginRequest{Email: "a@example.com", Password: "wrong"}).
			Return(nil, services.ErrInvalidCredentials)

		rec := doJSON(t, newAuthRouter(svc, ""), http.MethodPost, "/api/auth/login",
			map[string]string{"email": "a@example.com", "password": "wrong"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid credentials", decode(t, rec)["message"])
		svc.AssertExpectations(t)
	})

	t.Run("Malformed email never reaches the service", func(t *testing.T) {
		svc := new(MockAuthService)
		rec := doJSON(t, newAuthRouter(svc, ""), http.MethodPost, "/api/auth/login",
			map[string]string{"email": "nope", "password": "secret1"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})

	t.Run("Success", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, mock.Anything).Return(&services.AuthResult{
			Token: "tok",
			User:  services.UserInfo{ID: "u1", Email: "a@example.com", Role: "admin"},
		}, nil)

		rec := doJSON(t, newAuthRouter(svc, ""), http.MethodPost, "/api/auth/login",
			map[string]string{"email": "a@example.com", "password": "secret1"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "tok", decode(t, rec)["token"])
	})
}

func TestRegisterDuplicate(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Register", mock.Anything, mock.Anything).Return(nil, services.ErrAlreadyExists)

	rec := doJSON(t, newAuthRouter(svc, ""), http.MethodPost, "/api/auth/register",
		map[string]string{"email": "a@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", decode(t, rec)["message"])
}

func TestMe(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Me", mock.Anything, "u1").Return(&services.UserInfo{ID: "u1", Email: "a@example.com", Role: "admin"}, nil)
	svc.On("Me", mock.Anything, "gone").Return(nil, services.ErrNotFound)

	rec := doJSON(t, newAuthRouter(svc, "u1"), http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@example.com", decode(t, rec)["user"].(map[string]interface{})["email"])

	rec = doJSON(t, newAuthRouter(svc, "gone"), http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
