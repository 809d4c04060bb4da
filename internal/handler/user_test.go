package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andrewlin1368/grace-shopper-e-commerce/internal/model"
	"github.com/andrewlin1368/grace-shopper-e-commerce/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthService struct {
	loginFunc    func(ctx context.Context, username, password string) (*model.AuthResponse, error)
	registerFunc func(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)
	validateFunc func(tokenString string) (*model.User, error)
}

func (f *fakeAuthService) Login(ctx context.Context, username, password string) (*model.AuthResponse, error) {
	if f.loginFunc != nil {
		return f.loginFunc(ctx, username, password)
	}
	return nil, nil
}

func (f *fakeAuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	if f.registerFunc != nil {
		return f.registerFunc(ctx, req)
	}
	return nil, nil
}

func (f *fakeAuthService) ValidateToken(tokenString string) (*model.User, error) {
	if f.validateFunc != nil {
		return f.validateFunc(tokenString)
	}
	return nil, nil
}

type fakeProfileService struct {
	selfFunc     func(ctx context.Context, userID string) (*model.ProfileResponse, error)
	customerFunc func(ctx context.Context, requesterID, targetID string) (*model.ProfileResponse, error)
}

func (f *fakeProfileService) GetSelfProfile(ctx context.Context, userID string) (*model.ProfileResponse, error) {
	if f.selfFunc != nil {
		return f.selfFunc(ctx, userID)
	}
	return nil, nil
}

func (f *fakeProfileService) GetCustomerProfile(ctx context.Context, requesterID, targetID string) (*model.ProfileResponse, error) {
	if f.customerFunc != nil {
		return f.customerFunc(ctx, requesterID, targetID)
	}
	return nil, nil
}

// setUser injects an authenticated user the way the auth middleware does.
func setUser(user *model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user", user)
		c.Next()
	}
}

func newUserRouter(h *UserHandler, user *model.User) *gin.Engine {
	r := gin.New()
	r.POST("/user/login", h.Login)
	r.POST("/user/register", h.Register)

	authed := r.Group("/user")
	if user != nil {
		authed.Use(setUser(user))
	}
	authed.GET("/me", h.Me)
	authed.POST("/orders", h.CustomerOrders)
	return r
}

func TestLogin_Success(t *testing.T) {
	auth := &fakeAuthService{
		loginFunc: func(ctx context.Context, username, password string) (*model.AuthResponse, error) {
			return &model.AuthResponse{
				Token: "tok-123",
				User:  model.PublicProfile{ID: "u1", Name: "Ada Lovelace", Username: username, Role: model.RoleCustomer},
			}, nil
		},
	}
	h := NewUserHandler(auth, &fakeProfileService{})
	r := newUserRouter(h, nil)

	req := httptest.NewRequest(http.MethodPost, "/user/login", strings.NewReader(`{"username":"ada","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp model.AuthResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "tok-123", resp.Token)
	assert.Equal(t, "ada", resp.User.Username)
}

func TestLogin_WrongCredentialsReturns200Payload(t *testing.T) {
	auth := &fakeAuthService{
		loginFunc: func(ctx context.Context, username, password string) (*model.AuthResponse, error) {
			return nil, service.ErrInvalidCredentials
		},
	}
	h := NewUserHandler(auth, &fakeProfileService{})
	r := newUserRouter(h, nil)

	req := httptest.NewRequest(http.MethodPost, "/user/login", strings.NewReader(`{"username":"ada","password":"bad"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	// Domain errors deliberately ride on a 200 response.
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Wrong Credentials", resp["errorMessage"])
}

func TestLogin_MissingFields(t *testing.T) {
	h := NewUserHandler(&fakeAuthService{}, &fakeProfileService{})
	r := newUserRouter(h, nil)

	req := httptest.NewRequest(http.MethodPost, "/user/login", strings.NewReader(`{"username":"ada"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegister_Success(t *testing.T) {
	auth := &fakeAuthService{
		registerFunc: func(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
			return &model.AuthResponse{
				Token: "tok-456",
				User:  model.PublicProfile{ID: "u2", Name: req.FirstName + " " + req.LastName, Username: req.Username, Role: model.RoleCustomer},
			}, nil
		},
	}
	h := NewUserHandler(auth, &fakeProfileService{})
	r := newUserRouter(h, nil)

	body := `{"firstname":"Ada","lastname":"Lovelace","username":"ada","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/user/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp model.AuthResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "tok-456", resp.Token)
	assert.Equal(t, "Ada Lovelace", resp.User.Name)
}

func TestRegister_DuplicateReturns200Payload(t *testing.T) {
	auth := &fakeAuthService{
		registerFunc: func(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
			return nil, service.ErrAccountExists
		},
	}
	h := NewUserHandler(auth, &fakeProfileService{})
	r := newUserRouter(h, nil)

	body := `{"firstname":"Ada","lastname":"Lovelace","username":"ada","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/user/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Account already exists", resp["errorMessage"])
}

func TestMe_Success(t *testing.T) {
	profiles := &fakeProfileService{
		selfFunc: func(ctx context.Context, userID string) (*model.ProfileResponse, error) {
			return &model.ProfileResponse{
				Orders: model.OrderBuckets{
					Cancelled: []model.OrderDetail{},
					Fulfilled: []model.OrderDetail{},
					InCart:    []model.OrderDetail{},
				},
				User: model.PublicProfile{ID: userID, Username: "ada"},
			}, nil
		},
	}
	h := NewUserHandler(&fakeAuthService{}, profiles)
	r := newUserRouter(h, &model.User{ID: "u1", Username: "ada", Role: model.RoleCustomer})

	req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Contains(t, resp, "orders")
	assert.Contains(t, resp, "user")

	var orders map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(resp["orders"], &orders))
	assert.Contains(t, orders, "cancelled")
	assert.Contains(t, orders, "fulfilled")
	assert.Contains(t, orders, "incart")
}

func TestMe_NoUserInContext(t *testing.T) {
	h := NewUserHandler(&fakeAuthService{}, &fakeProfileService{})
	r := newUserRouter(h, nil)

	req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCustomerOrders_NonAdminGetsPlainUnauthorized(t *testing.T) {
	profiles := &fakeProfileService{
		customerFunc: func(ctx context.Context, requesterID, targetID string) (*model.ProfileResponse, error) {
			return nil, service.ErrUnauthorized
		},
	}
	h := NewUserHandler(&fakeAuthService{}, profiles)
	r := newUserRouter(h, &model.User{ID: "u1", Role: model.RoleCustomer})

	req := httptest.NewRequest(http.MethodPost, "/user/orders", strings.NewReader(`{"id":"u2"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	// The client renders this literal body, so it stays a 200 text response.
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Unauthorized", rr.Body.String())
}

func TestCustomerOrders_AdminSuccess(t *testing.T) {
	profiles := &fakeProfileService{
		customerFunc: func(ctx context.Context, requesterID, targetID string) (*model.ProfileResponse, error) {
			assert.Equal(t, "admin-1", requesterID)
			assert.Equal(t, "u2", targetID)
			return &model.ProfileResponse{
				User: model.PublicProfile{ID: targetID, Username: "ada"},
			}, nil
		},
	}
	h := NewUserHandler(&fakeAuthService{}, profiles)
	r := newUserRouter(h, &model.User{ID: "admin-1", Role: model.RoleAdmin})

	req := httptest.NewRequest(http.MethodPost, "/user/orders", strings.NewReader(`{"id":"u2"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp model.ProfileResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "u2", resp.User.ID)
}

func TestCustomerOrders_TargetNotFound(t *testing.T) {
	profiles := &fakeProfileService{
		customerFunc: func(ctx context.Context, requesterID, targetID string) (*model.ProfileResponse, error) {
			return nil, service.ErrUserNotFound
		},
	}
	h := NewUserHandler(&fakeAuthService{}, profiles)
	r := newUserRouter(h, &model.User{ID: "admin-1", Role: model.RoleAdmin})

	req := httptest.NewRequest(http.MethodPost, "/user/orders", strings.NewReader(`{"id":"ghost"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCustomerOrders_StoreFailure(t *testing.T) {
	profiles := &fakeProfileService{
		customerFunc: func(ctx context.Context, requesterID, targetID string) (*model.ProfileResponse, error) {
			return nil, errors.New("db down")
		},
	}
	h := NewUserHandler(&fakeAuthService{}, profiles)
	r := newUserRouter(h, &model.User{ID: "admin-1", Role: model.RoleAdmin})

	req := httptest.NewRequest(http.MethodPost, "/user/orders", strings.NewReader(`{"id":"u2"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
}
