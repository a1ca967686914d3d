package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/adhd-helper/internal/application"
	"github.com/oksasatya/adhd-helper/internal/domain/entity"
	"github.com/oksasatya/adhd-helper/internal/domain/repository"
	"github.com/oksasatya/adhd-helper/internal/interface/middleware"
	"github.com/oksasatya/adhd-helper/pkg/helpers"
	"github.com/oksasatya/adhd-helper/pkg/response"
	"github.com/oksasatya/adhd-helper/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

// memUsers is an in-memory user store keyed by id.
type memUsers struct {
	mu   sync.Mutex
	byID map[string]*entity.User
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]*entity.User{}} }

func (m *memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) FindByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) Insert(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) deactivate(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[id].IsActive = false
}

type testServer struct {
	engine *gin.Engine
	users  *memUsers
	jwt    *helpers.JWTManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	jwt, err := helpers.NewJWTManager("handler-secret", "HS256", time.Hour, 7*24*time.Hour)
	require.NoError(t, err)
	logger := helpers.NewDiscardLogger()
	users := newMemUsers()

	auth := NewAuthHandler(application.NewAuthService(users, helpers.NewPasswordHasher(bcrypt.MinCost), jwt, false, logger), logger)
	resolver := application.NewIdentityResolver(users, jwt, false, logger)
	todos := NewTodoHandler(application.NewTodoService(newMemTodos(), nil, logger), logger)

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	api := r.Group("/api/v1")
	a := api.Group("/auth")
	a.POST("/register", auth.Register)
	a.POST("/login", auth.Login)
	a.POST("/refresh", auth.Refresh)
	a.GET("/me", middleware.RequireUser(resolver), auth.Me)

	td := api.Group("/todos", middleware.RequireActiveUser(resolver))
	td.POST("/", todos.Create)
	td.GET("/", todos.List)
	td.PUT("/:id", todos.Update)
	td.DELETE("/:id", todos.Delete)
	td.GET("/stats/summary", todos.Stats)

	return &testServer{engine: r, users: users, jwt: jwt}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

// signup registers and logs in, returning the user id and token pair.
func (s *testServer) signup(t *testing.T, email string) (string, application.TokenPair) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": email, "password": "correct-horse", "name": "Min"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var u application.PublicUser
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": email, "password": "correct-horse"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var pair application.TokenPair
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	return u.ID, pair
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
