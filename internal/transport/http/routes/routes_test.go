package routes_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/telvana/fleet-console/internal/core/domain"
	"github.com/telvana/fleet-console/internal/core/port"
	"github.com/telvana/fleet-console/internal/infra/config"
	"github.com/telvana/fleet-console/internal/repository"
	"github.com/telvana/fleet-console/internal/transport/http/handlers"
	"github.com/telvana/fleet-console/internal/transport/http/middleware"
	httproutes "github.com/telvana/fleet-console/internal/transport/http/routes"
)

const testSecret = "routes-test-secret"

type staticSessionStore struct {
	tokens map[string]string
}

func (s *staticSessionStore) Token(ctx context.Context, sessionID string) (string, error) {
	token, ok := s.tokens[sessionID]
	if !ok {
		return "", repository.ErrNotFound
	}
	return token, nil
}

type staticFleetAPI struct {
	users []domain.User
}

func (a *staticFleetAPI) ListUsers(ctx context.Context, q port.ListQuery) ([]domain.User, error) {
	return a.users, nil
}

func (a *staticFleetAPI) ListPhones(ctx context.Context, q port.ListQuery) ([]domain.Phone, error) {
	return nil, nil
}

func (a *staticFleetAPI) ListSimCards(ctx context.Context, q port.ListQuery) ([]domain.SimCard, error) {
	return nil, nil
}

func (a *staticFleetAPI) ListAttributions(ctx context.Context, q port.ListQuery) ([]domain.Attribution, error) {
	return nil, nil
}

func (a *staticFleetAPI) FetchAllUsers(ctx context.Context) ([]domain.User, error) {
	return a.users, nil
}

func (a *staticFleetAPI) FetchAllPhones(ctx context.Context) ([]domain.Phone, error) {
	return nil, nil
}

func (a *staticFleetAPI) FetchAllSimCards(ctx context.Context) ([]domain.SimCard, error) {
	return nil, nil
}

func (a *staticFleetAPI) FetchAllAttributions(ctx context.Context) ([]domain.Attribution, error) {
	return nil, nil
}

func (a *staticFleetAPI) CreateAttribution(ctx context.Context, attribution domain.Attribution) (*domain.Attribution, error) {
	stored := attribution
	stored.ID = "attr-1"
	return &stored, nil
}

func (a *staticFleetAPI) UpdateAttribution(ctx context.Context, attribution domain.Attribution) (*domain.Attribution, error) {
	stored := attribution
	return &stored, nil
}

func (a *staticFleetAPI) ReturnAttribution(ctx context.Context, id string) (*domain.Attribution, error) {
	return &domain.Attribution{ID: id, Status: domain.AttributionStatusReturned}, nil
}

func (a *staticFleetAPI) DeleteAttribution(ctx context.Context, id string) error { return nil }

func (a *staticFleetAPI) AssignSim(ctx context.Context, simID, userID string) error { return nil }

func (a *staticFleetAPI) UnassignSim(ctx context.Context, simID string) error { return nil }

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		App:  config.AppSettings{Env: "test"},
		Auth: config.AuthSettings{JWTSecret: testSecret},
	}
}

func testRouter(api port.FleetAPI, sessions port.SessionStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	return httproutes.Register(httproutes.Dependencies{
		Config:   testConfig(),
		Logger:   logger,
		Sessions: sessions,
		Services: handlers.ServiceSet{
			Factory: func(token string) port.FleetAPI { return api },
			Logger:  logger,
		},
	})
}

func sessionTokenFor(t *testing.T, role domain.Role) string {
	t.Helper()

	claims := middleware.SessionClaims{
		SessionID: "sess-1",
		Role:      string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestHealthEndpoint(t *testing.T) {
	r := testRouter(&staticFleetAPI{}, &staticSessionStore{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestReadinessWithoutCheckers(t *testing.T) {
	r := testRouter(&staticFleetAPI{}, &staticSessionStore{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/readyz", nil)

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := testRouter(&staticFleetAPI{}, &staticSessionStore{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestAPIRequiresSession(t *testing.T) {
	r := testRouter(&staticFleetAPI{}, &staticSessionStore{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users", nil)

	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestListUsersWithSession(t *testing.T) {
	api := &staticFleetAPI{users: []domain.User{{ID: "u-1", Name: "Jean Dupont"}}}
	sessions := &staticSessionStore{tokens: map[string]string{"sess-1": "upstream-token"}}
	r := testRouter(api, sessions)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+sessionTokenFor(t, domain.RoleUser))

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var users []json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &users); err != nil {
		t.Fatalf("response is not a user list: %v: %s", err, w.Body.String())
	}
	if len(users) != 1 {
		t.Fatalf("users = %d, want 1", len(users))
	}
}

func TestSubmitAttributionRequiresElevatedRole(t *testing.T) {
	api := &staticFleetAPI{}
	sessions := &staticSessionStore{tokens: map[string]string{"sess-1": "upstream-token"}}
	r := testRouter(api, sessions)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/attributions", nil)
	req.Header.Set("Authorization", "Bearer "+sessionTokenFor(t, domain.RoleUser))

	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}

func TestDeleteAttributionRequiresAdmin(t *testing.T) {
	api := &staticFleetAPI{}
	sessions := &staticSessionStore{tokens: map[string]string{"sess-1": "upstream-token"}}
	r := testRouter(api, sessions)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/api/v1/attributions/attr-1", nil)
	req.Header.Set("Authorization", "Bearer "+sessionTokenFor(t, domain.RoleAssigner))

	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}
