package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/99minutos/task-manager/internal/api/handler"
	"github.com/99minutos/task-manager/internal/core/domain"
	"github.com/99minutos/task-manager/internal/core/ports"
	"github.com/99minutos/task-manager/internal/core/service"
)

type fakeAuth struct{}

func (fakeAuth) Login(_ context.Context, email, password string) (*domain.AuthResult, error) {
	switch {
	case email == "locked@example.com":
		return nil, domain.ErrTooManyAttempts
	case password != "secret":
		return nil, domain.ErrInvalidCredentials
	}
	return &domain.AuthResult{AccessToken: "t", User: domain.Profile{ID: "u1", Email: email, Role: domain.RoleClient}}, nil
}

func (fakeAuth) Signup(_ context.Context, in ports.SignupInput) (*domain.AuthResult, error) {
	if in.InviteToken != "good" {
		return nil, domain.ErrInvalidInvitation
	}
	return &domain.AuthResult{AccessToken: "t", User: domain.Profile{ID: "u2", Email: in.Email, Role: domain.RoleClient}}, nil
}

type fakeInvitations struct{}

func (fakeInvitations) Create(_ context.Context, email, invitedByID string) (*domain.Invitation, error) {
	return &domain.Invitation{ID: "inv", Email: email, Token: "tok", InvitedByID: invitedByID, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (fakeInvitations) List(_ context.Context, _ string) ([]*domain.Invitation, error) {
	return nil, nil
}

func (fakeInvitations) Resend(_ context.Context, _, _ string) (*domain.Invitation, error) {
	return nil, domain.ErrNotInvitationOwner
}

type fakeTasks struct{}

func (fakeTasks) Create(_ context.Context, in ports.CreateTaskInput, ownerID string) (*domain.Task, error) {
	return &domain.Task{ID: "t1", Title: in.Title, Status: domain.TaskPending, UserID: ownerID}, nil
}

func (fakeTasks) List(_ context.Context, _ ports.ListTasksInput, _ domain.Identity) (*ports.TaskPage, error) {
	return &ports.TaskPage{Data: []*domain.Task{}, Page: 1, Limit: 10}, nil
}

func (fakeTasks) Get(_ context.Context, id string, _ domain.Identity) (*domain.Task, error) {
	if id == "theirs" {
		return nil, domain.ErrForbidden
	}
	return nil, domain.ErrTaskNotFound
}

func (fakeTasks) Update(_ context.Context, _ string, _ domain.TaskPatch, _ domain.Identity) (*domain.Task, error) {
	return nil, domain.ErrTaskNotFound
}

func (fakeTasks) Delete(_ context.Context, _ string, _ domain.Identity) error {
	return nil
}

type routerFixture struct {
	e     *echo.Echo
	codec *service.TokenCodec
}

func newRouterFixture() *routerFixture {
	codec := service.NewTokenCodec("router-secret", time.Hour)
	e := NewRouter(Dependencies{
		Auth:        fakeAuth{},
		Invitations: fakeInvitations{},
		Tasks:       fakeTasks{},
		Tokens:      codec,
		Readiness: map[string]handler.DependencyCheck{
			"mongodb": func(context.Context) error { return nil },
		},
		Log:      zerolog.Nop(),
		Registry: prometheus.NewRegistry(),
	})
	return &routerFixture{e: e, codec: codec}
}

func (f *routerFixture) bearer(t *testing.T, role domain.Role) string {
	t.Helper()
	token, err := f.codec.Sign(domain.Identity{ID: "01HV000000000000000000XSR1", Email: "x@example.com", Role: role})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return "Bearer " + token
}

func (f *routerFixture) do(method, path, body, auth string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected error envelope, got %q", rec.Body.String())
	}
	return body.Error
}

func TestRouter_AuthRoutes(t *testing.T) {
	f := newRouterFixture()

	if rec := f.do(http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"secret"}`, ""); rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"wrong"}`, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPost, "/auth/login", `{"email":"locked@example.com","password":"secret"}`, ""); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("throttled login: expected 429, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPost, "/auth/signup", `{"email":"n@example.com","password":"pass123","inviteToken":"good"}`, ""); rec.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d", rec.Code)
	}

	rec := f.do(http.MethodPost, "/auth/signup", `{"email":"n@example.com","password":"pass123","inviteToken":"stale"}`, "")
	if rec.Code != http.StatusBadRequest || errorOf(t, rec) != domain.ErrInvalidInvitation.Error() {
		t.Fatalf("stale invitation: expected 400, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_RequiresAuthentication(t *testing.T) {
	f := newRouterFixture()

	for _, path := range []string{"/tasks", "/tasks/abc", "/invitations"} {
		rec := f.do(http.MethodGet, path, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, rec.Code)
		}
		if errorOf(t, rec) == "" {
			t.Fatalf("%s: expected error message", path)
		}
	}

	if rec := f.do(http.MethodGet, "/tasks", "", "Bearer forged"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("forged token: expected 401, got %d", rec.Code)
	}
}

func TestRouter_InvitationsAreAdminOnly(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(http.MethodPost, "/invitations", `{"email":"g@example.com"}`, f.bearer(t, domain.RoleClient))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("client: expected 403, got %d", rec.Code)
	}

	rec = f.do(http.MethodPost, "/invitations", `{"email":"g@example.com"}`, f.bearer(t, domain.RoleAdmin))
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin: expected 201, got %d", rec.Code)
	}

	rec = f.do(http.MethodPatch, "/invitations/inv/resend", "", f.bearer(t, domain.RoleAdmin))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("resend by non-issuer: expected 403, got %d", rec.Code)
	}
}

func TestRouter_TaskErrorsMapToStatus(t *testing.T) {
	f := newRouterFixture()
	client := f.bearer(t, domain.RoleClient)

	if rec := f.do(http.MethodGet, "/tasks/theirs", "", client); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/tasks/ghost", "", client); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPost, "/tasks", `{"title":"Write"}`, client); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPost, "/tasks", `{}`, client); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/tasks?status=archived", "", client); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if rec := f.do(http.MethodDelete, "/tasks/t1", "", client); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_Operations(t *testing.T) {
	f := newRouterFixture()

	if rec := f.do(http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", rec.Code)
	}

	f.do(http.MethodGet, "/health", "", "")
	rec := f.do(http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "taskmanager_requests_total") {
		t.Fatalf("metrics: expected request counter, got %d", rec.Code)
	}
}
