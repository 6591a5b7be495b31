package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/task-manager/internal/api/middleware"
	"github.com/99minutos/task-manager/internal/core/domain"
	"github.com/99minutos/task-manager/internal/core/ports"
)

type stubAuthService struct {
	loginFn  func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	signupFn func(ctx context.Context, in ports.SignupInput) (*domain.AuthResult, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.AuthResult, error) {
	return s.signupFn(ctx, in)
}

type stubInvitationService struct {
	createFn func(ctx context.Context, email, invitedByID string) (*domain.Invitation, error)
	listFn   func(ctx context.Context, invitedByID string) ([]*domain.Invitation, error)
	resendFn func(ctx context.Context, id, requestedByID string) (*domain.Invitation, error)
}

func (s *stubInvitationService) Create(ctx context.Context, email, invitedByID string) (*domain.Invitation, error) {
	return s.createFn(ctx, email, invitedByID)
}

func (s *stubInvitationService) List(ctx context.Context, invitedByID string) ([]*domain.Invitation, error) {
	return s.listFn(ctx, invitedByID)
}

func (s *stubInvitationService) Resend(ctx context.Context, id, requestedByID string) (*domain.Invitation, error) {
	return s.resendFn(ctx, id, requestedByID)
}

type stubTaskService struct {
	createFn func(ctx context.Context, in ports.CreateTaskInput, ownerID string) (*domain.Task, error)
	listFn   func(ctx context.Context, in ports.ListTasksInput, requester domain.Identity) (*ports.TaskPage, error)
	getFn    func(ctx context.Context, id string, requester domain.Identity) (*domain.Task, error)
	updateFn func(ctx context.Context, id string, patch domain.TaskPatch, requester domain.Identity) (*domain.Task, error)
	deleteFn func(ctx context.Context, id string, requester domain.Identity) error
}

func (s *stubTaskService) Create(ctx context.Context, in ports.CreateTaskInput, ownerID string) (*domain.Task, error) {
	return s.createFn(ctx, in, ownerID)
}

func (s *stubTaskService) List(ctx context.Context, in ports.ListTasksInput, requester domain.Identity) (*ports.TaskPage, error) {
	return s.listFn(ctx, in, requester)
}

func (s *stubTaskService) Get(ctx context.Context, id string, requester domain.Identity) (*domain.Task, error) {
	return s.getFn(ctx, id, requester)
}

func (s *stubTaskService) Update(ctx context.Context, id string, patch domain.TaskPatch, requester domain.Identity) (*domain.Task, error) {
	return s.updateFn(ctx, id, patch, requester)
}

func (s *stubTaskService) Delete(ctx context.Context, id string, requester domain.Identity) error {
	return s.deleteFn(ctx, id, requester)
}

var (
	testAdmin  = domain.Identity{ID: "01HV000000000000000000ADMN", Email: "admin@example.com", Role: domain.RoleAdmin}
	testClient = domain.Identity{ID: "01HV000000000000000000CNT1", Email: "client@example.com", Role: domain.RoleClient}
)

// newContext builds an echo context with the validator installed and, when
// identity is non-nil, the caller identity already injected.
func newContext(method, target string, body io.Reader, identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		middleware.SetIdentity(c, *identity)
	}
	return c, rec
}

func assertHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError with %d, got %v", code, err)
	}
	if he.Code != code {
		t.Fatalf("expected status %d, got %d (%v)", code, he.Code, he.Message)
	}
}

func mustNotCall(t *testing.T) {
	t.Helper()
	t.Fatalf("service must not be called")
}

