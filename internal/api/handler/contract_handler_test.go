package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/shadownet/contract-desk/internal/core/domain"
	"github.com/shadownet/contract-desk/internal/core/ports"
)

type stubContractService struct {
	createFn       func(ctx context.Context, input ports.CreateContractInput) (*domain.Contract, error)
	getFn          func(ctx context.Context, id string, requester ports.Requester) (*domain.Contract, error)
	listFn         func(ctx context.Context) ([]domain.Contract, error)
	listByOwnerFn  func(ctx context.Context, userID string) ([]domain.Contract, error)
	updateStatusFn func(ctx context.Context, id string, status domain.ContractStatus) (*domain.Contract, error)
	deleteFn       func(ctx context.Context, id string) error
	statsFn        func(ctx context.Context) (*domain.ContractStats, error)
}

func (s *stubContractService) Create(ctx context.Context, input ports.CreateContractInput) (*domain.Contract, error) {
	return s.createFn(ctx, input)
}

func (s *stubContractService) Get(ctx context.Context, id string, requester ports.Requester) (*domain.Contract, error) {
	return s.getFn(ctx, id, requester)
}

func (s *stubContractService) List(ctx context.Context) ([]domain.Contract, error) {
	return s.listFn(ctx)
}

func (s *stubContractService) ListByOwner(ctx context.Context, userID string) ([]domain.Contract, error) {
	return s.listByOwnerFn(ctx, userID)
}

func (s *stubContractService) UpdateStatus(ctx context.Context, id string, status domain.ContractStatus) (*domain.Contract, error) {
	return s.updateStatusFn(ctx, id, status)
}

func (s *stubContractService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubContractService) Stats(ctx context.Context) (*domain.ContractStats, error) {
	return s.statsFn(ctx)
}

// authenticate attaches a live session for user to the request context.
func authenticate(t *testing.T, c echo.Context, user *domain.User, isAdmin bool) {
	t.Helper()
	sessions, _ := newTestSessions(user)
	if err := sessions.Issue(c, user, isAdmin); err != nil {
		t.Fatalf("issue session: %v", err)
	}
}

func TestContractHandler_Create_Anonymous(t *testing.T) {
	e := newTestEcho()
	svc := &stubContractService{
		createFn: func(_ context.Context, input ports.CreateContractInput) (*domain.Contract, error) {
			if input.UserID != nil {
				t.Fatalf("anonymous submission must have no owner")
			}
			return &domain.Contract{
				ID:      "contract-1",
				Target:  input.Target,
				Type:    input.Type,
				Details: input.Details,
				Bounty:  domain.DefaultBounty,
				Status:  domain.StatusPending,
			}, nil
		},
	}
	h := NewContractHandler(svc)

	req, rec := jsonRequest(http.MethodPost, "/api/contracts",
		`{"target":"mainframe","type":"data_extraction","details":"exfiltrate reports"}`)
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["userId"] != nil {
		t.Fatalf("expected null userId, got %v", resp["userId"])
	}
	if resp["status"] != string(domain.StatusPending) {
		t.Fatalf("expected pending status, got %v", resp["status"])
	}
}

func TestContractHandler_Create_AttachesAuthenticatedOwner(t *testing.T) {
	e := newTestEcho()
	user := &domain.User{ID: "user-1", Username: "alice", Role: domain.RoleClient}
	svc := &stubContractService{
		createFn: func(_ context.Context, input ports.CreateContractInput) (*domain.Contract, error) {
			if input.UserID == nil || *input.UserID != user.ID {
				t.Fatalf("expected owner %s, got %v", user.ID, input.UserID)
			}
			return &domain.Contract{ID: "contract-1", UserID: input.UserID}, nil
		},
	}
	h := NewContractHandler(svc)

	req, rec := jsonRequest(http.MethodPost, "/api/contracts",
		`{"target":"mainframe","type":"network_breach","details":"details"}`)
	c := e.NewContext(req, rec)
	authenticate(t, c, user, false)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestContractHandler_Create_RejectsUnknownType(t *testing.T) {
	e := newTestEcho()
	svc := &stubContractService{
		createFn: func(_ context.Context, _ ports.CreateContractInput) (*domain.Contract, error) {
			t.Fatalf("service must not be reached")
			return nil, nil
		},
	}
	h := NewContractHandler(svc)

	req, rec := jsonRequest(http.MethodPost, "/api/contracts",
		`{"target":"mainframe","type":"ddos","details":"details"}`)
	c := e.NewContext(req, rec)

	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestContractHandler_Get_PassesRequesterIdentity(t *testing.T) {
	e := newTestEcho()
	user := &domain.User{ID: "user-1", Username: "alice", Role: domain.RoleClient}
	svc := &stubContractService{
		getFn: func(_ context.Context, id string, requester ports.Requester) (*domain.Contract, error) {
			if id != "contract-1" {
				t.Fatalf("unexpected id %s", id)
			}
			if requester.UserID != user.ID || requester.IsAdmin {
				t.Fatalf("unexpected requester: %+v", requester)
			}
			return nil, domain.ErrForbidden
		},
	}
	h := NewContractHandler(svc)

	req, rec := jsonRequest(http.MethodGet, "/api/contracts/contract-1", "")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("contract-1")
	authenticate(t, c, user, false)

	if err := h.Get(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestContractHandler_UpdateStatus(t *testing.T) {
	e := newTestEcho()
	svc := &stubContractService{
		updateStatusFn: func(_ context.Context, id string, status domain.ContractStatus) (*domain.Contract, error) {
			if status != domain.StatusCompleted {
				t.Fatalf("unexpected status %s", status)
			}
			return &domain.Contract{ID: id, Status: status}, nil
		},
	}
	h := NewContractHandler(svc)

	req, rec := jsonRequest(http.MethodPatch, "/api/contracts/contract-1/status",
		`{"status":"completed"}`)
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("contract-1")

	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestContractHandler_UpdateStatus_RejectsUnknownStatus(t *testing.T) {
	e := newTestEcho()
	svc := &stubContractService{
		updateStatusFn: func(_ context.Context, _ string, _ domain.ContractStatus) (*domain.Contract, error) {
			t.Fatalf("service must not be reached")
			return nil, nil
		},
	}
	h := NewContractHandler(svc)

	req, rec := jsonRequest(http.MethodPatch, "/api/contracts/contract-1/status",
		`{"status":"archived"}`)
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("contract-1")

	err := h.UpdateStatus(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestContractHandler_Delete(t *testing.T) {
	e := newTestEcho()
	svc := &stubContractService{
		deleteFn: func(_ context.Context, id string) error {
			if id != "contract-1" {
				t.Fatalf("unexpected id %s", id)
			}
			return nil
		},
	}
	h := NewContractHandler(svc)

	req, rec := jsonRequest(http.MethodDelete, "/api/contracts/contract-1", "")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("contract-1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestContractHandler_Delete_Missing(t *testing.T) {
	e := newTestEcho()
	svc := &stubContractService{
		deleteFn: func(_ context.Context, _ string) error {
			return domain.ErrContractNotFound
		},
	}
	h := NewContractHandler(svc)

	req, rec := jsonRequest(http.MethodDelete, "/api/contracts/missing", "")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.Delete(c); !errors.Is(err, domain.ErrContractNotFound) {
		t.Fatalf("expected ErrContractNotFound, got %v", err)
	}
}

func TestContractHandler_ListMine(t *testing.T) {
	e := newTestEcho()
	user := &domain.User{ID: "user-1", Username: "alice", Role: domain.RoleClient}
	svc := &stubContractService{
		listByOwnerFn: func(_ context.Context, userID string) ([]domain.Contract, error) {
			if userID != user.ID {
				t.Fatalf("expected owner %s, got %s", user.ID, userID)
			}
			return []domain.Contract{{ID: "contract-1"}}, nil
		},
	}
	h := NewContractHandler(svc)

	req, rec := jsonRequest(http.MethodGet, "/api/client/contracts", "")
	c := e.NewContext(req, rec)
	authenticate(t, c, user, false)

	if err := h.ListMine(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var contracts []domain.Contract
	if err := json.Unmarshal(rec.Body.Bytes(), &contracts); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(contracts) != 1 || contracts[0].ID != "contract-1" {
		t.Fatalf("unexpected contracts: %+v", contracts)
	}
}
