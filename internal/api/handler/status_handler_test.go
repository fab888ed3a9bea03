package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shadownet/contract-desk/internal/core/domain"
)

func TestStatusHandler_AllDependenciesUp(t *testing.T) {
	e := newTestEcho()
	svc := &stubContractService{
		statsFn: func(_ context.Context) (*domain.ContractStats, error) {
			return &domain.ContractStats{Total: 4, Pending: 1, Active: 2, Completed: 1}, nil
		},
	}
	up := func(_ context.Context) error { return nil }
	h := NewStatusHandler(svc, up, up, time.Now().Add(-time.Minute))

	req, rec := jsonRequest(http.MethodGet, "/api/status", "")
	c := e.NewContext(req, rec)

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Server struct {
			Status   string `json:"status"`
			UptimeMs int64  `json:"uptimeMs"`
		} `json:"server"`
		Database struct {
			Status string `json:"status"`
		} `json:"database"`
		Redis struct {
			Status string `json:"status"`
		} `json:"redis"`
		Contracts *domain.ContractStats `json:"contracts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Server.Status != "ONLINE" {
		t.Fatalf("server status = %q", resp.Server.Status)
	}
	if resp.Server.UptimeMs <= 0 {
		t.Fatalf("uptime should be positive, got %d", resp.Server.UptimeMs)
	}
	if resp.Database.Status != "ONLINE" || resp.Redis.Status != "ONLINE" {
		t.Fatalf("dependencies should be ONLINE: %+v", resp)
	}
	if resp.Contracts == nil || resp.Contracts.Total != 4 {
		t.Fatalf("unexpected contract stats: %+v", resp.Contracts)
	}
}

func TestStatusHandler_ReportsDependencyFailure(t *testing.T) {
	e := newTestEcho()
	svc := &stubContractService{
		statsFn: func(_ context.Context) (*domain.ContractStats, error) {
			return nil, errors.New("database gone")
		},
	}
	up := func(_ context.Context) error { return nil }
	down := func(_ context.Context) error { return errors.New("connection refused") }
	h := NewStatusHandler(svc, down, up, time.Now())

	req, rec := jsonRequest(http.MethodGet, "/api/status", "")
	c := e.NewContext(req, rec)

	if err := h.Get(c); err != nil {
		t.Fatalf("status must answer even with dead dependencies: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Database struct {
			Status string `json:"status"`
		} `json:"database"`
		Redis struct {
			Status string `json:"status"`
		} `json:"redis"`
		Contracts *domain.ContractStats `json:"contracts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Database.Status != "ERROR" {
		t.Fatalf("database status = %q", resp.Database.Status)
	}
	if resp.Redis.Status != "ONLINE" {
		t.Fatalf("redis status = %q", resp.Redis.Status)
	}
	if resp.Contracts != nil {
		t.Fatalf("stats should be omitted when counting fails, got %+v", resp.Contracts)
	}
}
