package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/carbonreg/internal/model"
	"github.com/hitoshi/carbonreg/internal/seed"
)

// --- モック定義 ---

type mockSeedService struct {
	runFn  func(ctx context.Context) (*seed.SeedResult, error)
	called int
}

func (m *mockSeedService) Run(ctx context.Context) (*seed.SeedResult, error) {
	m.called++
	if m.runFn != nil {
		return m.runFn(ctx)
	}
	return &seed.SeedResult{Actions: 3, Projects: 3}, nil
}

// --- テスト ---

func TestSeedHandler_ValidKey_Seeds(t *testing.T) {
	svc := &mockSeedService{}
	h := NewSeedHandler(svc, "secret-seed-key")

	req := httptest.NewRequest(http.MethodPost, "/api/internal/seed", nil)
	req.Header.Set("X-Seed-Key", "secret-seed-key")
	w := httptest.NewRecorder()

	h.Seed(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if svc.called != 1 {
		t.Errorf("service called %d times, want 1", svc.called)
	}
}

func TestSeedHandler_InvalidKey_Returns401(t *testing.T) {
	svc := &mockSeedService{}
	h := NewSeedHandler(svc, "secret-seed-key")

	req := httptest.NewRequest(http.MethodPost, "/api/internal/seed", nil)
	req.Header.Set("X-Seed-Key", "wrong-key")
	w := httptest.NewRecorder()

	h.Seed(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
	if svc.called != 0 {
		t.Errorf("service called %d times, want 0", svc.called)
	}

	result := parseAPIErrorResponse(t, w)
	if result["code"] != model.ErrCodeInvalidSeedKey {
		t.Errorf("code = %q, want %q", result["code"], model.ErrCodeInvalidSeedKey)
	}
}

func TestSeedHandler_MissingKeyHeader_Returns401(t *testing.T) {
	svc := &mockSeedService{}
	h := NewSeedHandler(svc, "secret-seed-key")

	req := httptest.NewRequest(http.MethodPost, "/api/internal/seed", nil)
	w := httptest.NewRecorder()

	h.Seed(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

// シークレット未設定時はフェイルクローズで500を返すことを検証
func TestSeedHandler_KeyNotConfigured_Returns500(t *testing.T) {
	svc := &mockSeedService{}
	h := NewSeedHandler(svc, "")

	req := httptest.NewRequest(http.MethodPost, "/api/internal/seed", nil)
	req.Header.Set("X-Seed-Key", "")
	w := httptest.NewRecorder()

	h.Seed(w, req)

	if w.Result().StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusInternalServerError)
	}
	if svc.called != 0 {
		t.Errorf("service called %d times, want 0", svc.called)
	}

	result := parseAPIErrorResponse(t, w)
	if result["code"] != model.ErrCodeMisconfigured {
		t.Errorf("code = %q, want %q", result["code"], model.ErrCodeMisconfigured)
	}
}
