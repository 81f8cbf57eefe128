package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/carbonreg/internal/model"
)

// --- モック定義 ---

type mockEligibilityService struct {
	evaluateFn func(ctx context.Context, projectID string) (*model.EligibilityResult, error)
}

func (m *mockEligibilityService) EvaluateProject(ctx context.Context, projectID string) (*model.EligibilityResult, error) {
	if m.evaluateFn != nil {
		return m.evaluateFn(ctx, projectID)
	}
	return nil, nil
}

// --- テスト ---

func TestEligibilityHandler_Evaluate_Success(t *testing.T) {
	evaluatedAt := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc := &mockEligibilityService{
		evaluateFn: func(ctx context.Context, projectID string) (*model.EligibilityResult, error) {
			if projectID != "proj-1" {
				t.Errorf("projectID = %q, want %q", projectID, "proj-1")
			}
			return &model.EligibilityResult{
				ID:          "result-1",
				ProjectID:   "proj-1",
				Status:      model.EligibilityYes,
				Reason:      "Eligible",
				EvaluatedAt: evaluatedAt,
			}, nil
		},
	}
	h := NewEligibilityHandler(svc, nil)

	body := `{"projectId": "proj-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/eligibility/evaluate", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.Evaluate(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var result evaluateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Status != "yes" {
		t.Errorf("status = %q, want %q", result.Status, "yes")
	}
	if result.EvaluatedAt != evaluatedAt.UnixMilli() {
		t.Errorf("evaluatedAt = %d, want %d", result.EvaluatedAt, evaluatedAt.UnixMilli())
	}
}

func TestEligibilityHandler_Evaluate_MissingProjectID_Returns400(t *testing.T) {
	h := NewEligibilityHandler(&mockEligibilityService{
		evaluateFn: func(ctx context.Context, projectID string) (*model.EligibilityResult, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/eligibility/evaluate", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()

	h.Evaluate(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestEligibilityHandler_Evaluate_ProjectNotFound_Returns404(t *testing.T) {
	h := NewEligibilityHandler(&mockEligibilityService{
		evaluateFn: func(ctx context.Context, projectID string) (*model.EligibilityResult, error) {
			return nil, model.NewProjectNotFoundError(projectID)
		},
	}, nil)

	body := `{"projectId": "missing"}`
	req := httptest.NewRequest(http.MethodPost, "/api/eligibility/evaluate", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.Evaluate(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNotFound)
	}

	result := parseAPIErrorResponse(t, w)
	if result["code"] != model.ErrCodeProjectNotFound {
		t.Errorf("code = %q, want %q", result["code"], model.ErrCodeProjectNotFound)
	}
}
