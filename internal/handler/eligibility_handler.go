package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/carbonreg/internal/model"
)

// EligibilityServiceInterface は適格性評価ハンドラーが必要とするサービスインターフェース。
type EligibilityServiceInterface interface {
	// EvaluateProject は指定プロジェクトを評価し、結果を追記して返す。
	EvaluateProject(ctx context.Context, projectID string) (*model.EligibilityResult, error)
}

// EvaluationCounter は評価実行数の計測インターフェース。メトリクス連携用。
type EvaluationCounter interface {
	RecordEvaluation(status string)
}

// EligibilityHandler はプロジェクト適格性評価のHTTPハンドラー。
type EligibilityHandler struct {
	service EligibilityServiceInterface
	counter EvaluationCounter
}

// NewEligibilityHandler はEligibilityHandlerを生成する。counterはnil許容。
func NewEligibilityHandler(service EligibilityServiceInterface, counter EvaluationCounter) *EligibilityHandler {
	return &EligibilityHandler{
		service: service,
		counter: counter,
	}
}

// evaluateRequest は評価リクエストのボディ。
type evaluateRequest struct {
	ProjectID string `json:"projectId"`
}

// evaluateResponse は評価結果のAPIレスポンス。
type evaluateResponse struct {
	ProjectID   string `json:"projectId"`
	Status      string `json:"status"`
	Reason      string `json:"reason"`
	EvaluatedAt int64  `json:"evaluatedAt"`
}

// Evaluate はプロジェクトの適格性を評価し、結果を記録して返す。
// POST /api/eligibility/evaluate
func (h *EligibilityHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	if req.ProjectID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("projectIdを指定してください"))
		return
	}

	result, err := h.service.EvaluateProject(r.Context(), req.ProjectID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.counter != nil {
		h.counter.RecordEvaluation(string(result.Status))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(evaluateResponse{
		ProjectID:   result.ProjectID,
		Status:      string(result.Status),
		Reason:      result.Reason,
		EvaluatedAt: result.EvaluatedAt.UnixMilli(),
	})
}
