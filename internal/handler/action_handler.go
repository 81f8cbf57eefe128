package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/carbonreg/internal/middleware"
	"github.com/hitoshi/carbonreg/internal/model"
)

// idempotencyKeyHeader はタイムアウト後の再送信を識別するためのヘッダー名。
const idempotencyKeyHeader = "Idempotency-Key"

// ActionServiceInterface はアクションハンドラーが必要とするサービスインターフェース。
type ActionServiceInterface interface {
	List(ctx context.Context, callerID string) ([]*model.ActionRecord, error)
	Create(ctx context.Context, caller *model.Identity, raw map[string]any, idempotencyKey string) (*model.ActionRecord, error)
	Update(ctx context.Context, caller *model.Identity, actionID string, raw map[string]any) (*model.ActionRecord, error)
	Delete(ctx context.Context, caller *model.Identity, actionID string) error
}

// ActionCounter はアクション作成数の計測インターフェース。メトリクス連携用。
type ActionCounter interface {
	RecordActionCreated(actionType string)
}

// ActionHandler はアクション記録CRUDのHTTPハンドラー。
type ActionHandler struct {
	service ActionServiceInterface
	counter ActionCounter
}

// NewActionHandler はActionHandlerを生成する。counterはnil許容。
func NewActionHandler(service ActionServiceInterface, counter ActionCounter) *ActionHandler {
	return &ActionHandler{
		service: service,
		counter: counter,
	}
}

// actionResponse はアクション記録のAPIレスポンス。
// タイムスタンプはエポックからのミリ秒で表現する。
type actionResponse struct {
	ID         string   `json:"id"`
	OwnerID    string   `json:"ownerId"`
	OwnerEmail string   `json:"ownerEmail"`
	ActionType string   `json:"actionType"`
	Quantity   float64  `json:"quantity"`
	Unit       string   `json:"unit"`
	Address    string   `json:"address"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
	CreatedAt  int64    `json:"createdAt"`
	UpdatedAt  *int64   `json:"updatedAt"`
}

// actionTypeResponse はアクション種別定義のAPIレスポンス。
type actionTypeResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Unit  string `json:"unit"`
}

// ListActions は呼び出し元が所有する記録の一覧を返す。
// GET /api/actions
func (h *ActionHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	records, err := h.service.List(r.Context(), identity.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	actions := make([]actionResponse, 0, len(records))
	for _, record := range records {
		actions = append(actions, toActionResponse(record))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"actions": actions})
}

// CreateAction は新規記録を作成する。
// POST /api/actions
func (h *ActionHandler) CreateAction(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	raw, ok := decodeRawPayload(w, r)
	if !ok {
		return
	}

	record, err := h.service.Create(r.Context(), identity, raw, r.Header.Get(idempotencyKeyHeader))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.counter != nil {
		h.counter.RecordActionCreated(string(record.ActionType))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toActionResponse(record))
}

// UpdateAction は所有者による部分更新を処理し、更新後の記録を返す。
// PUT /api/actions/{id}
func (h *ActionHandler) UpdateAction(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	actionID := chi.URLParam(r, "id")

	raw, ok := decodeRawPayload(w, r)
	if !ok {
		return
	}

	record, err := h.service.Update(r.Context(), identity, actionID, raw)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toActionResponse(record))
}

// DeleteAction は所有者による記録の削除を処理する。
// DELETE /api/actions/{id}
func (h *ActionHandler) DeleteAction(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	actionID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), identity, actionID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// ListActionTypes は定義済みのアクション種別一覧を返す。
// フォームの選択肢の描画に使用する。認証不要。
// GET /api/action-types
func (h *ActionHandler) ListActionTypes(w http.ResponseWriter, r *http.Request) {
	types := make([]actionTypeResponse, 0, len(model.ActionTypes))
	for _, info := range model.ActionTypes {
		types = append(types, actionTypeResponse{
			Value: string(info.Value),
			Label: info.Label,
			Unit:  info.Unit,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"actionTypes": types})
}

// --- ヘルパー関数 ---

// decodeRawPayload はリクエストボディを生のマップとしてデコードする。
// フィールドのホワイトリスト検証はバリデーション層が行うため、
// ここでは構造を固定せずに受け取る。
func decodeRawPayload(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return nil, false
	}
	return raw, true
}

// toActionResponse はmodel.ActionRecordからAPIレスポンスに変換する。
// 内部用の冪等キーはレスポンスに含めない。
func toActionResponse(record *model.ActionRecord) actionResponse {
	resp := actionResponse{
		ID:         record.ID,
		OwnerID:    record.OwnerID,
		OwnerEmail: record.OwnerEmail,
		ActionType: string(record.ActionType),
		Quantity:   record.Quantity,
		Unit:       record.Unit,
		Address:    record.Address,
		Lat:        record.Lat,
		Lng:        record.Lng,
		CreatedAt:  record.CreatedAt.UnixMilli(),
	}
	if record.UpdatedAt != nil {
		millis := record.UpdatedAt.UnixMilli()
		resp.UpdatedAt = &millis
	}
	return resp
}
