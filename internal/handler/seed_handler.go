package handler

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/carbonreg/internal/model"
	"github.com/hitoshi/carbonreg/internal/seed"
)

// seedKeyHeader はシードエンドポイントを保護する共有シークレットのヘッダー名。
const seedKeyHeader = "X-Seed-Key"

// SeedServiceInterface はシードハンドラーが必要とするサービスインターフェース。
type SeedServiceInterface interface {
	Run(ctx context.Context) (*seed.SeedResult, error)
}

// SeedHandler はデモデータ投入の内部HTTPハンドラー。
type SeedHandler struct {
	service SeedServiceInterface
	seedKey string // 空の場合はエンドポイント無効（フェイルクローズ）
}

// NewSeedHandler はSeedHandlerを生成する。
func NewSeedHandler(service SeedServiceInterface, seedKey string) *SeedHandler {
	return &SeedHandler{
		service: service,
		seedKey: seedKey,
	}
}

// Seed はデモデータを投入する。
// X-Seed-Keyヘッダーが設定済みの共有シークレットと一致する場合のみ実行する。
// シークレット未設定時は設定エラーを返す（フェイルクローズ）。
// POST /internal/seed
func (h *SeedHandler) Seed(w http.ResponseWriter, r *http.Request) {
	if h.seedKey == "" {
		slog.Error("seed endpoint rejected: seed key not configured")
		writeAPIErrorResponse(w, http.StatusInternalServerError, model.NewMisconfiguredError())
		return
	}

	presented := r.Header.Get(seedKeyHeader)
	if subtle.ConstantTimeCompare([]byte(presented), []byte(h.seedKey)) != 1 {
		slog.Warn("seed endpoint rejected: invalid seed key")
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewInvalidSeedKeyError())
		return
	}

	result, err := h.service.Run(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"seeded":  result,
	})
}
