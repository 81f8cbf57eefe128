package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/carbonreg/internal/geocode"
	"github.com/hitoshi/carbonreg/internal/model"
)

// GeocodeServiceInterface はジオコーディングハンドラーが必要とするサービスインターフェース。
type GeocodeServiceInterface interface {
	// ResolveBatch は複数住所を解決し、成功した座標のみを返す。
	ResolveBatch(ctx context.Context, addresses []string) ([]geocode.Position, error)
}

// GeocodeHandler は住所解決のHTTPハンドラー。
type GeocodeHandler struct {
	service GeocodeServiceInterface
}

// NewGeocodeHandler はGeocodeHandlerを生成する。
func NewGeocodeHandler(service GeocodeServiceInterface) *GeocodeHandler {
	return &GeocodeHandler{service: service}
}

// geocodeRequest はジオコーディングリクエストのボディ。
// 単一住所（address）と複数住所（addresses）の両形式を受け付ける。
type geocodeRequest struct {
	Address   string   `json:"address"`
	Addresses []string `json:"addresses"`
}

// Geocode は住所を座標に解決する。
// 解決に失敗した住所は結果から黙って除外される。
// POST /api/geocode
func (h *GeocodeHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	var req geocodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	addresses := req.Addresses
	if len(addresses) == 0 && req.Address != "" {
		addresses = []string{req.Address}
	}
	if len(addresses) == 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("addressまたはaddressesを指定してください"))
		return
	}

	positions, err := h.service.ResolveBatch(r.Context(), addresses)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"positions": positions})
}
