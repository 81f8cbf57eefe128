// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/carbonreg/internal/middleware"
	"github.com/hitoshi/carbonreg/internal/model"
)

// SessionServiceInterface はセッションハンドラーが必要とするサービスインターフェース。
type SessionServiceInterface interface {
	// CreateSession はIDトークンを検証し、固定有効期限のセッションを発行する。
	CreateSession(ctx context.Context, idToken string) (*model.Session, error)
	// DestroySession はセッションを破棄する（冪等）。
	DestroySession(ctx context.Context, sessionID string) error
}

// SessionCounter はセッション発行数の計測インターフェース。メトリクス連携用。
type SessionCounter interface {
	RecordSessionCreated()
}

// SessionHandlerConfig はセッションハンドラーの設定。
type SessionHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// SessionHandler はセッションライフサイクルのHTTPハンドラー。
type SessionHandler struct {
	service SessionServiceInterface
	config  SessionHandlerConfig
	counter SessionCounter
}

// NewSessionHandler はSessionHandlerを生成する。counterはnil許容。
func NewSessionHandler(service SessionServiceInterface, config SessionHandlerConfig, counter SessionCounter) *SessionHandler {
	return &SessionHandler{
		service: service,
		config:  config,
		counter: counter,
	}
}

// createSessionRequest はセッション作成リクエストのボディ。
type createSessionRequest struct {
	IDToken string `json:"idToken"`
}

// CreateSession はIDトークンをセッションCookieに交換する。
// POST /api/session
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	if req.IDToken == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidTokenFormatError())
		return
	}

	session, err := h.service.CreateSession(r.Context(), req.IDToken)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// セッションCookieを設定（HTTP Only）
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	if h.counter != nil {
		h.counter.RecordSessionCreated()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// DestroySession はセッションを破棄し、Cookieを無条件にクリアする。
// セッションが存在しない場合も成功を返す（冪等）。
// DELETE /api/session
func (h *SessionHandler) DestroySession(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		if destroyErr := h.service.DestroySession(r.Context(), cookie.Value); destroyErr != nil {
			slog.Error("failed to destroy session", slog.String("error", destroyErr.Error()))
			// 破棄に失敗してもCookieはクリアする
		}
	}

	// セッションCookieをクリア
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
