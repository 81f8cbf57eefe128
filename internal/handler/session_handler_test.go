package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/carbonreg/internal/middleware"
	"github.com/hitoshi/carbonreg/internal/model"
)

// --- モック定義 ---

// mockSessionService はSessionServiceInterfaceのモック実装。
type mockSessionService struct {
	createSessionFn  func(ctx context.Context, idToken string) (*model.Session, error)
	destroySessionFn func(ctx context.Context, sessionID string) error
}

func (m *mockSessionService) CreateSession(ctx context.Context, idToken string) (*model.Session, error) {
	if m.createSessionFn != nil {
		return m.createSessionFn(ctx, idToken)
	}
	return &model.Session{
		ID:        "new-session-id",
		UserID:    "user-123",
		Email:     "user@example.com",
		ExpiresAt: time.Now().Add(120 * time.Hour),
	}, nil
}

func (m *mockSessionService) DestroySession(ctx context.Context, sessionID string) error {
	if m.destroySessionFn != nil {
		return m.destroySessionFn(ctx, sessionID)
	}
	return nil
}

// --- テストヘルパー ---

// withIdentity はテスト用にリクエストコンテキストに認証済みの呼び出し元を注入するヘルパー。
func withIdentity(r *http.Request, userID, email string) *http.Request {
	ctx := middleware.ContextWithIdentity(r.Context(), &model.Identity{UserID: userID, Email: email})
	return r.WithContext(ctx)
}

// withChiURLParam はテスト用にchiのURLパラメータを注入するヘルパー。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// parseAPIErrorResponse はレスポンスボディからAPIErrorレスポンスをパースするヘルパー。
func parseAPIErrorResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return result
}

// findCookie はレスポンスから指定名のCookieを取得するヘルパー。
func findCookie(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

const testSessionMaxAge = 432000 // 5日

func newTestSessionHandler(svc SessionServiceInterface) *SessionHandler {
	return NewSessionHandler(svc, SessionHandlerConfig{
		CookieSecure:  true,
		SessionMaxAge: testSessionMaxAge,
	}, nil)
}

// --- POST /api/session テスト ---

func TestSessionHandler_CreateSession_SetsCookie(t *testing.T) {
	h := newTestSessionHandler(&mockSessionService{})

	body := `{"idToken": "valid-id-token"}`
	req := httptest.NewRequest(http.MethodPost, "/api/session", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.CreateSession(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	cookie := findCookie(t, resp, "session")
	if cookie == nil {
		t.Fatal("session cookie should be set")
	}
	if cookie.Value != "new-session-id" {
		t.Errorf("cookie value = %q, want %q", cookie.Value, "new-session-id")
	}
	if !cookie.HttpOnly {
		t.Error("cookie should be HttpOnly")
	}
	if !cookie.Secure {
		t.Error("cookie should be Secure")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("cookie SameSite = %v, want Lax", cookie.SameSite)
	}
	if cookie.MaxAge != testSessionMaxAge {
		t.Errorf("cookie MaxAge = %d, want %d", cookie.MaxAge, testSessionMaxAge)
	}
	if cookie.Path != "/" {
		t.Errorf("cookie Path = %q, want %q", cookie.Path, "/")
	}

	var result map[string]bool
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !result["success"] {
		t.Error("response should be {success: true}")
	}
}

func TestSessionHandler_CreateSession_MissingToken_Returns400(t *testing.T) {
	h := newTestSessionHandler(&mockSessionService{
		createSessionFn: func(ctx context.Context, idToken string) (*model.Session, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/session", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()

	h.CreateSession(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}

	result := parseAPIErrorResponse(t, w)
	if result["code"] != model.ErrCodeInvalidTokenFormat {
		t.Errorf("code = %q, want %q", result["code"], model.ErrCodeInvalidTokenFormat)
	}
}

func TestSessionHandler_CreateSession_InvalidJSON_Returns400(t *testing.T) {
	h := newTestSessionHandler(&mockSessionService{})

	req := httptest.NewRequest(http.MethodPost, "/api/session", bytes.NewBufferString(`not-json`))
	w := httptest.NewRecorder()

	h.CreateSession(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestSessionHandler_CreateSession_InvalidToken_Returns401(t *testing.T) {
	h := newTestSessionHandler(&mockSessionService{
		createSessionFn: func(ctx context.Context, idToken string) (*model.Session, error) {
			return nil, model.NewInvalidTokenError()
		},
	})

	body := `{"idToken": "rejected-token"}`
	req := httptest.NewRequest(http.MethodPost, "/api/session", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.CreateSession(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
	if cookie := findCookie(t, resp, "session"); cookie != nil {
		t.Error("no session cookie should be set on failure")
	}
}

// バックエンド資格情報未設定時は500と固定メッセージを返すことを検証
func TestSessionHandler_CreateSession_Misconfigured_Returns500(t *testing.T) {
	h := newTestSessionHandler(&mockSessionService{
		createSessionFn: func(ctx context.Context, idToken string) (*model.Session, error) {
			return nil, model.NewMisconfiguredError()
		},
	})

	body := `{"idToken": "some-token"}`
	req := httptest.NewRequest(http.MethodPost, "/api/session", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.CreateSession(w, req)

	if w.Result().StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusInternalServerError)
	}

	result := parseAPIErrorResponse(t, w)
	if result["code"] != model.ErrCodeMisconfigured {
		t.Errorf("code = %q, want %q", result["code"], model.ErrCodeMisconfigured)
	}
}

// --- DELETE /api/session テスト ---

func TestSessionHandler_DestroySession_ClearsCookie(t *testing.T) {
	var destroyedID string
	h := newTestSessionHandler(&mockSessionService{
		destroySessionFn: func(ctx context.Context, sessionID string) error {
			destroyedID = sessionID
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/session", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "existing-session"})
	w := httptest.NewRecorder()

	h.DestroySession(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if destroyedID != "existing-session" {
		t.Errorf("destroyed session = %q, want %q", destroyedID, "existing-session")
	}

	cookie := findCookie(t, resp, "session")
	if cookie == nil {
		t.Fatal("clearing cookie should be set")
	}
	if cookie.Value != "" || cookie.MaxAge != -1 {
		t.Errorf("cookie should be cleared, got value=%q maxAge=%d", cookie.Value, cookie.MaxAge)
	}
}

// セッションが存在しなくても成功を返すことを検証（冪等）
func TestSessionHandler_DestroySession_NoCookie_StillSucceeds(t *testing.T) {
	h := newTestSessionHandler(&mockSessionService{
		destroySessionFn: func(ctx context.Context, sessionID string) error {
			t.Fatal("service should not be called without a cookie")
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/session", nil)
	w := httptest.NewRecorder()

	h.DestroySession(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var result map[string]bool
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !result["success"] {
		t.Error("response should be {success: true}")
	}
}

// 破棄に失敗してもCookieはクリアされ成功を返すことを検証
func TestSessionHandler_DestroySession_ServiceError_StillClearsCookie(t *testing.T) {
	h := newTestSessionHandler(&mockSessionService{
		destroySessionFn: func(ctx context.Context, sessionID string) error {
			return context.DeadlineExceeded
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/session", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "some-session"})
	w := httptest.NewRecorder()

	h.DestroySession(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	cookie := findCookie(t, resp, "session")
	if cookie == nil || cookie.MaxAge != -1 {
		t.Error("cookie should still be cleared on service error")
	}
}
