package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/carbonreg/internal/model"
)

// SessionCookieName はセッションIDを保持するCookieの名前。
const SessionCookieName = "session"

// SessionFinder はセッションの検索に必要なインターフェース。
// auth.Serviceの部分集合として定義する。
type SessionFinder interface {
	FindSession(ctx context.Context, sessionID string) (*model.Session, error)
}

// guardRule はページごとの認証要件。
type guardRule struct {
	requireSession bool   // セッション必須のページか
	redirectTo     string // 要件を満たさない場合のリダイレクト先
}

// guardRules はパスごとのガードルール。
// マイページはセッション必須、サインインページはセッション保持時に二重表示させない。
var guardRules = map[string]guardRule{
	"/profile": {requireSession: true, redirectTo: "/"},
	"/signin":  {requireSession: false, redirectTo: "/profile"},
}

// DecideRedirect はパスとセッション有無からリダイレクト先を決定する。
// リダイレクト不要の場合は空文字を返す。
func DecideRedirect(path string, hasSession bool) string {
	rule, ok := guardRules[path]
	if !ok {
		return ""
	}
	if rule.requireSession && !hasSession {
		return rule.redirectTo
	}
	if !rule.requireSession && hasSession {
		return rule.redirectTo
	}
	return ""
}

// NewRouteGuardMiddleware はページ遷移時の認証ガードミドルウェアを返す。
// セッションCookieの有効性を確認し、ガードルールに従ってリダイレクトする。
// 検索エラー時は未認証として扱う（ページ表示自体は止めない）。
func NewRouteGuardMiddleware(sessions SessionFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hasSession := false
			if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				session, err := sessions.FindSession(r.Context(), cookie.Value)
				if err != nil {
					slog.Error("route guard session lookup failed",
						slog.String("error", err.Error()),
					)
				}
				hasSession = session != nil
			}

			if target := DecideRedirect(r.URL.Path, hasSession); target != "" {
				http.Redirect(w, r, target, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
