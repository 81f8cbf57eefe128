package middleware

import (
	"log/slog"
	"net/http"
	"strings"
)

// NewOriginCheckMiddleware はCookieを利用する状態変更エンドポイント向けの
// クロスサイトリクエスト対策ミドルウェアを返す。
// 状態変更メソッドのOriginヘッダーが許可オリジンと一致しない場合は403を返す。
// Originヘッダーを送信しない同一オリジンの旧クライアントは許容する。
func NewOriginCheckMiddleware(allowedOrigin string) func(next http.Handler) http.Handler {
	normalized := strings.TrimSuffix(allowedOrigin, "/")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 安全なメソッドは検証をスキップ
			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			if origin != "" && strings.TrimSuffix(origin, "/") != normalized {
				slog.Warn("origin check failed",
					slog.String("origin", origin),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				http.Error(w, "origin not allowed", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isSafeMethod はHTTPメソッドが安全（読み取り専用）かどうかを判定する。
func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}
