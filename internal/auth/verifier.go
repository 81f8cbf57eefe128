// Package auth はIDトークン検証とセッション管理を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/hitoshi/carbonreg/internal/model"
)

// TokenVerifier はIDプロバイダーが発行したIDトークンの検証インターフェース。
// 暗号的な検証（署名、有効期限、audience）はすべて外部プロバイダーの
// 公開鍵に委譲し、このシステム自身は鍵を保持しない。
type TokenVerifier interface {
	// Verify はIDトークンを検証し、検証済みの呼び出し元を返す。
	// 検証失敗の理由（期限切れ、署名不一致、形式不正）は区別せず、
	// すべて単一の無効トークンエラーに集約する。
	Verify(ctx context.Context, rawIDToken string) (*model.Identity, error)
}

// OIDCVerifierConfig はOIDCVerifierの設定。
type OIDCVerifierConfig struct {
	IssuerURL string
	ClientID  string
}

// OIDCVerifier はOIDCプロバイダーのJWKSを用いてIDトークンを検証する。
// プロバイダーのディスカバリはネットワークアクセスを伴うため、
// 初回のVerify呼び出しまで遅延させる。
type OIDCVerifier struct {
	config OIDCVerifierConfig

	mu       sync.Mutex
	verifier *oidc.IDTokenVerifier
}

// NewOIDCVerifier はOIDCVerifierを生成する。
func NewOIDCVerifier(config OIDCVerifierConfig) *OIDCVerifier {
	return &OIDCVerifier{config: config}
}

// Verify はIDトークンを検証し、検証済みの呼び出し元を返す。
func (v *OIDCVerifier) Verify(ctx context.Context, rawIDToken string) (*model.Identity, error) {
	verifier, err := v.idTokenVerifier(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OIDC provider: %w", err)
	}

	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		// 失敗理由を外部に漏らさない（オラクル攻撃の回避）。詳細はログのみ。
		slog.Warn("id token verification failed", slog.String("error", err.Error()))
		return nil, model.NewInvalidTokenError()
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		slog.Warn("failed to parse id token claims", slog.String("error", err.Error()))
		return nil, model.NewInvalidTokenError()
	}

	return &model.Identity{
		UserID: idToken.Subject,
		Email:  claims.Email,
	}, nil
}

// idTokenVerifier はプロバイダーのディスカバリを1回だけ実行し、検証器を返す。
func (v *OIDCVerifier) idTokenVerifier(ctx context.Context) (*oidc.IDTokenVerifier, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.verifier != nil {
		return v.verifier, nil
	}

	provider, err := oidc.NewProvider(ctx, v.config.IssuerURL)
	if err != nil {
		return nil, err
	}

	v.verifier = provider.Verifier(&oidc.Config{ClientID: v.config.ClientID})
	return v.verifier, nil
}

// LooksLikeJWT はトークンがJWTの形式（3セグメント）かを簡易判定する。
// 形式不正（400）と検証失敗（401）を区別するために使用する。
func LooksLikeJWT(token string) bool {
	if token == "" {
		return false
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

// compile-time interface check
var _ TokenVerifier = (*OIDCVerifier)(nil)
