package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/carbonreg/internal/model"
	"github.com/hitoshi/carbonreg/internal/repository"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service はセッションのライフサイクル管理を提供する。
// 短命なIDトークンを検証済みであることを条件に、長命な不透明セッションへ交換する。
// verifierがnilの場合（IDプロバイダー未設定）はすべての操作が設定エラーで失敗する。
type Service struct {
	verifier TokenVerifier
	sessions repository.SessionRepository
	config   ServiceConfig
}

// NewService はServiceを生成する。
// IDプロバイダーが未設定の環境ではverifierにnilを渡す。
func NewService(verifier TokenVerifier, sessions repository.SessionRepository, config ServiceConfig) *Service {
	return &Service{
		verifier: verifier,
		sessions: sessions,
		config:   config,
	}
}

// CreateSession はIDトークンを検証し、固定有効期限のセッションを発行する。
// このメソッドは初回認証を行わない。クライアント側でプロバイダー認証が
// 成功した後、その結果を永続セッションへ延長するためだけに呼ばれる。
func (s *Service) CreateSession(ctx context.Context, idToken string) (*model.Session, error) {
	if s.verifier == nil {
		return nil, model.NewMisconfiguredError()
	}

	// 形式チェックは外部呼び出しの前に行う（コスト削減の早期リターン）
	if !LooksLikeJWT(idToken) {
		return nil, model.NewInvalidTokenFormatError()
	}

	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}

	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := time.Now()
	session := &model.Session{
		ID:        sessionID,
		UserID:    identity.UserID,
		Email:     identity.Email,
		ExpiresAt: now.Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: now,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	slog.Info("session created",
		slog.String("user_id", identity.UserID),
		slog.Time("expires_at", session.ExpiresAt),
	)

	return session, nil
}

// DestroySession はセッションを破棄する。
// セッションが存在しない場合も成功として扱う（冪等）。
func (s *Service) DestroySession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessions.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("session destroyed", slog.String("session_id", sessionID))
	return nil
}

// FindSession は指定IDのセッションを取得する。期限切れ・不在の場合はnilを返す。
func (s *Service) FindSession(ctx context.Context, sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return nil, nil
	}
	return s.sessions.FindByID(ctx, sessionID)
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
