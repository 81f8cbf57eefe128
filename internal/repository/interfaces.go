// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/carbonreg/internal/model"
)

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。存在しない場合もエラーにしない。
	DeleteByID(ctx context.Context, id string) error
}

// ActionRepository はアクション記録の永続化インターフェース。
type ActionRepository interface {
	// FindByID は指定IDの記録を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.ActionRecord, error)

	// FindByIdempotencyKey は所有者と冪等キーで記録を検索する。見つからない場合はnilを返す。
	FindByIdempotencyKey(ctx context.Context, ownerID, key string) (*model.ActionRecord, error)

	// ListByOwnerID は所有者の記録一覧をcreated_at降順で返す。
	// 所有者によるフィルタはSQL側で行い、他ユーザーの記録は決して含まれない。
	ListByOwnerID(ctx context.Context, ownerID string) ([]*model.ActionRecord, error)

	// Create は記録を作成する。
	Create(ctx context.Context, action *model.ActionRecord) error

	// Update は記録を上書き更新する。OwnerID、CreatedAt、IDは変更しない。
	Update(ctx context.Context, action *model.ActionRecord) error

	// DeleteByID は指定IDの記録を削除する。
	DeleteByID(ctx context.Context, id string) error
}

// ProjectRepository はプロジェクトデータの永続化インターフェース。
type ProjectRepository interface {
	// FindByID は指定IDのプロジェクトを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Project, error)

	// Create はプロジェクトを作成する。
	Create(ctx context.Context, project *model.Project) error
}

// EligibilityResultRepository は適格性評価結果の永続化インターフェース。
// 評価結果は追記専用で、更新・削除のメソッドは提供しない。
type EligibilityResultRepository interface {
	// Append は評価結果を追記する。
	Append(ctx context.Context, result *model.EligibilityResult) error
}
