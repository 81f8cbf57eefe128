package action

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/carbonreg/internal/model"
	"github.com/hitoshi/carbonreg/internal/repository"
)

// Service はアクション記録の所有者ベースのCRUDを提供する。
// 認可は所有者一致のみを述語とする（ロールや共有アクセスは存在しない）。
type Service struct {
	actions   repository.ActionRepository
	validator *Validator
}

// NewService はServiceを生成する。
func NewService(actions repository.ActionRepository, validator *Validator) *Service {
	return &Service{
		actions:   actions,
		validator: validator,
	}
}

// List は呼び出し元が所有する記録の一覧をcreated_at降順で返す。
// フィルタはストレージ側で行われ、他ユーザーの記録は決して含まれない。
func (s *Service) List(ctx context.Context, callerID string) ([]*model.ActionRecord, error) {
	records, err := s.actions.ListByOwnerID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	return records, nil
}

// Create はバリデーション済みの新規記録を作成する。
// ID・作成時刻はサーバー側で割り当てる（クライアント指定のタイムスタンプは常に無視）。
// idempotencyKeyが指定され、同一所有者・同一キーの記録が既にある場合は
// 新規作成せずその記録を返す（タイムアウト後の再送信による重複登録を防ぐ）。
func (s *Service) Create(ctx context.Context, caller *model.Identity, raw map[string]any, idempotencyKey string) (*model.ActionRecord, error) {
	mutation, err := s.validator.Validate(raw, ModeCreate)
	if err != nil {
		return nil, err
	}

	if idempotencyKey != "" {
		existing, err := s.actions.FindByIdempotencyKey(ctx, caller.UserID, idempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("failed to check idempotency key: %w", err)
		}
		if existing != nil {
			slog.Info("duplicate submission detected, returning existing record",
				slog.String("user_id", caller.UserID),
				slog.String("action_id", existing.ID),
			)
			return existing, nil
		}
	}

	record := &model.ActionRecord{
		ID:             uuid.NewString(),
		OwnerID:        caller.UserID,
		OwnerEmail:     caller.Email,
		ActionType:     *mutation.ActionType,
		Quantity:       *mutation.Quantity,
		Unit:           *mutation.Unit,
		Address:        *mutation.Address,
		Lat:            mutation.Lat,
		Lng:            mutation.Lng,
		IdempotencyKey: idempotencyKey,
		CreatedAt:      time.Now(),
	}

	if err := s.actions.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create action: %w", err)
	}

	slog.Info("action created",
		slog.String("user_id", caller.UserID),
		slog.String("action_id", record.ID),
		slog.String("action_type", string(record.ActionType)),
	)

	return record, nil
}

// Update は所有者による部分更新を行い、更新後の記録を返す。
// ホワイトリスト外のフィールドはバリデーション段階で破棄済みのため、
// OwnerID、CreatedAt、IDが変更されることはない。
func (s *Service) Update(ctx context.Context, caller *model.Identity, actionID string, raw map[string]any) (*model.ActionRecord, error) {
	// 認可はペイロード検証より先に行う。非所有者には記録の存在有無以外の
	// 情報（バリデーション結果）を一切返さない。
	record, err := s.authorize(ctx, caller.UserID, actionID)
	if err != nil {
		return nil, err
	}

	mutation, err := s.validator.Validate(raw, ModeUpdate)
	if err != nil {
		return nil, err
	}

	if mutation.ActionType != nil {
		record.ActionType = *mutation.ActionType
	}
	if mutation.Quantity != nil {
		record.Quantity = *mutation.Quantity
	}
	if mutation.Unit != nil {
		record.Unit = *mutation.Unit
	}
	if mutation.Address != nil {
		record.Address = *mutation.Address
	}
	if mutation.LatSet {
		record.Lat = mutation.Lat
	}
	if mutation.LngSet {
		record.Lng = mutation.Lng
	}

	now := time.Now()
	record.UpdatedAt = &now

	if err := s.actions.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update action: %w", err)
	}

	slog.Info("action updated",
		slog.String("user_id", caller.UserID),
		slog.String("action_id", record.ID),
	)

	return record, nil
}

// Delete は所有者による記録の削除を行う。
func (s *Service) Delete(ctx context.Context, caller *model.Identity, actionID string) error {
	record, err := s.authorize(ctx, caller.UserID, actionID)
	if err != nil {
		return err
	}

	if err := s.actions.DeleteByID(ctx, record.ID); err != nil {
		return fmt.Errorf("failed to delete action: %w", err)
	}

	slog.Info("action deleted",
		slog.String("user_id", caller.UserID),
		slog.String("action_id", record.ID),
	)

	return nil
}

// authorize は記録を取得し、呼び出し元が所有者であることを検証する。
// 記録が存在しない場合はNotFound、所有者でない場合はForbiddenを返す。
// 認可はキャッシュせず、変更操作のたびに再評価する。
func (s *Service) authorize(ctx context.Context, callerID, actionID string) (*model.ActionRecord, error) {
	record, err := s.actions.FindByID(ctx, actionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find action: %w", err)
	}
	if record == nil {
		return nil, model.NewActionNotFoundError(actionID)
	}
	if record.OwnerID != callerID {
		slog.Warn("ownership check failed",
			slog.String("caller_id", callerID),
			slog.String("action_id", actionID),
		)
		return nil, model.NewForbiddenError()
	}
	return record, nil
}
