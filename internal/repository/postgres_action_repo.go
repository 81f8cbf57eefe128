package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/carbonreg/internal/model"
)

// PostgresActionRepo はPostgreSQLを使用したアクション記録リポジトリ。
type PostgresActionRepo struct {
	db *sql.DB
}

// NewPostgresActionRepo はPostgresActionRepoを生成する。
func NewPostgresActionRepo(db *sql.DB) *PostgresActionRepo {
	return &PostgresActionRepo{db: db}
}

// actionColumns はSELECT句で取得するカラムの並び。scanActionと対応を保つこと。
const actionColumns = `id, user_id, user_email, action_type, quantity, unit, address,
	 lat, lng, COALESCE(idempotency_key, ''), created_at, updated_at`

// FindByID は指定IDの記録を取得する。見つからない場合はnilを返す。
func (r *PostgresActionRepo) FindByID(ctx context.Context, id string) (*model.ActionRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+actionColumns+` FROM actions WHERE id = $1`,
		id,
	)

	action, err := scanAction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find action: %w", err)
	}

	return action, nil
}

// FindByIdempotencyKey は所有者と冪等キーで記録を検索する。見つからない場合はnilを返す。
func (r *PostgresActionRepo) FindByIdempotencyKey(ctx context.Context, ownerID, key string) (*model.ActionRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+actionColumns+` FROM actions
		 WHERE user_id = $1 AND idempotency_key = $2`,
		ownerID, key,
	)

	action, err := scanAction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find action by idempotency key: %w", err)
	}

	return action, nil
}

// ListByOwnerID は所有者の記録一覧をcreated_at降順で返す。
func (r *PostgresActionRepo) ListByOwnerID(ctx context.Context, ownerID string) ([]*model.ActionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+actionColumns+` FROM actions
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	defer rows.Close()

	actions := []*model.ActionRecord{}
	for rows.Next() {
		action, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		actions = append(actions, action)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate actions: %w", err)
	}

	return actions, nil
}

// Create は記録を作成する。
func (r *PostgresActionRepo) Create(ctx context.Context, action *model.ActionRecord) error {
	var idempotencyKey sql.NullString
	if action.IdempotencyKey != "" {
		idempotencyKey = sql.NullString{String: action.IdempotencyKey, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO actions
		 (id, user_id, user_email, action_type, quantity, unit, address, lat, lng, idempotency_key, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		action.ID, action.OwnerID, action.OwnerEmail, string(action.ActionType),
		action.Quantity, action.Unit, action.Address, action.Lat, action.Lng,
		idempotencyKey, action.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create action: %w", err)
	}
	return nil
}

// Update は記録の許可フィールドと更新日時のみを上書きする。
// user_id、user_email、created_atは変更しない。
func (r *PostgresActionRepo) Update(ctx context.Context, action *model.ActionRecord) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE actions
		 SET action_type = $2, quantity = $3, unit = $4, address = $5,
		     lat = $6, lng = $7, updated_at = $8
		 WHERE id = $1`,
		action.ID, string(action.ActionType), action.Quantity, action.Unit,
		action.Address, action.Lat, action.Lng, action.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update action: %w", err)
	}
	return nil
}

// DeleteByID は指定IDの記録を削除する。
func (r *PostgresActionRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM actions WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete action: %w", err)
	}
	return nil
}

// rowScanner は*sql.Rowと*sql.Rowsの共通部分。
type rowScanner interface {
	Scan(dest ...any) error
}

// scanAction は1行分のアクション記録を読み取る。
func scanAction(row rowScanner) (*model.ActionRecord, error) {
	action := &model.ActionRecord{}
	var (
		actionType string
		lat, lng   sql.NullFloat64
		updatedAt  sql.NullTime
	)

	err := row.Scan(
		&action.ID, &action.OwnerID, &action.OwnerEmail, &actionType,
		&action.Quantity, &action.Unit, &action.Address,
		&lat, &lng, &action.IdempotencyKey, &action.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	action.ActionType = model.ActionType(actionType)
	if lat.Valid {
		action.Lat = &lat.Float64
	}
	if lng.Valid {
		action.Lng = &lng.Float64
	}
	if updatedAt.Valid {
		action.UpdatedAt = &updatedAt.Time
	}

	return action, nil
}

// compile-time interface check
var _ ActionRepository = (*PostgresActionRepo)(nil)
