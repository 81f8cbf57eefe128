package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/carbonreg/internal/model"
)

// PostgresProjectRepo はPostgreSQLを使用したプロジェクトリポジトリ。
type PostgresProjectRepo struct {
	db *sql.DB
}

// NewPostgresProjectRepo はPostgresProjectRepoを生成する。
func NewPostgresProjectRepo(db *sql.DB) *PostgresProjectRepo {
	return &PostgresProjectRepo{db: db}
}

// FindByID は指定IDのプロジェクトを取得する。見つからない場合はnilを返す。
func (r *PostgresProjectRepo) FindByID(ctx context.Context, id string) (*model.Project, error) {
	project := &model.Project{}
	var commissioningDate sql.NullTime

	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, ownership, baseline_type, commissioning_date, created_at
		 FROM projects
		 WHERE id = $1`,
		id,
	).Scan(&project.ID, &project.Name, &project.Ownership, &project.BaselineType,
		&commissioningDate, &project.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if commissioningDate.Valid {
		project.CommissioningDate = commissioningDate.Time
	}

	return project, nil
}

// Create はプロジェクトを作成する。
func (r *PostgresProjectRepo) Create(ctx context.Context, project *model.Project) error {
	var commissioningDate sql.NullTime
	if !project.CommissioningDate.IsZero() {
		commissioningDate = sql.NullTime{Time: project.CommissioningDate, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, ownership, baseline_type, commissioning_date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		project.ID, project.Name, project.Ownership, project.BaselineType,
		commissioningDate, project.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// PostgresEligibilityResultRepo はPostgreSQLを使用した適格性評価結果リポジトリ。
// 追記専用で、UPDATE/DELETEは発行しない。
type PostgresEligibilityResultRepo struct {
	db *sql.DB
}

// NewPostgresEligibilityResultRepo はPostgresEligibilityResultRepoを生成する。
func NewPostgresEligibilityResultRepo(db *sql.DB) *PostgresEligibilityResultRepo {
	return &PostgresEligibilityResultRepo{db: db}
}

// Append は評価結果を追記する。
func (r *PostgresEligibilityResultRepo) Append(ctx context.Context, result *model.EligibilityResult) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO eligibility_results (id, project_id, status, reason, evaluated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		result.ID, result.ProjectID, string(result.Status), result.Reason, result.EvaluatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append eligibility result: %w", err)
	}
	return nil
}

// compile-time interface checks
var (
	_ ProjectRepository           = (*PostgresProjectRepo)(nil)
	_ EligibilityResultRepository = (*PostgresEligibilityResultRepo)(nil)
)
