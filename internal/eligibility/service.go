package eligibility

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/carbonreg/internal/model"
	"github.com/hitoshi/carbonreg/internal/repository"
)

// Service はプロジェクトの適格性評価と結果の記録を提供する。
// 評価結果は追記専用の監査ログとして残し、過去の結果は決して書き換えない。
type Service struct {
	projects repository.ProjectRepository
	results  repository.EligibilityResultRepository
}

// NewService はServiceを生成する。
func NewService(projects repository.ProjectRepository, results repository.EligibilityResultRepository) *Service {
	return &Service{
		projects: projects,
		results:  results,
	}
}

// EvaluateProject は指定プロジェクトを評価し、結果を追記して返す。
// プロジェクトが存在しない場合はNotFoundを返す。
func (s *Service) EvaluateProject(ctx context.Context, projectID string) (*model.EligibilityResult, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if project == nil {
		return nil, model.NewProjectNotFoundError(projectID)
	}

	status, reason := Evaluate(project, time.Now())

	result := &model.EligibilityResult{
		ID:          uuid.NewString(),
		ProjectID:   project.ID,
		Status:      status,
		Reason:      reason,
		EvaluatedAt: time.Now(),
	}

	if err := s.results.Append(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to append eligibility result: %w", err)
	}

	slog.Info("project evaluated",
		slog.String("project_id", project.ID),
		slog.String("status", string(status)),
	)

	return result, nil
}
