// Package seed はデモデータの投入機能を提供する。
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/carbonreg/internal/model"
	"github.com/hitoshi/carbonreg/internal/repository"
)

// demoOwnerID はデモ記録の所有者ID。実ユーザーと衝突しない固定値を使用する。
const demoOwnerID = "demo-user"

// demoOwnerEmail はデモ記録の所有者メールアドレス。
const demoOwnerEmail = "demo@carbonreg.example"

// Service はデモ用のアクション記録とプロジェクトを投入する。
// 共有シークレット（X-Seed-Keyヘッダー）で保護された内部エンドポイントからのみ呼ばれる。
type Service struct {
	actions  repository.ActionRepository
	projects repository.ProjectRepository
}

// NewService はServiceを生成する。
func NewService(actions repository.ActionRepository, projects repository.ProjectRepository) *Service {
	return &Service{
		actions:  actions,
		projects: projects,
	}
}

// SeedResult は投入結果の件数を表す。
type SeedResult struct {
	Actions  int `json:"actions"`
	Projects int `json:"projects"`
}

// Run はデモデータを投入する。
// 毎回新しいIDで作成するため、繰り返し呼ぶと記録は増える（冪等ではない）。
func (s *Service) Run(ctx context.Context) (*SeedResult, error) {
	result := &SeedResult{}

	for _, action := range demoActions() {
		if err := s.actions.Create(ctx, action); err != nil {
			return nil, fmt.Errorf("failed to seed action: %w", err)
		}
		result.Actions++
	}

	for _, project := range demoProjects() {
		if err := s.projects.Create(ctx, project); err != nil {
			return nil, fmt.Errorf("failed to seed project: %w", err)
		}
		result.Projects++
	}

	slog.Info("demo data seeded",
		slog.Int("actions", result.Actions),
		slog.Int("projects", result.Projects),
	)

	return result, nil
}

func floatPtr(f float64) *float64 {
	return &f
}

// demoActions はデモ用のアクション記録を生成する。
// 地図表示の確認用に座標付きの記録を含める。
func demoActions() []*model.ActionRecord {
	now := time.Now()
	return []*model.ActionRecord{
		{
			ID:         uuid.NewString(),
			OwnerID:    demoOwnerID,
			OwnerEmail: demoOwnerEmail,
			ActionType: model.ActionTypeSolarRooftop,
			Quantity:   5,
			Unit:       "kW",
			Address:    "Shibuya, Tokyo",
			Lat:        floatPtr(35.6580),
			Lng:        floatPtr(139.7016),
			CreatedAt:  now.Add(-72 * time.Hour),
		},
		{
			ID:         uuid.NewString(),
			OwnerID:    demoOwnerID,
			OwnerEmail: demoOwnerEmail,
			ActionType: model.ActionTypeTreePlantation,
			Quantity:   120,
			Unit:       "trees",
			Address:    "Yoyogi Park, Tokyo",
			Lat:        floatPtr(35.6712),
			Lng:        floatPtr(139.6949),
			CreatedAt:  now.Add(-48 * time.Hour),
		},
		{
			ID:         uuid.NewString(),
			OwnerID:    demoOwnerID,
			OwnerEmail: demoOwnerEmail,
			ActionType: model.ActionTypeRainwaterHarvesting,
			Quantity:   30,
			Unit:       "m³",
			Address:    "Osaka, Japan",
			CreatedAt:  now.Add(-24 * time.Hour),
		},
	}
}

// demoProjects は適格性評価の動作確認用のプロジェクトを生成する。
// yes / no / conditional の3パターンを揃える。
func demoProjects() []*model.Project {
	now := time.Now()
	return []*model.Project{
		{
			ID:                uuid.NewString(),
			Name:              "Community Solar (upcoming)",
			Ownership:         "community",
			BaselineType:      "grid",
			CommissioningDate: now.AddDate(0, 2, 0),
			CreatedAt:         now,
		},
		{
			ID:                uuid.NewString(),
			Name:              "Legacy Biogas Plant",
			Ownership:         "private",
			BaselineType:      "diesel",
			CommissioningDate: now.AddDate(-1, 0, 0),
			CreatedAt:         now,
		},
		{
			ID:        uuid.NewString(),
			Name:      "Draft Project (incomplete)",
			Ownership: "private",
			CreatedAt: now,
		},
	}
}
