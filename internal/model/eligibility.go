// Package model はドメインモデルを定義する。
package model

import "time"

// Project はカーボンクレジットの適格性評価対象のプロジェクトを表す。
type Project struct {
	ID                string
	Name              string
	Ownership         string
	BaselineType      string
	CommissioningDate time.Time
	CreatedAt         time.Time
}

// EligibilityStatus は適格性評価の判定結果を表す。
type EligibilityStatus string

const (
	// EligibilityYes は適格。
	EligibilityYes EligibilityStatus = "yes"
	// EligibilityNo は不適格。
	EligibilityNo EligibilityStatus = "no"
	// EligibilityConditional は条件付き（必須フィールド不足等）。
	EligibilityConditional EligibilityStatus = "conditional"
)

// EligibilityResult は適格性評価の実行結果を表す。
// 評価のたびに追記される監査ログであり、更新・削除はされない。
type EligibilityResult struct {
	ID          string
	ProjectID   string
	Status      EligibilityStatus
	Reason      string
	EvaluatedAt time.Time
}
