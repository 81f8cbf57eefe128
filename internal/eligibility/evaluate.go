// Package eligibility はプロジェクトの適格性評価を提供する。
package eligibility

import (
	"time"

	"github.com/hitoshi/carbonreg/internal/model"
)

// Evaluate はプロジェクトを日付・フィールドルールで評価し、判定と理由を返す。
// ルール（先勝ち）:
//  1. 所有形態・ベースライン種別・稼働開始日のいずれかが未入力 → conditional
//  2. 稼働開始日が評価日より前 → no（遡及登録は適格としない）
//  3. それ以外 → yes
func Evaluate(project *model.Project, now time.Time) (model.EligibilityStatus, string) {
	if project.Ownership == "" || project.BaselineType == "" || project.CommissioningDate.IsZero() {
		return model.EligibilityConditional, "Missing required fields"
	}

	// 日単位で比較する（同日の稼働開始は適格）
	today := now.Truncate(24 * time.Hour)
	commissioning := project.CommissioningDate.Truncate(24 * time.Hour)
	if commissioning.Before(today) {
		return model.EligibilityNo, "Commissioning date is in the past"
	}

	return model.EligibilityYes, "Eligible"
}
