// Package action はアクション記録のバリデーションと所有者ベースのCRUDを提供する。
package action

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/hitoshi/carbonreg/internal/model"
	"github.com/hitoshi/carbonreg/internal/security"
)

// ValidationMode はバリデーションのモードを表す。
type ValidationMode int

const (
	// ModeCreate は新規作成。必須フィールドの欠落を拒否する。
	ModeCreate ValidationMode = iota
	// ModeUpdate は部分更新。すべてのフィールドが任意。
	ModeUpdate
)

// Mutation はバリデーション済みの変更内容を表す。
// nilのフィールドは「指定なし」を意味する（部分更新で変更しない）。
// Lat/LngはSetフラグで「nullへの明示的な設定」と「指定なし」を区別する。
type Mutation struct {
	ActionType *model.ActionType
	Quantity   *float64
	Unit       *string
	Address    *string
	Lat        *float64
	LatSet     bool
	Lng        *float64
	LngSet     bool
}

// Validator は生のリクエストペイロードをホワイトリスト方式で検証する。
// ホワイトリスト外のフィールド（ownerId、createdAt、id等）は黙って破棄し、
// 決して保存層に到達させない。
type Validator struct {
	sanitizer *security.TextSanitizer
}

// NewValidator はValidatorを生成する。
func NewValidator(sanitizer *security.TextSanitizer) *Validator {
	return &Validator{sanitizer: sanitizer}
}

// Validate は生のペイロードを検証し、サニタイズ済みの変更内容を返す。
// 作成モードではactionType、quantity、unit、addressが必須。
func (v *Validator) Validate(raw map[string]any, mode ValidationMode) (*Mutation, error) {
	mutation := &Mutation{}

	// actionType
	if value, ok := raw["actionType"]; ok {
		str, ok := toString(value)
		if !ok {
			return nil, model.NewValidationError("actionTypeは文字列で指定してください")
		}
		actionType := model.ActionType(strings.TrimSpace(str))
		if !model.IsValidActionType(actionType) {
			return nil, model.NewInvalidActionTypeError(string(actionType))
		}
		mutation.ActionType = &actionType
	}

	// quantity: 数値に強制変換し、正の数のみ許可
	if value, ok := raw["quantity"]; ok {
		quantity, ok := toFloat(value)
		if !ok || math.IsNaN(quantity) || math.IsInf(quantity, 0) || quantity <= 0 {
			return nil, model.NewInvalidQuantityError()
		}
		mutation.Quantity = &quantity
	}

	// unit
	if value, ok := raw["unit"]; ok {
		str, ok := toString(value)
		if !ok {
			return nil, model.NewValidationError("unitは文字列で指定してください")
		}
		unit := v.sanitizer.Sanitize(str)
		if unit == "" && mode == ModeCreate {
			return nil, model.NewMissingFieldsError([]string{"unit"})
		}
		mutation.Unit = &unit
	}

	// address
	if value, ok := raw["address"]; ok {
		str, ok := toString(value)
		if !ok {
			return nil, model.NewValidationError("addressは文字列で指定してください")
		}
		address := v.sanitizer.Sanitize(str)
		if address == "" && mode == ModeCreate {
			return nil, model.NewMissingFieldsError([]string{"address"})
		}
		mutation.Address = &address
	}

	// lat/lng: 数値またはnull
	if value, ok := raw["lat"]; ok {
		lat, err := toCoordinate(value, "lat", -90, 90)
		if err != nil {
			return nil, err
		}
		mutation.Lat = lat
		mutation.LatSet = true
	}
	if value, ok := raw["lng"]; ok {
		lng, err := toCoordinate(value, "lng", -180, 180)
		if err != nil {
			return nil, err
		}
		mutation.Lng = lng
		mutation.LngSet = true
	}

	if mode == ModeCreate {
		if missing := missingCreateFields(mutation); len(missing) > 0 {
			return nil, model.NewMissingFieldsError(missing)
		}
	}

	return mutation, nil
}

// missingCreateFields は作成時の必須フィールドのうち欠落しているものを返す。
func missingCreateFields(m *Mutation) []string {
	var missing []string
	if m.ActionType == nil {
		missing = append(missing, "actionType")
	}
	if m.Quantity == nil {
		missing = append(missing, "quantity")
	}
	if m.Unit == nil {
		missing = append(missing, "unit")
	}
	if m.Address == nil {
		missing = append(missing, "address")
	}
	return missing
}

// toString は値を文字列に変換する。
func toString(value any) (string, bool) {
	str, ok := value.(string)
	return str, ok
}

// toFloat は値を数値に変換する。
// JSONデコード結果のfloat64とjson.Number、および数値文字列を受け付ける。
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// toCoordinate は座標値を数値またはnullとして解釈し、範囲を検証する。
func toCoordinate(value any, name string, min, max float64) (*float64, error) {
	if value == nil {
		return nil, nil
	}
	coord, ok := toFloat(value)
	if !ok || math.IsNaN(coord) || math.IsInf(coord, 0) {
		return nil, model.NewValidationError(name + "は数値またはnullで指定してください")
	}
	if coord < min || coord > max {
		return nil, model.NewValidationError(name + "が範囲外です")
	}
	return &coord, nil
}
