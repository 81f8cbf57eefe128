// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, record, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidToken       = "INVALID_TOKEN"
	ErrCodeInvalidTokenFormat = "INVALID_TOKEN_FORMAT"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeActionNotFound     = "ACTION_NOT_FOUND"
	ErrCodeProjectNotFound    = "PROJECT_NOT_FOUND"
	ErrCodeMissingFields      = "MISSING_FIELDS"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeInvalidActionType  = "INVALID_ACTION_TYPE"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeMisconfigured      = "MISCONFIGURED"
	ErrCodeInvalidSeedKey     = "INVALID_SEED_KEY"
)

// NewUnauthorizedError は認証情報が提示されていない場合のエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてから再度お試しください。",
	}
}

// NewInvalidTokenError はトークン検証に失敗した場合のエラーを生成する。
// 失敗理由（期限切れ、署名不一致等）は区別せず単一のエラーに集約する。
func NewInvalidTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidToken,
		Message:  "認証トークンが無効です。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewInvalidTokenFormatError はトークンの形式自体が不正な場合のエラーを生成する。
func NewInvalidTokenFormatError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidTokenFormat,
		Message:  "認証トークンの形式が不正です。",
		Category: "validation",
		Action:   "正しいIDトークンを送信してください。",
	}
}

// NewForbiddenError は他ユーザーの記録への操作が拒否された場合のエラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "この記録を操作する権限がありません。",
		Category: "auth",
		Action:   "自分が登録した記録のみ編集・削除できます。",
	}
}

// NewActionNotFoundError はアクション記録が見つからない場合のエラーを生成する。
func NewActionNotFoundError(actionID string) *APIError {
	return &APIError{
		Code:     ErrCodeActionNotFound,
		Message:  fmt.Sprintf("指定された記録が見つかりません: %s", actionID),
		Category: "record",
		Action:   "記録IDを確認してください。",
	}
}

// NewProjectNotFoundError はプロジェクトが見つからない場合のエラーを生成する。
func NewProjectNotFoundError(projectID string) *APIError {
	return &APIError{
		Code:     ErrCodeProjectNotFound,
		Message:  fmt.Sprintf("指定されたプロジェクトが見つかりません: %s", projectID),
		Category: "record",
		Action:   "プロジェクトIDを確認してください。",
	}
}

// NewMissingFieldsError は必須フィールドが不足している場合のエラーを生成する。
func NewMissingFieldsError(fields []string) *APIError {
	return &APIError{
		Code:     ErrCodeMissingFields,
		Message:  fmt.Sprintf("必須フィールドが不足しています: %v", fields),
		Category: "validation",
		Action:   "actionType、quantity、unit、addressをすべて指定してください。",
	}
}

// NewInvalidQuantityError は数量が正の数でない場合のエラーを生成する。
func NewInvalidQuantityError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidQuantity,
		Message:  "数量は正の数で指定してください。",
		Category: "validation",
		Action:   "0より大きい数値を入力してください。",
	}
}

// NewInvalidActionTypeError は未定義のアクション種別が指定された場合のエラーを生成する。
func NewInvalidActionTypeError(actionType string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidActionType,
		Message:  fmt.Sprintf("未定義のアクション種別です: %s", actionType),
		Category: "validation",
		Action:   "定義済みのアクション種別から選択してください。",
	}
}

// NewValidationError はその他のバリデーションエラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  fmt.Sprintf("入力値が不正です: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}

// NewInvalidRequestError はリクエストボディの解析に失敗した場合のエラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// NewMisconfiguredError はバックエンド資格情報が未設定の場合のエラーを生成する。
// 内部の詳細（どの環境変数が欠けているか等）は外部に漏らさない。
func NewMisconfiguredError() *APIError {
	return &APIError{
		Code:     ErrCodeMisconfigured,
		Message:  "サーバー設定エラーにより処理できません。",
		Category: "system",
		Action:   "管理者に連絡してください。",
	}
}

// NewInvalidSeedKeyError はシードキーが一致しない場合のエラーを生成する。
func NewInvalidSeedKeyError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidSeedKey,
		Message:  "シードキーが無効です。",
		Category: "auth",
		Action:   "正しいX-Seed-Keyヘッダーを指定してください。",
	}
}
