// Package security はアプリケーションのセキュリティ機能を提供する。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer はユーザー入力の自由記述テキスト（住所、単位等）を無害化する。
// 記録はそのまま地図UIに表示されるため、保存前にHTMLをすべて除去する。
type TextSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerを生成する。
// StrictPolicyによりタグは一切許可しない。
func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はテキストからHTMLタグを除去し、前後の空白を取り除く。
// bluemondayはエンティティ化した出力を返すため、除去後に一度だけ復元する
// （"m³/day" のような単位表記を保つ）。
func (s *TextSanitizer) Sanitize(text string) string {
	cleaned := s.policy.Sanitize(text)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}
