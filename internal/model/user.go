// Package model はドメインモデルを定義する。
package model

import "time"

// Identity は外部IDプロバイダーで検証済みの呼び出し元を表す。
// プロバイダーが発行したIDトークンの検証結果としてのみ生成され、
// このシステム側では永続化しない。
type Identity struct {
	UserID string
	Email  string
}

// Session はユーザーのログインセッションを表す。
// IDは暗号的に安全な乱数由来の不透明な文字列で、Cookieにはこの値のみを保持する。
// 有効期限を過ぎたセッションは検索時にnil扱いとなる（能動的な掃除は行わない）。
type Session struct {
	ID        string
	UserID    string
	Email     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
