package security

import (
	"testing"
)

// TestSanitize_PlainText はプレーンテキストがそのまま通過することを検証する。
func TestSanitize_PlainText(t *testing.T) {
	sanitizer := NewTextSanitizer()

	input := "東京都千代田区丸の内1-1-1"
	got := sanitizer.Sanitize(input)
	if got != input {
		t.Errorf("Sanitize(%q) = %q, expected unchanged", input, got)
	}
}

// TestSanitize_StripsAllTags は全てのHTMLタグが除去されることを検証する。
func TestSanitize_StripsAllTags(t *testing.T) {
	sanitizer := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "scriptタグが除去される",
			input: `<script>alert('xss')</script>東京`,
			want:  "東京",
		},
		{
			name:  "imgタグが除去される",
			input: `<img src="x" onerror="alert(1)">大阪市北区`,
			want:  "大阪市北区",
		},
		{
			name:  "通常のタグも除去される",
			input: "<b>kWh</b>",
			want:  "kWh",
		},
		{
			name:  "aタグは中身のテキストのみ残る",
			input: `<a href="https://evil.example.com">福岡市</a>`,
			want:  "福岡市",
		},
		{
			name:  "iframeタグが除去される",
			input: `<iframe src="https://evil.example.com"></iframe>trees`,
			want:  "trees",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestSanitize_PreservesUnitNotation は単位表記の特殊文字が保持されることを検証する。
// bluemondayのエンティティエンコードを復元しないと "m³/day" が壊れる。
func TestSanitize_PreservesUnitNotation(t *testing.T) {
	sanitizer := NewTextSanitizer()

	tests := []string{
		"m³/day",
		"kWh",
		"tCO₂e",
		"L/日",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			got := sanitizer.Sanitize(input)
			if got != input {
				t.Errorf("Sanitize(%q) = %q, expected unchanged", input, got)
			}
		})
	}
}

// TestSanitize_TrimsWhitespace は前後の空白が除去されることを検証する。
func TestSanitize_TrimsWhitespace(t *testing.T) {
	sanitizer := NewTextSanitizer()

	got := sanitizer.Sanitize("  東京都  ")
	if got != "東京都" {
		t.Errorf("Sanitize(\"  東京都  \") = %q, want %q", got, "東京都")
	}
}

// TestSanitize_EmptyInput は空文字列の入力を安全に処理できることを検証する。
func TestSanitize_EmptyInput(t *testing.T) {
	sanitizer := NewTextSanitizer()

	got := sanitizer.Sanitize("")
	if got != "" {
		t.Errorf("Sanitize(\"\") = %q, expected empty string", got)
	}
}

// TestSanitize_TagOnlyInput はタグのみの入力が空文字列になることを検証する。
func TestSanitize_TagOnlyInput(t *testing.T) {
	sanitizer := NewTextSanitizer()

	got := sanitizer.Sanitize("<script>alert(1)</script>")
	if got != "" {
		t.Errorf("Sanitize(tag-only) = %q, expected empty string", got)
	}
}

// TestSanitize_Idempotent は同一入力に対して常に同一出力（冪等性）を検証する。
func TestSanitize_Idempotent(t *testing.T) {
	sanitizer := NewTextSanitizer()

	input := `<p>東京都</p> m³/day <script>x</script>`

	result1 := sanitizer.Sanitize(input)
	result2 := sanitizer.Sanitize(result1)

	if result1 != result2 {
		t.Errorf("冪等性違反: 1回目=%q, 二重=%q", result1, result2)
	}
}
