// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizer はメッセージの件名と本文からHTMLを取り除き、
// 画面にそのまま埋め込まれても安全なプレーンテキストにする。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer はプレーンテキストのサニタイズ機能のインターフェースを定義する。
// メッセージの保存前に使用される。
type TextSanitizer interface {
	// Sanitize は全てのタグを除去したテキストを返す。
	// 改行は保持し、前後の空白を取り除く。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerの実装。
// bluemondayのポリシーはスレッドセーフに共有できる。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerの新しいインスタンスを生成する。
// bluemondayのStrictPolicyで全てのタグと属性を除去する。
// script, styleの中身はタグごと破棄される。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はタグを除去し、エスケープされた文字を元に戻したテキストを返す。
// 結果はHTMLではなくテキストとして扱われるため、アンエスケープしてよい。
func (s *textSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	stripped := s.policy.Sanitize(raw)
	return strings.TrimSpace(html.UnescapeString(stripped))
}
