package model

import "time"

// ChangeEvent はドキュメントストアへの書き込みを通知するイベントを表す。
// Ownerが空の場合はグローバルキー（全ユーザー共有）への書き込みを表す。
type ChangeEvent struct {
	Collection string    `json:"collection"`
	Owner      string    `json:"owner,omitempty"`
	At         time.Time `json:"at"`
}
