// Package model はドメインモデルを定義する。
package model

import "time"

// User はポータルを利用する患者を表す。
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Username     string // メールアドレスの@より前の部分
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName は表示用の氏名を返す。
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Session はユーザーのログインセッションを表す。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
