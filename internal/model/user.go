// Package model はドメインモデルを定義する。
package model

import "time"

// User はユーザー名とパスワードで認証するサービス利用ユーザーを表す。
// PasswordHashにはbcryptハッシュのみを保持し、平文パスワードは保持しない。
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session はクライアントごとのセッションを表す。
// ログイン前はUserIDがnilの匿名セッションとして発行される。
type Session struct {
	ID        string
	UserID    *string // 現在のユーザー。未ログインの場合はnil
	ExpiresAt time.Time
	CreatedAt time.Time
}

// HasCurrentUser はセッションにログイン済みユーザーが紐付いているかを返す。
func (s *Session) HasCurrentUser() bool {
	return s != nil && s.UserID != nil && *s.UserID != ""
}

// CreateStatus はユーザーストアの作成操作の結果種別を表す。
// 作成結果はこの閉じた集合のいずれかで表現し、
// それ以外の失敗（接続断など）はerrorとして返す。
type CreateStatus int

const (
	// CreateStatusUnknown はゼロ値。ストアが結果を設定しなかったことを示す。
	CreateStatusUnknown CreateStatus = iota
	// CreateStatusCreated はユーザーが作成されたことを示す。
	CreateStatusCreated
	// CreateStatusConflict はユーザー名またはメールアドレスの一意制約に違反したことを示す。
	CreateStatusConflict
	// CreateStatusInvalid はストア側のフィールド検証（CHECK制約等）に違反したことを示す。
	CreateStatusInvalid
)

// String はログ出力用の名前を返す。
func (s CreateStatus) String() string {
	switch s {
	case CreateStatusCreated:
		return "created"
	case CreateStatusConflict:
		return "conflict"
	case CreateStatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// CreateResult はユーザー作成の結果。
// StatusがCreateStatusInvalidの場合、Messageにストア自身の検証メッセージを格納する。
type CreateResult struct {
	Status  CreateStatus
	Message string
}
