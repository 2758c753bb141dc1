// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// フォームに表示するメッセージと原因カテゴリを含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // フォームに表示するメッセージ
	Category string // カテゴリ: auth, validation
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeMissingFields         = "MISSING_FIELDS"
	ErrCodePasswordPolicy        = "PASSWORD_POLICY"
	ErrCodeDuplicateUser         = "DUPLICATE_USER"
	ErrCodeStoreValidation       = "STORE_VALIDATION"
	ErrCodeLoginMissingFields    = "LOGIN_MISSING_FIELDS"
	ErrCodeUsernameNotRegistered = "USERNAME_NOT_REGISTERED"
	ErrCodeIncorrectPassword     = "INCORRECT_PASSWORD"
)

// NewMissingFieldsError は登録フォームの必須項目不足エラーを生成する。
func NewMissingFieldsError() *APIError {
	return &APIError{
		Code:     ErrCodeMissingFields,
		Message:  "All fields are mandatory. Please provide your username, email and password.",
		Category: "validation",
		Action:   "ユーザー名、メールアドレス、パスワードをすべて入力してください。",
	}
}

// NewPasswordPolicyError はパスワードポリシー違反エラーを生成する。
func NewPasswordPolicyError() *APIError {
	return &APIError{
		Code:     ErrCodePasswordPolicy,
		Message:  "Password needs to have at least 6 chars and must contain at least one number, one lowercase and one uppercase letter.",
		Category: "validation",
		Action:   "6文字以上で、数字・小文字・大文字をそれぞれ1文字以上含めてください。",
	}
}

// NewDuplicateUserError はユーザー名またはメールアドレスの重複エラーを生成する。
func NewDuplicateUserError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateUser,
		Message:  "Username and email need to be unique. Either username or email is already used.",
		Category: "validation",
		Action:   "別のユーザー名またはメールアドレスを指定してください。",
	}
}

// NewStoreValidationError はストアが返したフィールド検証エラーを生成する。
// メッセージはストア自身のメッセージをそのまま使う。
func NewStoreValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeStoreValidation,
		Message:  message,
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}

// NewLoginMissingFieldsError はログインフォームの必須項目不足エラーを生成する。
func NewLoginMissingFieldsError() *APIError {
	return &APIError{
		Code:     ErrCodeLoginMissingFields,
		Message:  "Please enter both username and password to login.",
		Category: "validation",
		Action:   "ユーザー名とパスワードを入力してください。",
	}
}

// NewUsernameNotRegisteredError は未登録ユーザー名エラーを生成する。
func NewUsernameNotRegisteredError() *APIError {
	return &APIError{
		Code:     ErrCodeUsernameNotRegistered,
		Message:  "Username not registered.",
		Category: "auth",
		Action:   "ユーザー名を確認するか、新規登録してください。",
	}
}

// NewIncorrectPasswordError はパスワード不一致エラーを生成する。
func NewIncorrectPasswordError() *APIError {
	return &APIError{
		Code:     ErrCodeIncorrectPassword,
		Message:  "Incorrect password.",
		Category: "auth",
		Action:   "パスワードを確認してください。",
	}
}
