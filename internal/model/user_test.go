package model

import "testing"

func TestSession_HasCurrentUser(t *testing.T) {
	userID := "user-1"
	empty := ""

	tests := []struct {
		name    string
		session *Session
		want    bool
	}{
		{"nil session", nil, false},
		{"anonymous session", &Session{ID: "s1"}, false},
		{"empty user id", &Session{ID: "s1", UserID: &empty}, false},
		{"logged in", &Session{ID: "s1", UserID: &userID}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.HasCurrentUser(); got != tt.want {
				t.Errorf("HasCurrentUser() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ゼロ値のCreateResultは作成成功とみなされないこと
func TestCreateResult_ZeroValue_IsNotCreated(t *testing.T) {
	var result CreateResult
	if result.Status == CreateStatusCreated {
		t.Error("zero-value CreateResult must not report CreateStatusCreated")
	}
	if result.Status != CreateStatusUnknown {
		t.Errorf("Status = %v, want %v", result.Status, CreateStatusUnknown)
	}
}

func TestCreateStatus_String(t *testing.T) {
	tests := map[CreateStatus]string{
		CreateStatusCreated:  "created",
		CreateStatusConflict: "conflict",
		CreateStatusInvalid:  "invalid",
		CreateStatusUnknown:  "unknown",
		CreateStatus(99):     "unknown",
	}
	for status, want := range tests {
		if got := status.String(); got != want {
			t.Errorf("CreateStatus(%d).String() = %q, want %q", int(status), got, want)
		}
	}
}

// フォームに表示するメッセージが固定文言であることを検証する
func TestAPIError_FixedMessages(t *testing.T) {
	tests := []struct {
		err  *APIError
		code string
		msg  string
	}{
		{NewMissingFieldsError(), ErrCodeMissingFields, "All fields are mandatory. Please provide your username, email and password."},
		{NewPasswordPolicyError(), ErrCodePasswordPolicy, "Password needs to have at least 6 chars and must contain at least one number, one lowercase and one uppercase letter."},
		{NewDuplicateUserError(), ErrCodeDuplicateUser, "Username and email need to be unique. Either username or email is already used."},
		{NewLoginMissingFieldsError(), ErrCodeLoginMissingFields, "Please enter both username and password to login."},
		{NewUsernameNotRegisteredError(), ErrCodeUsernameNotRegistered, "Username not registered."},
		{NewIncorrectPasswordError(), ErrCodeIncorrectPassword, "Incorrect password."},
	}

	for _, tt := range tests {
		if tt.err.Code != tt.code {
			t.Errorf("Code = %q, want %q", tt.err.Code, tt.code)
		}
		if tt.err.Message != tt.msg {
			t.Errorf("Message = %q, want %q", tt.err.Message, tt.msg)
		}
	}
}

func TestNewStoreValidationError_UsesStoreMessage(t *testing.T) {
	err := NewStoreValidationError("Please use a valid email address.")
	if err.Message != "Please use a valid email address." {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Error() != "[STORE_VALIDATION] Please use a valid email address." {
		t.Errorf("Error() = %q", err.Error())
	}
}
