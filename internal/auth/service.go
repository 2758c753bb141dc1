// Package auth はユーザー登録、ログイン、セッションユーザーの参照を提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/basicauth/internal/metrics"
	"github.com/hitoshi/basicauth/internal/model"
	"github.com/hitoshi/basicauth/internal/repository"
)

// SessionAssigner はログイン成功時にセッションへユーザーを書き込む能力。
// ServiceはSessionRepositoryのうちこの操作だけを必要とする。
type SessionAssigner interface {
	AssignUser(ctx context.Context, sessionID, userID string) error
}

// RegisterInput はユーザー登録の入力値。
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	users    repository.UserRepository
	sessions SessionAssigner
	hasher   PasswordHasher
	metrics  metrics.MetricsCollector
}

// NewService はServiceを生成する。collectorがnilの場合はメトリクスを記録しない。
func NewService(
	users repository.UserRepository,
	sessions SessionAssigner,
	hasher PasswordHasher,
	collector metrics.MetricsCollector,
) *Service {
	if collector == nil {
		collector = metrics.Nop{}
	}
	return &Service{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		metrics:  collector,
	}
}

// Register は新規ユーザーを登録する。
// 入力不足・パスワードポリシー違反・一意制約違反・ストアの検証エラーは*model.APIErrorで返す。
// 一意性はストアの作成結果で判定し、事前の存在確認は行わない。
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		s.metrics.RecordSignup(metrics.SignupMissingFields)
		return nil, model.NewMissingFieldsError()
	}

	if !SatisfiesPasswordPolicy(in.Password) {
		s.metrics.RecordSignup(metrics.SignupPasswordPolicy)
		return nil, model.NewPasswordPolicyError()
	}

	start := time.Now()
	hash, err := s.hasher.Hash(ctx, in.Password)
	s.metrics.RecordPasswordHash(time.Since(start))
	if err != nil {
		s.metrics.RecordSignup(metrics.SignupError)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	result, err := s.users.Create(ctx, user)
	if err != nil {
		s.metrics.RecordSignup(metrics.SignupError)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	switch result.Status {
	case model.CreateStatusCreated:
		s.metrics.RecordSignup(metrics.SignupCreated)
		slog.Info("user registered",
			slog.String("user_id", user.ID),
			slog.String("username", user.Username),
		)
		return user, nil
	case model.CreateStatusConflict:
		s.metrics.RecordSignup(metrics.SignupDuplicate)
		return nil, model.NewDuplicateUserError()
	case model.CreateStatusInvalid:
		s.metrics.RecordSignup(metrics.SignupInvalid)
		return nil, model.NewStoreValidationError(result.Message)
	default:
		s.metrics.RecordSignup(metrics.SignupError)
		return nil, fmt.Errorf("unexpected create status: %s", result.Status)
	}
}

// Login はユーザー名とパスワードを検証し、成功時にセッションの現在のユーザーを設定する。
// セッションへの書き込みは成功時の1回だけで、失敗時はセッションを変更しない。
func (s *Service) Login(ctx context.Context, sess *model.Session, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		s.metrics.RecordLogin(metrics.LoginMissingFields)
		return nil, model.NewLoginMissingFieldsError()
	}
	if sess == nil {
		s.metrics.RecordLogin(metrics.LoginError)
		return nil, errors.New("session is required")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		s.metrics.RecordLogin(metrics.LoginError)
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		s.metrics.RecordLogin(metrics.LoginNotRegistered)
		return nil, model.NewUsernameNotRegisteredError()
	}

	ok, err := s.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		s.metrics.RecordLogin(metrics.LoginError)
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		s.metrics.RecordLogin(metrics.LoginIncorrectPassword)
		slog.Info("login rejected",
			slog.String("username", username),
			slog.String("reason", "incorrect_password"),
		)
		return nil, model.NewIncorrectPasswordError()
	}

	if err := s.sessions.AssignUser(ctx, sess.ID, user.ID); err != nil {
		s.metrics.RecordLogin(metrics.LoginError)
		return nil, fmt.Errorf("failed to assign session user: %w", err)
	}
	userID := user.ID
	sess.UserID = &userID

	s.metrics.RecordLogin(metrics.LoginSuccess)
	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}

// CurrentUser はセッションの現在のユーザーを返す。
// 未ログイン、または参照先ユーザーが存在しない場合は(nil, nil)を返す。セッションは変更しない。
func (s *Service) CurrentUser(ctx context.Context, sess *model.Session) (*model.User, error) {
	if !sess.HasCurrentUser() {
		return nil, nil
	}

	user, err := s.users.FindByID(ctx, *sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
