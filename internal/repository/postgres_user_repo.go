package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/basicauth/internal/model"
	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
)

// ストアが返す検証メッセージ。制約名ごとに定義する。
var constraintMessages = map[string]string{
	"users_email_format":    "Please use a valid email address.",
	"users_username_length": "Username must be at most 50 characters long.",
}

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// Create はユーザーを作成する。
// ユーザー名・メールアドレスの一意性はUNIQUE制約で原子的に保証されるため、
// 事前の存在確認は行わずINSERTの結果で判定する。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) (model.CreateResult, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if result, ok := classifyCreateError(err); ok {
			return result, nil
		}
		return model.CreateResult{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return model.CreateResult{Status: model.CreateStatusCreated}, nil
}

// FindByUsername は指定ユーザー名のユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at, updated_at
		 FROM users WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}

	return user, nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at, updated_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return user, nil
}

// classifyCreateError はINSERT時のPostgreSQLエラーをCreateResultに変換する。
// 一意制約違反・検証違反以外のエラーの場合はfalseを返す。
func classifyCreateError(err error) (model.CreateResult, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return model.CreateResult{}, false
	}

	switch string(pqErr.Code) {
	case pgerrcode.UniqueViolation:
		return model.CreateResult{Status: model.CreateStatusConflict}, true
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		return model.CreateResult{
			Status:  model.CreateStatusInvalid,
			Message: validationMessage(pqErr),
		}, true
	default:
		return model.CreateResult{}, false
	}
}

// validationMessage は検証違反のメッセージを組み立てる。
func validationMessage(pqErr *pq.Error) string {
	if msg, ok := constraintMessages[pqErr.Constraint]; ok {
		return msg
	}
	if string(pqErr.Code) == pgerrcode.NotNullViolation && pqErr.Column != "" {
		return fmt.Sprintf("%s is required.", pqErr.Column)
	}
	return pqErr.Message
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
