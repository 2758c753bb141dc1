package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/basicauth/internal/model"
	goredis "github.com/redis/go-redis/v9"
)

const (
	// Redisハッシュのフィールド名
	fieldUserID    = "user_id"
	fieldExpiresAt = "expires_at"
	fieldCreatedAt = "created_at"
)

// assignUserScript はキーが存在する場合のみuser_idを設定する。
// 存在確認と書き込みを1コマンドで行い、期限切れ直後にTTLなしのキーが作られないようにする。
var assignUserScript = goredis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
return 1
`)

// RedisSessionRepo はRedisを使用したセッションリポジトリ。
// セッションは session:{id} のハッシュに保存し、キーのTTLで期限切れを表現する。
type RedisSessionRepo struct {
	rdb *goredis.Client
}

// NewRedisSessionRepo はRedisSessionRepoを生成する。
func NewRedisSessionRepo(rdb *goredis.Client) *RedisSessionRepo {
	return &RedisSessionRepo{rdb: rdb}
}

// NewRedisClient はRedisの接続URL（例: "redis://localhost:6379/0"）からクライアントを生成する。
func NewRedisClient(redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return goredis.NewClient(opts), nil
}

// Create はセッションを作成する。
func (r *RedisSessionRepo) Create(ctx context.Context, session *model.Session) error {
	key := sessionKey(session.ID)
	fields := sessionToHash(session)

	_, err := r.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, key, fields)
		pipe.ExpireAt(ctx, key, session.ExpiresAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByID は指定IDのセッションを取得する。期限切れ（キーが存在しない）の場合はnilを返す。
func (r *RedisSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	values, err := r.rdb.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if len(values) == 0 {
		return nil, nil
	}

	session, err := sessionFromHash(id, values)
	if err != nil {
		return nil, err
	}
	if !session.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	return session, nil
}

// AssignUser はセッションの現在のユーザーを設定する。
func (r *RedisSessionRepo) AssignUser(ctx context.Context, sessionID, userID string) error {
	assigned, err := assignUserScript.Run(ctx, r.rdb, []string{sessionKey(sessionID)}, fieldUserID, userID).Int()
	if err != nil {
		return fmt.Errorf("failed to assign session user: %w", err)
	}
	if assigned == 0 {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	return nil
}

// DeleteExpired はRedisのTTLで期限切れキーが削除されるため何もしない。
func (r *RedisSessionRepo) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}

func sessionKey(id string) string {
	return "session:" + id
}

// sessionToHash はセッションをRedisハッシュのフィールドに変換する。
func sessionToHash(session *model.Session) map[string]interface{} {
	fields := map[string]interface{}{
		fieldExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339Nano),
		fieldCreatedAt: session.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if session.UserID != nil {
		fields[fieldUserID] = *session.UserID
	}
	return fields
}

// sessionFromHash はRedisハッシュからセッションを復元する。
func sessionFromHash(id string, values map[string]string) (*model.Session, error) {
	expiresAt, err := time.Parse(time.RFC3339Nano, values[fieldExpiresAt])
	if err != nil {
		return nil, fmt.Errorf("invalid session expires_at: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, values[fieldCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("invalid session created_at: %w", err)
	}

	session := &model.Session{
		ID:        id,
		ExpiresAt: expiresAt,
		CreatedAt: createdAt,
	}
	if userID, ok := values[fieldUserID]; ok && userID != "" {
		session.UserID = &userID
	}
	return session, nil
}

// compile-time interface check
var _ SessionRepository = (*RedisSessionRepo)(nil)
