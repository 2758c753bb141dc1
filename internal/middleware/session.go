// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/basicauth/internal/model"
)

const sessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// sessionContextKey はリクエストコンテキストにセッションを格納するためのキー。
var sessionContextKey = contextKey("session")

// SessionStore はセッションミドルウェアが必要とするセッションストアの操作。
// repository.SessionRepositoryの部分集合として定義する。
type SessionStore interface {
	Create(ctx context.Context, session *model.Session) error
	FindByID(ctx context.Context, id string) (*model.Session, error)
}

// SessionConfig はセッションCookieの設定。
type SessionConfig struct {
	MaxAge       int // セッション有効期間（秒）
	CookieSecure bool
	CookieDomain string
}

// NewSessionMiddleware はHTTP Only Cookieからセッションを読み込み、
// リクエストコンテキストに注入するミドルウェアを返す。
// Cookieが無い、またはセッションが期限切れの場合は匿名セッションを新規発行する。
// ストアの障害時は汎用エラーページを返す。
func NewSessionMiddleware(store SessionStore, config SessionConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var session *model.Session

			// 1. CookieのセッションIDでセッションを検索
			if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
				found, err := store.FindByID(r.Context(), cookie.Value)
				if err != nil {
					slog.Error("failed to find session",
						slog.String("error", err.Error()),
					)
					WriteInternalServerError(w)
					return
				}
				session = found
			}

			// 2. 有効なセッションが無ければ匿名セッションを発行
			if session == nil {
				created, err := createAnonymousSession(r.Context(), store, config)
				if err != nil {
					slog.Error("failed to create session",
						slog.String("error", err.Error()),
					)
					WriteInternalServerError(w)
					return
				}
				session = created
				setSessionCookie(w, session, config)
			}

			// 3. セッションをコンテキストに注入
			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), session)))
		})
	}
}

// SessionFromContext はリクエストコンテキストからセッションを取得する。
// セッションミドルウェアを通過していない場合はnilを返す。
func SessionFromContext(ctx context.Context) *model.Session {
	session, _ := ctx.Value(sessionContextKey).(*model.Session)
	return session
}

// ContextWithSession はコンテキストにセッションを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithSession(ctx context.Context, session *model.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// UserIDFromContext はリクエストコンテキストのセッションから現在のユーザーIDを取得する。
// 未ログインの場合はエラーを返す。
func UserIDFromContext(ctx context.Context) (string, error) {
	session := SessionFromContext(ctx)
	if !session.HasCurrentUser() {
		return "", fmt.Errorf("user ID not found in context")
	}
	return *session.UserID, nil
}

// createAnonymousSession は現在のユーザーを持たないセッションを作成し永続化する。
func createAnonymousSession(ctx context.Context, store SessionStore, config SessionConfig) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := time.Now()
	session := &model.Session{
		ID:        sessionID,
		ExpiresAt: now.Add(time.Duration(config.MaxAge) * time.Second),
		CreatedAt: now,
	}

	if err := store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

// setSessionCookie はセッションIDをHTTP Only Cookieに設定する。
func setSessionCookie(w http.ResponseWriter, session *model.Session, config SessionConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   config.CookieDomain,
		MaxAge:   config.MaxAge,
		HttpOnly: true,
		Secure:   config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
