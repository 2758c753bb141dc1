// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/basicauth/internal/auth"
	"github.com/hitoshi/basicauth/internal/middleware"
	"github.com/hitoshi/basicauth/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Register(ctx context.Context, in auth.RegisterInput) (*model.User, error)
	Login(ctx context.Context, sess *model.Session, username, password string) (*model.User, error)
	CurrentUser(ctx context.Context, sess *model.Session) (*model.User, error)
}

// AuthHandler はユーザー登録・ログイン・プロフィールのHTTPハンドラー。
type AuthHandler struct {
	service  AuthServiceInterface
	renderer *Renderer
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, renderer *Renderer) *AuthHandler {
	return &AuthHandler{
		service:  service,
		renderer: renderer,
	}
}

// Index はトップページを表示する。
// GET /
func (h *AuthHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, pageIndex, PageData{})
}

// SignupForm は登録フォームを表示する。
// GET /signup
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, pageSignup, PageData{})
}

// Signup はユーザー登録を処理する。
// POST /signup
// 成功時は/userProfileにリダイレクトする。登録だけではログイン状態にならない。
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	in := auth.RegisterInput{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	if _, err := h.service.Register(r.Context(), in); err != nil {
		h.handleFormError(w, r, pageSignup, err, PageData{
			Username: in.Username,
			Email:    in.Email,
		})
		return
	}

	http.Redirect(w, r, "/userProfile", http.StatusFound)
}

// LoginForm はログインフォームを表示する。
// GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, pageLogin, PageData{})
}

// Login はログインを処理する。
// POST /login
// 成功時はセッションに現在のユーザーを設定し、mainページを表示する。
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		slog.Error("session missing from request context", slog.String("path", r.URL.Path))
		middleware.WriteInternalServerError(w)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.service.Login(r.Context(), sess, username, password)
	if err != nil {
		h.handleFormError(w, r, pageLogin, err, PageData{Username: username})
		return
	}

	h.renderer.Render(w, r, http.StatusOK, pageMain, PageData{User: user})
}

// UserProfile はセッションのユーザーのプロフィールを表示する。
// GET /userProfile
// 未ログインの場合はサインアウト状態のページを表示する。
func (h *AuthHandler) UserProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.CurrentUser(r.Context(), middleware.SessionFromContext(r.Context()))
	if err != nil {
		slog.Error("failed to load current user", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, pageUserProfile, PageData{UserInSession: user})
}

// handleFormError はサービス層のエラーをフォームの再表示または汎用エラーページに変換する。
func (h *AuthHandler) handleFormError(w http.ResponseWriter, r *http.Request, page string, err error, data PageData) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		data.ErrorMessage = apiErr.Message
		h.renderer.Render(w, r, mapAPIErrorToHTTPStatus(apiErr), page, data)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
// 登録の必須項目不足とログインの失敗はフォームの再表示として200を返す。
// 登録のポリシー違反・重複・ストア検証エラーは500を返す。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeMissingFields,
		model.ErrCodeLoginMissingFields,
		model.ErrCodeUsernameNotRegistered,
		model.ErrCodeIncorrectPassword:
		return http.StatusOK
	case model.ErrCodePasswordPolicy,
		model.ErrCodeDuplicateUser,
		model.ErrCodeStoreValidation:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
