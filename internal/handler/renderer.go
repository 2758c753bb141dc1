package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/hitoshi/basicauth/internal/middleware"
	"github.com/hitoshi/basicauth/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// ページ名
const (
	pageIndex       = "index"
	pageSignup      = "signup"
	pageLogin       = "login"
	pageMain        = "main"
	pageUserProfile = "user-profile"
)

var pageTitles = map[string]string{
	pageIndex:       "Home",
	pageSignup:      "Sign up",
	pageLogin:       "Log in",
	pageMain:        "Welcome",
	pageUserProfile: "Profile",
}

// PageData はテンプレートに渡す表示データ。
type PageData struct {
	Title        string
	CSRFToken    string
	ErrorMessage string

	// フォームの再表示用。パスワードは再表示しない。
	Username string
	Email    string

	// mainページで表示するログインユーザー
	User *model.User
	// プロフィールページで表示するセッションのユーザー。nilは未ログイン。
	UserInSession *model.User
}

// Renderer は埋め込みテンプレートからHTMLページを描画する。
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer は全ページのテンプレートを解析してRendererを生成する。
func NewRenderer() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageTitles))
	for page := range pageTitles {
		tmpl, err := template.New(page).ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		pages[page] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render はページを描画してレスポンスに書き込む。
// 描画に失敗した場合は汎用エラーページを返す。
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, statusCode int, page string, data PageData) {
	tmpl, ok := rd.pages[page]
	if !ok {
		slog.Error("unknown page template", slog.String("page", page))
		middleware.WriteInternalServerError(w)
		return
	}

	data.Title = pageTitles[page]
	data.CSRFToken = middleware.CSRFTokenFromRequest(r)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, page+".html", data); err != nil {
		slog.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		middleware.WriteInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	// ヘッダー送信後の書き込み失敗はクライアント切断がほとんどのためdebugで記録する
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("failed to write response",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
	}
}
