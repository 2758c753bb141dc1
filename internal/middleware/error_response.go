package middleware

import (
	"html/template"
	"log/slog"
	"net/http"
)

// ErrorPage はエラーページに表示する内容。
type ErrorPage struct {
	StatusCode int
	Title      string
	Message    string
}

var errorPageTemplate = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
</head>
<body>
  <h1>{{.Title}}</h1>
  <p>{{.Message}}</p>
  <p><a href="/">Back to home</a></p>
</body>
</html>
`))

// WriteErrorPage はHTMLのエラーページを書き込む。
// メッセージはテンプレートでエスケープされる。
func WriteErrorPage(w http.ResponseWriter, page ErrorPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(page.StatusCode)
	if err := errorPageTemplate.Execute(w, page); err != nil {
		slog.Error("failed to render error page", slog.String("error", err.Error()))
	}
}

// WriteInternalServerError は内部サーバーエラーの汎用ページを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorPage(w, ErrorPage{
		StatusCode: http.StatusInternalServerError,
		Title:      "Something went wrong",
		Message:    "An unexpected error occurred. Please try again later.",
	})
}
