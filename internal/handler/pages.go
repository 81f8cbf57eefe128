package handler

import (
	"html/template"
	"log/slog"
	"net/http"
)

// pageTemplate はページシェルの共通テンプレート。
// 本体の描画はクライアント側が行うため、サーバーは骨格のみを返す。
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} | CarbonReg</title>
</head>
<body>
<div id="app" data-page="{{.Page}}"></div>
</body>
</html>
`))

// pageData はページシェルのテンプレートデータ。
type pageData struct {
	Title string
	Page  string
}

// PageHandler はページシェルのHTTPハンドラー。
// 認証ガードはルーティング層のミドルウェアが行う。
type PageHandler struct{}

// NewPageHandler はPageHandlerを生成する。
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Home はトップページ（地図表示）を返す。
// GET /
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	// chiのワイルドカードなしルートでも「/」以外が到達し得るため明示的に404を返す
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	renderPage(w, pageData{Title: "Map", Page: "home"})
}

// SignIn はサインインページを返す。
// GET /signin
func (h *PageHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	renderPage(w, pageData{Title: "Sign In", Page: "signin"})
}

// Profile はマイページ（自分の記録一覧）を返す。
// GET /profile
func (h *PageHandler) Profile(w http.ResponseWriter, r *http.Request) {
	renderPage(w, pageData{Title: "My Actions", Page: "profile"})
}

// staticPages は認証状態に依存しない公開ページの定義。
var staticPages = map[string]pageData{
	"/about":        {Title: "About", Page: "about"},
	"/how-it-works": {Title: "How It Works", Page: "how-it-works"},
	"/impact":       {Title: "Impact", Page: "impact"},
	"/pricing":      {Title: "Pricing", Page: "pricing"},
}

// Static は公開ページシェルを返す。
func (h *PageHandler) Static(w http.ResponseWriter, r *http.Request) {
	data, ok := staticPages[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	renderPage(w, data)
}

func renderPage(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		slog.Error("failed to render page", slog.String("error", err.Error()))
	}
}
