package httpserver

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
)

// RegisterStaticRoutes 挂载：
// - /web/* -> 前端静态文件
// - /      -> 跳转 /web/
// 目录不存在时只挂 API
func RegisterStaticRoutes(r chi.Router, webDir string) bool {
	if r == nil || webDir == "" {
		return false
	}
	if st, err := os.Stat(webDir); err != nil || !st.IsDir() {
		return false
	}

	r.Handle("/web/*", http.StripPrefix("/web/", http.FileServer(http.Dir(webDir))))
	r.Get("/web", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/web/", http.StatusFound)
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/web/", http.StatusFound)
	})
	return true
}
