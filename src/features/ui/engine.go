package ui

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/template/html/v2"
)

//go:embed views/*.html
var views embed.FS

// NewEngine creates the template engine for the embedded views.
func NewEngine(debug bool) *html.Engine {
	sub, err := fs.Sub(views, "views")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.Debug(debug)

	engine.AddFunc("percent", func(count, total int) int {
		if total == 0 {
			return 0
		}
		return count * 100 / total
	})
	engine.AddFunc("date", func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	})
	engine.AddFunc("add", func(a, b int) int {
		return a + b
	})
	return engine
}
