package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/xHacka/login-log-generator/internal/config"
	"github.com/xHacka/login-log-generator/internal/csrf"
	"github.com/xHacka/login-log-generator/internal/generator"
	"github.com/xHacka/login-log-generator/internal/models"
)

//go:embed web/index.html
var webFS embed.FS

// ParseTemplates loads the embedded form page.
func ParseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"percent": func(f float64) string {
			return fmt.Sprintf("%.0f%%", f*100)
		},
	}
	return template.New("").Funcs(funcMap).ParseFS(webFS, "web/index.html")
}

type FormHandler struct {
	Generator *generator.Generator
	Config    *config.Live
	Template  *template.Template
}

type FormPageData struct {
	CSRFToken       string
	Today           string
	MaxQuantity     int
	DefaultQuantity int
	DefaultBias     float64
	Compression     string
	Compressions    []string
}

func (h *FormHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cfg := h.Config.Get()
	maxQ := h.Generator.MaxQuantity()
	data := FormPageData{
		CSRFToken:       csrf.Token(r),
		Today:           time.Now().Format(models.DateLayout),
		MaxQuantity:     maxQ,
		DefaultQuantity: min(cfg.Generator.DefaultQuantity, maxQ),
		DefaultBias:     cfg.Generator.DefaultBias,
		Compression:     cfg.Export.Compression,
		Compressions:    []string{"none", "gzip", "zstd"},
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.Template.ExecuteTemplate(w, "index.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
