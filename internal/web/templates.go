package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"
)

//go:embed templates
var templateFS embed.FS

var funcMap = template.FuncMap{
	"FormatDateTime": formatDateTime,
	"TitleCase":      titleCase,
}

// formatDateTime accepts both time.Time and *time.Time so nullable
// timestamps render without special-casing in the templates.
func formatDateTime(v any) string {
	var t time.Time
	switch x := v.(type) {
	case time.Time:
		t = x
	case *time.Time:
		if x == nil {
			return "-"
		}
		t = *x
	default:
		return "-"
	}
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}

// titleCase turns a status value into a display label,
// e.g. "checked_in" -> "Checked In".
func titleCase(s string) string {
	words := strings.Split(strings.ReplaceAll(s, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// parseTemplates builds one template set per page, each combined with
// the shared layout.
func parseTemplates() (map[string]*template.Template, error) {
	pages, err := fs.Glob(templateFS, "templates/*/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}
	topLevel, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}
	for _, f := range topLevel {
		if path.Base(f) != "layout.html" {
			pages = append(pages, f)
		}
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		name := strings.TrimPrefix(page, "templates/")
		tmpl, err := template.New(name).Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := s.templates[name]
	if !ok {
		s.log.Error().Str("template", name).Msg("Template not found")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		s.log.Error().Err(err).Str("template", name).Msg("Failed to execute template")
	}
}
