package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/bd2-crud/terceros/internal/shared"
	"github.com/bd2-crud/terceros/web"
)

// Date layouts used by the views. Records display day first; HTML date
// inputs exchange ISO dates.
const (
	DisplayDateLayout = "02/01/2006"
	InputDateLayout   = "2006-01-02"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	Lang        string
	CSRFToken   string
	Flashes     []shared.FlashMessage
	CurrentPath string
	Data        any
}

// NewEngine parses the embedded templates.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"displayDate": DisplayDate,
		"inputDate":   InputDate,
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template into a buffer and writes it with status.
// Nothing is written when execution fails, so the caller can still send an
// error page.
func (e *Engine) Render(w http.ResponseWriter, status int, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// DisplayDate formats a stored date as DD/MM/YYYY; nil renders empty.
func DisplayDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DisplayDateLayout)
}

// InputDate formats a stored date for an <input type="date"> value.
func InputDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(InputDateLayout)
}
