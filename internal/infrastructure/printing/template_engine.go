package printing

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"maps"
	"net/url"
	"strconv"
	"strings"

	"github.com/prodsheet/backend/internal/domain/order"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TemplateEngine parses and executes html/template documents with the
// formatting helpers sheet templates rely on.
type TemplateEngine struct {
	funcMap template.FuncMap
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithFuncs adds or overrides template functions
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) {
		maps.Copy(e.funcMap, funcs)
	}
}

// NewTemplateEngine creates a template engine with the default helpers
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{funcMap: template.FuncMap{
		"formatDate": order.FormatDate,
		"upper":      upperCase,
		"title":      titleCase,
		"default":    defaultString,
		"px":         px,
		"mm":         mm,
		"imageURL":   imageURL,
		"decimal":    formatDecimal,
		"add":        func(a, b int) int { return a + b },
		"sub":        func(a, b int) int { return a - b },
	}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Parse compiles a named template with the engine's functions
func (e *TemplateEngine) Parse(name, content string) (*template.Template, error) {
	if strings.TrimSpace(content) == "" {
		return nil, NewRenderError(ErrCodeInvalidTemplate, "template content is empty", nil)
	}
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidTemplate, "failed to parse template "+name, err)
	}
	return tmpl, nil
}

// Execute runs a parsed template against data
func (e *TemplateEngine) Execute(ctx context.Context, tmpl *template.Template, data any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "template rendering was cancelled", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template "+tmpl.Name(), err)
	}
	return buf.String(), nil
}

// RenderString parses and executes content in one step
func (e *TemplateEngine) RenderString(ctx context.Context, name, content string, data any) (string, error) {
	tmpl, err := e.Parse(name, content)
	if err != nil {
		return "", err
	}
	return e.Execute(ctx, tmpl, data)
}

// FuncMap returns a copy of the template function map
func (e *TemplateEngine) FuncMap() template.FuncMap {
	return maps.Clone(e.funcMap)
}

// Casers keep state and are not shared between goroutines.
func upperCase(s string) string {
	return cases.Upper(language.English).String(s)
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func defaultString(def, s string) string {
	if s == "" {
		return def
	}
	return s
}

func px(n int) template.CSS {
	return template.CSS(strconv.Itoa(n) + "px")
}

func mm(v float64) template.CSS {
	return template.CSS(strconv.FormatFloat(v, 'f', -1, 64) + "mm")
}

func formatDecimal(d decimal.Decimal, places int32) string {
	return d.StringFixed(places)
}

// imageURL admits http(s), relative and raster data:image URLs. Anything
// else renders as an empty source.
func imageURL(raw string) template.URL {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(s), "data:image/") {
		if isInlineImage(s) {
			return template.URL(s)
		}
		return ""
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https":
		return template.URL(u.String())
	}
	return ""
}

var inlineImageTypes = []string{"png", "jpeg", "jpg", "gif", "webp", "bmp"}

func isInlineImage(s string) bool {
	meta, _, ok := strings.Cut(s[len("data:image/"):], ",")
	if !ok {
		return false
	}
	kind, _, _ := strings.Cut(strings.ToLower(meta), ";")
	for _, t := range inlineImageTypes {
		if kind == t {
			return true
		}
	}
	return false
}

// mustParse is used for templates compiled into the binary.
func (e *TemplateEngine) mustParse(name, content string) *template.Template {
	tmpl, err := e.Parse(name, content)
	if err != nil {
		panic(fmt.Sprintf("printing: built-in template %s: %v", name, err))
	}
	return tmpl
}
