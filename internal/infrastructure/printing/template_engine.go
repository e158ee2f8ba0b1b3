package printing

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"maps"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// TemplateEngine renders document templates with locale aware formatting
type TemplateEngine struct {
	lang    language.Tag
	printer *message.Printer
	caser   cases.Caser
	funcMap template.FuncMap
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithLanguage sets the formatting locale
func WithLanguage(tag language.Tag) TemplateEngineOption {
	return func(e *TemplateEngine) {
		e.lang = tag
	}
}

// NewTemplateEngine creates a template engine. The default locale is English.
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{lang: language.English}
	for _, opt := range opts {
		opt(e)
	}
	e.printer = message.NewPrinter(e.lang)
	e.caser = cases.Title(e.lang)

	e.funcMap = template.FuncMap{
		"formatMoney":    e.formatMoney,
		"formatQuantity": e.formatQuantity,
		"formatInt":      e.formatInt,
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"title":          e.titleCase,
		"statusText":     e.statusText,
		"upper":          strings.ToUpper,
		"shortID":        shortID,
		"sumField":       sumField,
		"add":            add,
		"default":        defaultFunc,
		"notEmpty":       notEmpty,
		"seq":            seq,
	}
	return e
}

// FuncMap returns a copy of the template function map
func (e *TemplateEngine) FuncMap() template.FuncMap {
	funcMap := make(template.FuncMap, len(e.funcMap))
	maps.Copy(funcMap, e.funcMap)
	return funcMap
}

// Parse compiles a template with the engine's functions
func (e *TemplateEngine) Parse(name, content string) (*template.Template, error) {
	if strings.TrimSpace(content) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse template "+name, err)
	}
	return tmpl, nil
}

// Execute renders a compiled template
func (e *TemplateEngine) Execute(ctx context.Context, tmpl *template.Template, data any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", NewRenderError(ErrCodeRenderTimeout, "rendering was cancelled", err)
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

// formatMoney groups thousands and fixes two decimals: 1234.5 -> "1,234.50"
func (e *TemplateEngine) formatMoney(v any) string {
	f, _ := toDecimal(v).Round(2).Float64()
	return e.printer.Sprint(number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// formatQuantity drops trailing zeros: 12.500 -> "12.5"
func (e *TemplateEngine) formatQuantity(v any) string {
	f, _ := toDecimal(v).Float64()
	return e.printer.Sprint(number.Decimal(f, number.MaxFractionDigits(4)))
}

func (e *TemplateEngine) formatInt(v any) string {
	return e.printer.Sprintf("%d", toDecimal(v).IntPart())
}

func (e *TemplateEngine) titleCase(s string) string {
	return e.caser.String(s)
}

// statusText turns a status key into a heading: "partial_delivery" -> "Partial Delivery"
func (e *TemplateEngine) statusText(status string) string {
	return e.caser.String(strings.ReplaceAll(strings.ToLower(status), "_", " "))
}

func formatDate(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDateTime(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

// shortID returns the first block of a UUID
func shortID(v any) string {
	var s string
	switch id := v.(type) {
	case uuid.UUID:
		s = id.String()
	case string:
		s = id
	default:
		return ""
	}
	if i := strings.IndexByte(s, '-'); i > 0 {
		return strings.ToUpper(s[:i])
	}
	return strings.ToUpper(s)
}

// sumField adds up one field over a slice of maps or structs
func sumField(slice any, field string) decimal.Decimal {
	total := decimal.Zero
	rv := reflect.ValueOf(slice)
	if rv.Kind() != reflect.Slice {
		return total
	}
	for i := 0; i < rv.Len(); i++ {
		item := reflect.Indirect(rv.Index(i))
		if item.Kind() == reflect.Interface {
			item = reflect.Indirect(item.Elem())
		}
		switch item.Kind() {
		case reflect.Map:
			if v := item.MapIndex(reflect.ValueOf(field)); v.IsValid() {
				total = total.Add(toDecimal(v.Interface()))
			}
		case reflect.Struct:
			if v := item.FieldByName(field); v.IsValid() {
				total = total.Add(toDecimal(v.Interface()))
			}
		}
	}
	return total
}

func add(a, b any) decimal.Decimal {
	return toDecimal(a).Add(toDecimal(b))
}

func defaultFunc(def, val any) any {
	if notEmpty(val) {
		return val
	}
	return def
}

func notEmpty(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return !rv.IsZero()
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func toDecimal(v any) decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero
		}
		return *val
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case float64:
		return decimal.NewFromFloat(val)
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

func toTime(v any) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return time.Time{}
		}
		return *val
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, val); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
