// internal/web/templates.go
package web

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"
)

//go:embed templates
var templateFS embed.FS

// pages are the content templates; each is parsed together with the layout.
var pages = []string{
	"index", "buy", "sell", "quote", "quoted",
	"history", "login", "register", "apology",
}

var templateFuncs = template.FuncMap{
	"usd": usd,
}

// newTemplates parses one template set per page, each combined with the
// shared layout.
func newTemplates() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New(page).Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template '%s': %w", page, err)
		}
		templates[page] = t
	}
	return templates, nil
}

// usd formats a decimal amount as US dollars with thousands separators,
// e.g. 1234.5 renders as $1,234.50.
func usd(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := "$" + b.String() + "." + frac
	if d.IsNegative() {
		out = "-" + out
	}
	return out
}
