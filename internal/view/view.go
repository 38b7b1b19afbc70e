// Package view renders the POS screens as server-side HTML.
//
// Every renderer is a pure function of its input. Interaction is delegated
// to callbacks owned by the caller.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("").
		Funcs(template.FuncMap{"price": FormatPrice}).
		ParseFS(templateFS, "templates/*.html"),
)

func render(w io.Writer, name string, data any) error {
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}
	return nil
}

// FormatPrice formats an amount as dollars with two decimal places, e.g. $3.50.
// Amounts that round to zero print without a sign.
func FormatPrice(amount float64) string {
	digits := fmt.Sprintf("%.2f", math.Abs(amount))
	if amount < 0 && digits != "0.00" {
		return "-$" + digits
	}
	return "$" + digits
}
