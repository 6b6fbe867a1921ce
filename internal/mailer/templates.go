package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template identifiers accepted by Render. Each maps to one file under
// templates/.
const (
	TemplateOrderCreatedAdmin    = "order_created_admin"
	TemplateOrderQuoted          = "order_quoted"
	TemplateSampleCreatedAdmin   = "sample_created_admin"
	TemplateSampleOutForDelivery = "sample_out_for_delivery"
	TemplateSampleDelivered      = "sample_delivered"
	TemplatePricingQuote         = "pricing_quote"
)

type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse mail templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// Render produces the HTML body for the given template id and data bag.
func (r *Renderer) Render(name string, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name+".html", data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}
