package alert

import (
	"bytes"
	"fmt"
	"text/template"
)

// DefaultTemplateName identifies the built-in urgent donation appeal.
const DefaultTemplateName = "urgent-donation"

const defaultTemplateBody = `URGENT: {{.Facility}} needs {{.Group}} blood donors within {{.RadiusKm}} km.{{if .Note}} {{.Note}}{{end}} Please visit the blood bank if you can donate.`

// TemplateData feeds a donation appeal template.
type TemplateData struct {
	Facility string
	Group    string
	RadiusKm float64
	Note     string
}

// TemplateEngine renders named message templates.
type TemplateEngine struct {
	templates map[string]*template.Template
}

func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{templates: map[string]*template.Template{}}
	// The built-in template can only fail to parse if the literal above
	// is broken, which the tests would catch.
	_ = e.Register(DefaultTemplateName, defaultTemplateBody)
	return e
}

// Register parses and stores a template under name, replacing any
// previous registration.
func (e *TemplateEngine) Register(name, body string) error {
	t, err := template.New(name).Parse(body)
	if err != nil {
		return fmt.Errorf("parse template %q: %w", name, err)
	}
	e.templates[name] = t
	return nil
}

// Render executes the named template.
func (e *TemplateEngine) Render(name string, data TemplateData) (string, error) {
	t, ok := e.templates[name]
	if !ok {
		return "", fmt.Errorf("template %q not registered", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template %q: %w", name, err)
	}
	return buf.String(), nil
}
