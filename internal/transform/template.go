package transform

import (
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Render executes text as a Go template named name with data as context.
// Sprig functions are available, e.g. {{ now | date "2006-01-02" }} for a
// build date in a banner. Text without "{{" is returned unchanged.
func Render(name, text string, data any) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}
	tmpl, err := template.New(name).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=zero").
		Parse(text)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
