package clean

import (
	"bytes"
	"fmt"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"csscleaner/config"
)

// Values are made available to output name template.
type Values struct {
	// Context is the name of configuration field being expanded
	Context string
	// SourceFile is base name of the stylesheet without extension
	SourceFile string
	// Dir is stylesheet directory relative to processed source
	Dir string
	// Removed is number of selectors removed from the stylesheet
	Removed int
	// RemovedRules is number of rules removed completely
	RemovedRules int
	// Ignored is number of selectors kept because of ignore rules or regions
	Ignored int
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values.Context = string(name)

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
