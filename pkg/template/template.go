// Package template renders step parameters against the execution
// context's document using Go templates.
package template

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/linguaflow/linguaflow/pkg/execution"
)

// RenderContext renders a template string against a context's full
// document, plus the run's language pair under "source_language" and
// "target_language".
func RenderContext(input string, ec execution.Context) (any, error) {
	data := ec.Export()
	data["source_language"] = ec.SourceLanguage()
	data["target_language"] = ec.TargetLanguage()

	return Render(input, data)
}

// Render renders a template string against arbitrary data. Output that
// looks like a JSON object or array is decoded, so templates can produce
// structured values, not just strings.
func Render(templateStr string, data any) (any, error) {
	tmpl, err := template.
		New("step").
		Funcs(template.FuncMap{
			"now": func() string {
				return time.Now().UTC().Format(time.RFC3339)
			},
			"upper": strings.ToUpper,
			"lower": strings.ToLower,
			"trim":  strings.TrimSpace,
		}).Parse(templateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", templateStr, err)
	}

	var buf strings.Builder

	err = tmpl.Execute(&buf, data)
	if err != nil {
		return nil, fmt.Errorf("failed to execute template '%s': %w", templateStr, err)
	}

	result := strings.TrimSpace(buf.String())

	if (strings.HasPrefix(result, "{") && strings.HasSuffix(result, "}")) ||
		(strings.HasPrefix(result, "[") && strings.HasSuffix(result, "]")) {
		var jsonResult any
		if err := json.Unmarshal([]byte(result), &jsonResult); err == nil {
			return jsonResult, nil
		}
	}

	return result, nil
}
