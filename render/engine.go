// Package render turns pattern content mined from reference tickets into
// concrete field payloads. Rendering is strict: a variable the context cannot
// supply fails the render with a VariableError instead of emitting an empty
// string.
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"promoforge/catalog"
	"promoforge/models"
)

// LinkPlaceholders are the reserved variables that cannot be resolved during
// the first render pass because they refer to tickets that do not exist yet.
// Pass one substitutes each with a literal token; once every ticket is
// created the same content is rendered again with the real smart links.
var LinkPlaceholders = []string{
	"main_task",
	"email_task_link",
	"resize_task_link",
	"replacement_task_link",
	"task_translate_link",
}

// VariableError reports a template variable missing from the render context.
type VariableError struct {
	Key string
	err error
}

func (e *VariableError) Error() string {
	return fmt.Sprintf("template variable %q is not defined", e.Key)
}

func (e *VariableError) Unwrap() error { return e.err }

var missingKeyRe = regexp.MustCompile(`no entry for key "([^"]+)"`)

// Render executes text as a template against vars. Unknown variables fail
// with a VariableError naming the missing key.
func Render(text string, vars map[string]string) (string, error) {
	tmpl, err := template.New("pattern").
		Option("missingkey=error").
		Funcs(sprig.FuncMap()).
		Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse pattern content: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		if m := missingKeyRe.FindStringSubmatch(err.Error()); m != nil {
			return "", &VariableError{Key: m[1], err: err}
		}
		return "", fmt.Errorf("render pattern content: %w", err)
	}
	return buf.String(), nil
}

// WithPlaceholders returns a copy of vars in which every reserved link
// variable resolves to its own literal token, so the pass-one output remains
// a renderable template for the finalization pass.
func WithPlaceholders(vars map[string]string) map[string]string {
	out := make(map[string]string, len(vars)+len(LinkPlaceholders))
	for k, v := range vars {
		out[k] = v
	}
	for _, key := range LinkPlaceholders {
		out[key] = "{{ ." + key + " }}"
	}
	return out
}

// BuildPayload renders one task type's full field payload from its pattern
// content and the variable context. A fresh payload is returned on every
// call; nothing is shared between profiles or phases.
func BuildPayload(p catalog.Profile, content models.PatternContent, vars map[string]string, assigneeID, dueDate string) (models.FieldPayload, error) {
	summary, err := Render(content.Summary, vars)
	if err != nil {
		return models.FieldPayload{}, fmt.Errorf("profile %s summary: %w", p.Name, err)
	}
	description, err := Render(content.Description, vars)
	if err != nil {
		return models.FieldPayload{}, fmt.Errorf("profile %s description: %w", p.Name, err)
	}

	labels := make([]string, 0, len(p.Labels))
	for _, l := range p.Labels {
		rendered, err := Render(l, vars)
		if err != nil {
			return models.FieldPayload{}, fmt.Errorf("profile %s label: %w", p.Name, err)
		}
		labels = append(labels, rendered)
	}

	extra, err := renderValue(p.Fields, vars)
	if err != nil {
		return models.FieldPayload{}, fmt.Errorf("profile %s fields: %w", p.Name, err)
	}
	extraMap, _ := extra.(map[string]any)

	payload := models.FieldPayload{
		Project:     p.Project,
		IssueType:   p.IssueType,
		Summary:     summary,
		Description: description,
		DueDate:     dueDate,
		Labels:      labels,
		AssigneeID:  assigneeID,
		Components:  append([]string(nil), p.Components...),
		Extra:       extraMap,
	}
	if p.ParentFromMeta != "" {
		payload.ParentKey = vars[p.ParentFromMeta]
	}
	return payload, nil
}

// renderValue walks an arbitrary YAML-shaped value and substitutes variables
// in every string leaf, returning a deep copy.
func renderValue(v any, vars map[string]string) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return Render(val, vars)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			rendered, err := renderValue(item, vars)
			if err != nil {
				return nil, err
			}
			out[k] = rendered
		}
		return out, nil
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			rendered, err := renderValue(item, vars)
			if err != nil {
				return nil, err
			}
			out = append(out, rendered)
		}
		return out, nil
	default:
		return val, nil
	}
}
