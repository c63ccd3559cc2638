package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promoforge/catalog"
	"promoforge/models"
)

func TestRender(t *testing.T) {
	got, err := Render("Promo {{ .project }} starts {{ .master_task }}", map[string]string{
		"project":     "SOL",
		"master_task": "2025-07-28",
	})

	require.NoError(t, err)
	assert.Equal(t, "Promo SOL starts 2025-07-28", got)
}

func TestRenderPlainTextPassesThrough(t *testing.T) {
	got, err := Render("no variables here, just [markup|https://x|smart-link]", nil)

	require.NoError(t, err)
	assert.Equal(t, "no variables here, just [markup|https://x|smart-link]", got)
}

func TestRenderMissingVariable(t *testing.T) {
	_, err := Render("deadline: {{ .nope }}", map[string]string{"project": "SOL"})

	var verr *VariableError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "nope", verr.Key)
}

func TestWithPlaceholdersTwoPassRender(t *testing.T) {
	vars := map[string]string{"project": "SOL"}

	// Pass one: link variables stay as literal tokens.
	passOne, err := Render("See {{ .email_task_link }} for {{ .project }}", WithPlaceholders(vars))
	require.NoError(t, err)
	assert.Equal(t, "See {{ .email_task_link }} for SOL", passOne)

	// Pass two: the pass-one output is itself a template.
	resolved := WithPlaceholders(vars)
	resolved["email_task_link"] = "[https://t/browse/PRMR-1|https://t/browse/PRMR-1|smart-link]"
	final, err := Render(passOne, resolved)
	require.NoError(t, err)
	assert.Equal(t, "See [https://t/browse/PRMR-1|https://t/browse/PRMR-1|smart-link] for SOL", final)
}

func TestWithPlaceholdersUnresolvedStaysLiteral(t *testing.T) {
	// A link variable whose task was never created re-renders to its own
	// token instead of failing.
	vars := WithPlaceholders(map[string]string{})

	passOne, err := Render("{{ .resize_task_link }}", vars)
	require.NoError(t, err)
	passTwo, err := Render(passOne, vars)
	require.NoError(t, err)

	assert.Equal(t, "{{ .resize_task_link }}", passTwo)
}

func TestRenderIdempotentWithResolvedLinks(t *testing.T) {
	resolved := WithPlaceholders(map[string]string{"project": "JET"})
	resolved["main_task"] = "[https://t/browse/PRMR-7|https://t/browse/PRMR-7|smart-link]"

	first, err := Render("main: {{ .main_task }} ({{ .project }})", resolved)
	require.NoError(t, err)
	second, err := Render(first, resolved)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func testProfile() catalog.Profile {
	return catalog.Profile{
		Name:       "email_task_link",
		Pattern:    "PRMR-11903",
		Project:    "PRMR",
		IssueType:  "Task",
		Components: []string{"Delivery"},
		Labels:     []string{"{{ .project }}"},
		Due:        "email_task",
		Fields: map[string]any{
			"customfield_10603": "{{ .email_task }}",
			"customfield_10617": []any{map[string]any{"value": "{{ .project }}"}},
		},
	}
}

func TestBuildPayload(t *testing.T) {
	content := models.PatternContent{
		Summary:     "[{{ .project }}] send mail by {{ .email_task }}",
		Description: "Blocked until {{ .main_task }} exists",
	}
	vars := WithPlaceholders(map[string]string{
		"project":    "SOL",
		"email_task": "2025-07-25",
	})

	payload, err := BuildPayload(testProfile(), content, vars, "acc-123", "2025-07-25")
	require.NoError(t, err)

	assert.Equal(t, "[SOL] send mail by 2025-07-25", payload.Summary)
	assert.Equal(t, "Blocked until {{ .main_task }} exists", payload.Description)
	assert.Equal(t, "PRMR", payload.Project)
	assert.Equal(t, "Task", payload.IssueType)
	assert.Equal(t, "2025-07-25", payload.DueDate)
	assert.Equal(t, []string{"SOL"}, payload.Labels)
	assert.Equal(t, "acc-123", payload.AssigneeID)
	assert.Equal(t, "2025-07-25", payload.Extra["customfield_10603"])
	assert.Equal(t,
		[]any{map[string]any{"value": "SOL"}},
		payload.Extra["customfield_10617"])
}

func TestBuildPayloadFreshPerCall(t *testing.T) {
	content := models.PatternContent{Summary: "{{ .project }}", Description: "d"}
	vars := WithPlaceholders(map[string]string{"project": "SOL", "email_task": "2025-07-25"})

	first, err := BuildPayload(testProfile(), content, vars, "", "2025-07-25")
	require.NoError(t, err)
	second, err := BuildPayload(testProfile(), content, vars, "", "2025-07-25")
	require.NoError(t, err)

	// Mutating one payload's extras must not leak into the other.
	first.Extra["customfield_10603"] = "changed"
	assert.Equal(t, "2025-07-25", second.Extra["customfield_10603"])
}

func TestBuildPayloadMissingVariable(t *testing.T) {
	content := models.PatternContent{Summary: "{{ .absent }}", Description: "d"}

	_, err := BuildPayload(testProfile(), content, WithPlaceholders(map[string]string{
		"project":    "SOL",
		"email_task": "2025-07-25",
	}), "", "")

	var verr *VariableError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "absent", verr.Key)
}

func TestBuildPayloadParentFromMeta(t *testing.T) {
	p := testProfile()
	p.ParentFromMeta = "parent"
	content := models.PatternContent{Summary: "s", Description: "d"}
	vars := WithPlaceholders(map[string]string{
		"project":    "SOL",
		"email_task": "2025-07-25",
		"parent":     "PRMR-100",
	})

	payload, err := BuildPayload(p, content, vars, "", "")
	require.NoError(t, err)

	assert.Equal(t, "PRMR-100", payload.ParentKey)
}
