package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOTPTemplate(t *testing.T) {
	body, err := renderTemplate(otpTemplate, map[string]any{
		"FirstName":  "Jane",
		"Code":       "482913",
		"TTLMinutes": 10,
	})
	require.NoError(t, err)

	assert.Contains(t, body, "Hi Jane,")
	assert.Contains(t, body, "482913")
	assert.Contains(t, body, "10 minutes")
}

func TestRenderResetTemplate(t *testing.T) {
	body, err := renderTemplate(resetTemplate, map[string]any{
		"FirstName": "Jane",
		"ResetURL":  "https://api.example.com/auth/reset-password/abc123",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "Hi Jane,")
	assert.Contains(t, body, `href="https://api.example.com/auth/reset-password/abc123"`)
	assert.Contains(t, body, "15 minutes")
}

func TestRenderTemplate_EscapesUserInput(t *testing.T) {
	body, err := renderTemplate(otpTemplate, map[string]any{
		"FirstName":  "<script>alert(1)</script>",
		"Code":       "482913",
		"TTLMinutes": 10,
	})
	require.NoError(t, err)

	assert.NotContains(t, body, "<script>")
}
