package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name        string
		req         Request
		wantErr     error
		checkOutput func(t *testing.T, prompt string)
	}{
		{
			name: "objective and target URL are embedded in tagged sections",
			req: Request{
				Objective: "Search for wireless headphones on the site",
				TargetURL: "https://shop.example.com",
			},
			checkOutput: func(t *testing.T, prompt string) {
				assert.Contains(t, prompt, "<objective>")
				assert.Contains(t, prompt, "Search for wireless headphones on the site")
				assert.Contains(t, prompt, "</objective>")
				assert.Contains(t, prompt, "<target_url>")
				assert.Contains(t, prompt, "https://shop.example.com")
				assert.NotContains(t, prompt, "<credentials>")
			},
		},
		{
			name: "missing target URL falls back to objective extraction",
			req: Request{
				Objective: "Log into github and open notifications",
			},
			checkOutput: func(t *testing.T, prompt string) {
				assert.Contains(t, prompt, "https://www.github.com")
			},
		},
		{
			name: "credentials are embedded sorted and flattened",
			req: Request{
				Objective: "Log in to the dashboard",
				TargetURL: "https://app.example.com",
				Credentials: map[string]string{
					"username": "tester",
					"password": "s3cret\nwith-newline",
				},
			},
			checkOutput: func(t *testing.T, prompt string) {
				assert.Contains(t, prompt, "<credentials>")
				assert.Contains(t, prompt, "username: tester")
				assert.Contains(t, prompt, "password: s3cret with-newline")
				assert.Less(t, strings.Index(prompt, "password:"), strings.Index(prompt, "username:"))
			},
		},
		{
			name: "control characters are stripped from objective",
			req: Request{
				Objective: "Check\x00 the \x1bhomepage of https://example.org",
			},
			checkOutput: func(t *testing.T, prompt string) {
				assert.Contains(t, prompt, "Check the homepage")
				assert.NotContains(t, prompt, "\x00")
			},
		},
		{
			name:    "empty objective is rejected",
			req:     Request{Objective: "   "},
			wantErr: ErrMissingObjective,
		},
		{
			name:    "oversized objective is rejected",
			req:     Request{Objective: strings.Repeat("a", maxObjectiveLength+1)},
			wantErr: ErrObjectiveTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt, err := BuildPrompt(tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, prompt, "<requirements>")
			assert.Contains(t, prompt, `"scenarios"`)
			if tt.checkOutput != nil {
				tt.checkOutput(t, prompt)
			}
		})
	}
}

func TestSanitizeObjective(t *testing.T) {
	got, err := SanitizeObjective("  search   for\tbooks  ")
	assert.NoError(t, err)
	assert.Equal(t, "search for books", got)
}
