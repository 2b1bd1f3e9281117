package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplate(t *testing.T) {
	tests := []struct {
		name         string
		missingFile  bool
		fileContents string

		want string
	}{
		{
			name:         "uses filesystem template when available",
			fileContents: "Custom template first line\nwith a second line",
			want:         "Custom template first line\nwith a second line",
		},
		{
			name:         "trims surrounding whitespace from the file",
			fileContents: "\n\n  Custom template  \n\n",
			want:         "Custom template",
		},
		{
			name:        "uses embedded template when file doesn't exist",
			missingFile: true,
			want:        strings.TrimSpace(fallbackSystemPrompt),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			templatePath := filepath.Join(t.TempDir(), TemplateFileName)
			if !tt.missingFile {
				require.NoError(t, os.WriteFile(templatePath, []byte(tt.fileContents), 0644))
			}

			got := LoadTemplate(templatePath)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string

		want string
	}{
		{
			name: "splices README context after the first template line",
			files: map[string]string{
				TemplateFileName: "First line\nSecond line",
				"README.md":      "# My Project\n\nA tool that does things.\n",
			},
			want: "First line\n\n" +
				"Project Context (extracted from README):\n# My Project\n\nA tool that does things.\n\n" +
				"Second line",
		},
		{
			name: "notes a missing README",
			files: map[string]string{
				TemplateFileName: "First line\nSecond line",
			},
			want: "First line\n\n" +
				"Note: README.md file could not be found. Ignoring project context.\n\n" +
				"Second line",
		},
		{
			name: "omits the context section for an empty README",
			files: map[string]string{
				TemplateFileName: "First line\nSecond line",
				"README.md":      "",
			},
			want: "First line\n\nSecond line",
		},
		{
			name: "handles a single-line template",
			files: map[string]string{
				TemplateFileName: "Only line",
			},
			want: "Only line\n\n" +
				"Note: README.md file could not be found. Ignoring project context.\n\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, contents := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644))
			}

			got := BuildSystemPrompt(dir)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildSystemPrompt_DefaultTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Widget\n\nTurns things into widgets.\n"), 0644))

	got := BuildSystemPrompt(dir)

	assert.True(t, strings.HasPrefix(got, "You are a senior developer assisting in backlog grooming.\n\n"))
	assert.Contains(t, got, "Project Context (extracted from README):\n# Widget\n\nTurns things into widgets.")
	assert.Contains(t, got, "Reply with JSON only.")
}
