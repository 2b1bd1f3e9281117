package prompt

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

//go:embed templates/system_prompt.txt
var fallbackSystemPrompt string

// TemplateFileName is the override file looked up in the working directory.
const TemplateFileName = "prompt.txt"

const readmeExcerptChars = 200

// LoadTemplate returns the prompt template from templatePath, falling back
// to the embedded default when the file is missing or unreadable.
func LoadTemplate(templatePath string) string {
	// First, try to read from the filesystem
	if _, err := os.Stat(templatePath); err == nil {
		contents, err := os.ReadFile(templatePath)
		if err == nil {
			return strings.TrimSpace(string(contents))
		}
		slog.Default().Warn("failed to read a templatePath",
			slog.String("templatePath", templatePath),
			slog.Any("error", err),
		)
	}

	// Fall back to embedded assets
	return strings.TrimSpace(fallbackSystemPrompt)
}

// BuildSystemPrompt assembles the system prompt for dir: the template
// (prompt.txt in dir, or the embedded default) with a project context
// section from dir's README.md spliced in after the first line.
func BuildSystemPrompt(dir string) string {
	template := LoadTemplate(filepath.Join(dir, TemplateFileName))

	excerpt, found := ReadmeExcerpt(dir, readmeExcerptChars)
	var contextSection string
	if found && excerpt != "" {
		contextSection = fmt.Sprintf("Project Context (extracted from README):\n%s\n\n", excerpt)
	} else if !found {
		contextSection = "Note: README.md file could not be found. Ignoring project context.\n\n"
	}

	firstLine, rest, ok := strings.Cut(template, "\n")
	if !ok {
		return template + "\n\n" + contextSection
	}
	return firstLine + "\n\n" + contextSection + rest
}
