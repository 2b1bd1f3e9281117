package prompt

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	readmeFileName  = "README.md"
	readmeReadLimit = 2000
)

// ReadmeExcerpt extracts the project heading and the first description
// paragraph from dir's README.md, truncated to maxChars characters. The
// second return value reports whether the README could be read at all.
func ReadmeExcerpt(dir string, maxChars int) (string, bool) {
	path := filepath.Join(dir, readmeFileName)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}

	contents, err := readHead(path, readmeReadLimit)
	if err != nil {
		slog.Default().Warn("failed to read a README file",
			slog.String("path", path),
			slog.Any("error", err),
		)
		return "", false
	}

	lines := strings.Split(contents, "\n")

	// Project name is the first heading line
	var projectName string
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); strings.HasPrefix(trimmed, "#") {
			projectName = trimmed
			break
		}
	}

	// Description is the first paragraph after the heading
	var description strings.Builder
	started := false
	for _, line := range lines[1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if started {
				break
			}
			continue
		}
		if !started {
			if strings.HasPrefix(trimmed, "#") {
				continue
			}
			started = true
		}
		description.WriteString(trimmed)
		description.WriteString(" ")
	}

	result := strings.TrimSpace(projectName + "\n\n" + description.String())
	return truncate(result, maxChars), true
}

func readHead(path string, limit int64) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	contents, err := io.ReadAll(io.LimitReader(file, limit))
	if err != nil {
		return "", err
	}
	return string(contents), nil
}

func truncate(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars-3]) + "..."
}
