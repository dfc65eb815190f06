package source

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/atotto/clipboard"

	"github.com/victor-takai/ff12-augment-tool/internal/ui"
)

// SourceProvider reads augment selections from stdin or the clipboard.
type SourceProvider struct {
	stdin         *os.File
	readClipboard func() (string, error)
}

// New creates a new SourceProvider.
func New() *SourceProvider {
	return &SourceProvider{stdin: os.Stdin, readClipboard: clipboard.ReadAll}
}

// IsPiped reports whether stdin is a pipe or file rather than a terminal.
func (sp *SourceProvider) IsPiped() bool {
	stat, err := sp.stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// GetContent retrieves content from stdin (if piped) or, when fromClipboard
// is set, the clipboard. Otherwise it returns "".
func (sp *SourceProvider) GetContent(fromClipboard bool) (string, error) {
	if fromClipboard {
		ui.Header("--- Reading augments from clipboard ---")
		content, err := sp.readClipboard()
		if err != nil {
			return "", fmt.Errorf("failed to read from clipboard: %w", err)
		}
		if strings.TrimSpace(content) == "" {
			ui.Warning("Clipboard is empty.")
		}
		return content, nil
	}

	if sp.IsPiped() {
		ui.Header("--- Reading augments from stdin ---")
		content, err := io.ReadAll(sp.stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(content), nil
	}
	return "", nil
}

// Names splits free text into augment names. Names are separated by
// newlines, commas, semicolons or tabs; lines starting with # are comments.
func Names(content string) []string {
	var names []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ';' || r == '\t'
		})
		for _, f := range fields {
			f = strings.TrimFunc(f, unicode.IsSpace)
			if f != "" {
				names = append(names, f)
			}
		}
	}
	return names
}
