// Package ingest loads the behavioral prompt from an uploaded file.
package ingest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"voicebot_sim/pkg/core/utils"
)

// SupportedExtensions lists the prompt file types LoadPrompt accepts.
var SupportedExtensions = []string{".txt", ".md", ".markdown", ".html", ".htm"}

// LoadPrompt reads a behavioral prompt from a .txt, .md or .html file and
// returns it as plain text.
func LoadPrompt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file: %w", err)
	}
	return ParsePrompt(filepath.Base(path), data)
}

// ParsePrompt converts prompt file content to plain text based on the
// extension of name.
func ParsePrompt(name string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", "":
		return strings.TrimSpace(string(data)), nil
	case ".md", ".markdown":
		return utils.MarkdownToText(string(data)), nil
	case ".html", ".htm":
		return htmlToText(data)
	default:
		return "", fmt.Errorf("unsupported prompt file type %q (supported: %s)", filepath.Ext(name), strings.Join(SupportedExtensions, ", "))
	}
}

// htmlToText keeps the visible text of the document, one block per line.
func htmlToText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse html prompt: %w", err)
	}

	doc.Find("script, style, noscript, head").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, tr, h1, h2, h3, h4, h5, h6, pre, blockquote").Each(func(i int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}
