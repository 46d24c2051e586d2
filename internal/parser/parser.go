package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Document is a parsed input ready for outlining.
type Document struct {
	// Title comes from <title> when present, otherwise from the file name.
	Title string
	// Format is "html" or "markdown".
	Format string
	// Root is the document node returned by html.Parse.
	Root *html.Node
}

// Parser converts raw document bytes into an HTML element tree.
type Parser interface {
	Parse(r io.Reader, filename string) (*Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".html":     true,
	".htm":      true,
	".xhtml":    true,
	".md":       true,
	".markdown": true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm", ".xhtml":
		return &HTMLParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// ForFormat returns the parser for an explicit format name.
func ForFormat(format string) (Parser, error) {
	switch strings.ToLower(format) {
	case "html", "htm", "xhtml":
		return &HTMLParser{}, nil
	case "md", "markdown":
		return &MarkdownParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %q", format)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

func baseTitle(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
