package parser

import (
	"fmt"
	"io"

	"github.com/rehierl/html-outliner/internal/dom"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := dom.Title(doc)
	if title == "" {
		title = baseTitle(filename)
	}
	return &Document{Title: title, Format: "html", Root: doc}, nil
}
