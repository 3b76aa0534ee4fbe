package fetcher

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// ExtractHTML returns the readable text of an HTML document.
//
// With a selector, the text of every matching element is joined in document
// order. Without one, Readability picks the main article; when it finds
// nothing the text of <body> minus scripts, styles and navigation is used.
func ExtractHTML(r io.Reader, pageURL *url.URL, selector string) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read html: %w", err)
	}

	if selector == "" {
		article, err := readability.FromReader(bytes.NewReader(raw), pageURL)
		if err == nil {
			if text := normalize(article.TextContent); text != "" {
				return text, nil
			}
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript, nav, header, footer").Remove()

	var parts []string
	if selector != "" {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			if t := normalize(s.Text()); t != "" {
				parts = append(parts, t)
			}
		})
	} else {
		parts = append(parts, normalize(doc.Find("body").Text()))
	}

	text := strings.TrimSpace(strings.Join(parts, "\n"))
	if text == "" {
		return "", ErrNoContent
	}
	return text, nil
}

// StripHTML returns the text of an HTML fragment such as a feed item body.
func StripHTML(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return normalize(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return normalize(fragment)
	}
	doc.Find("script, style").Remove()
	return normalize(doc.Text())
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
