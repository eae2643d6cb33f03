package artifactstore

import (
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// characters that are illegal in filenames on at least one of the
// common filesystems
var illegalChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
var whitespaceRun = regexp.MustCompile(`\s+`)
var dotRun = regexp.MustCompile(`\.\.+`)

const maxFilenameLength = 180

// Sanitize turns an arbitrary display string into a name that is safe
// to use as a file or directory name.
func Sanitize(name string) string {
	s := illegalChars.ReplaceAllString(name, "_")
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = dotRun.ReplaceAllString(s, ".")
	s = strings.Trim(s, " .")
	if len(s) > maxFilenameLength {
		s = s[:maxFilenameLength]
	}
	return s
}

// Save writes content to <dir>/<filename>, creating parent directories
// as needed. An already existing target is left untouched and reported
// as skipped, it is never overwritten.
func Save(dir, filename, content string) (skipped bool, err error) {
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return false, err
	}

	path := filepath.Join(dir, filename)
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if !os.IsNotExist(err) {
		return false, err
	}

	return false, os.WriteFile(path, []byte(content), 0644)
}

// DeriveTitle returns the page <title> text, falling back to the
// readability-extracted title and finally to a name derived from the url.
func DeriveTitle(html string, pageURL string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		title := strings.TrimSpace(doc.Find("title").First().Text())
		if title != "" {
			return title
		}
	}

	parsed, _ := url.Parse(pageURL)
	if parsed != nil {
		article, err := readability.FromReader(strings.NewReader(html), parsed)
		if err == nil && strings.TrimSpace(article.Title) != "" {
			return strings.TrimSpace(article.Title)
		}
	}

	return titleFromURL(parsed, pageURL)
}

func titleFromURL(parsed *url.URL, raw string) string {
	if parsed == nil {
		return raw
	}
	base := filepath.Base(parsed.Path)
	if base != "" && base != "." && base != "/" {
		return base
	}
	if parsed.Host != "" {
		return parsed.Host
	}
	return raw
}

// ExtractText returns the readable text content of a page, or the raw
// input when extraction fails.
func ExtractText(html string, pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return html
	}
	article, err := readability.FromReader(strings.NewReader(html), parsed)
	if err != nil || strings.TrimSpace(article.TextContent) == "" {
		return html
	}
	return article.TextContent
}
