package fetch

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// minReadableLength is the threshold below which extracted text is
// rejected as boilerplate rather than article content.
const minReadableLength = 100

// blockedDomains lists registrable domains we never fetch: pages that
// need JS, are rate-limited, paywalled, or carry no readable text.
var blockedDomains = map[string]bool{
	// Social media
	"twitter.com":    true,
	"x.com":          true,
	"reddit.com":     true,
	"old.reddit.com": true,
	"facebook.com":   true,
	"instagram.com":  true,
	// Video platforms
	"youtube.com": true,
	"youtu.be":    true,
	"vimeo.com":   true,
	"tiktok.com":  true,
	// Code hosting
	"github.com":    true,
	"gitlab.com":    true,
	"bitbucket.org": true,
	// Google services
	"docs.google.com":   true,
	"drive.google.com":  true,
	"sheets.google.com": true,
	// Paywalled sites
	"medium.com":         true,
	"bloomberg.com":      true,
	"wsj.com":            true,
	"nytimes.com":        true,
	"ft.com":             true,
	"economist.com":      true,
	"washingtonpost.com": true,
	// Professional networks
	"linkedin.com": true,
}

// blockedExtensions lists path suffixes that are never HTML articles.
var blockedExtensions = []string{
	// Documents
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	// Archives
	".zip", ".tar", ".gz", ".rar", ".7z",
	// Media
	".mp4", ".mp3", ".wav", ".avi", ".mov", ".mkv", ".webm",
	// Images
	".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp", ".bmp", ".ico",
}

// removeSelector matches elements stripped from pages before text
// extraction.
const removeSelector = "script, style, nav, header, footer, aside, iframe, noscript, svg, form, button"

// contentPattern matches class or id values that usually mark the main
// article container.
var contentPattern = regexp.MustCompile(`(?i)content|post|article|entry|story`)

// ExtractDomain returns the registrable domain of a URL with any "www."
// prefix stripped, or "" if the URL cannot be parsed.
func ExtractDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	domain := strings.ToLower(parsed.Host)
	return strings.TrimPrefix(domain, "www.")
}

// ShouldSkipURL decides whether a URL is worth fetching at all. The first
// matching rule wins and the returned reason names it.
func ShouldSkipURL(rawURL string) (bool, string) {
	if rawURL == "" {
		return true, "No URL provided"
	}

	if domain := ExtractDomain(rawURL); domain != "" && blockedDomains[domain] {
		return true, fmt.Sprintf("Blocked domain: %s", domain)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, ""
	}
	pathLower := strings.ToLower(parsed.Path)
	for _, ext := range blockedExtensions {
		if strings.HasSuffix(pathLower, ext) {
			return true, fmt.Sprintf("Blocked file type: %s", ext)
		}
	}

	return false, ""
}

// ExtractReadableText pulls the readable article text out of an HTML
// page. It strips non-content tags, picks the most likely main-content
// node, and cleans up whitespace. Returns "" when the page yields no
// meaningful text; malformed HTML degrades to "" rather than an error so
// one bad page can never break a batch.
func ExtractReadableText(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	doc.Find(removeSelector).Remove()

	main := findMainContent(doc)
	if main == nil || main.Length() == 0 {
		return ""
	}

	var b strings.Builder
	for _, node := range main.Nodes {
		collectText(node, &b)
	}

	cleaned := cleanText(b.String())
	if len(cleaned) < minReadableLength {
		return ""
	}
	return cleaned
}

// findMainContent tries, in order: <article>, <main>, an element whose
// class or id looks like an article container, then <body>.
func findMainContent(doc *goquery.Document) *goquery.Selection {
	if sel := doc.Find("article").First(); sel.Length() > 0 {
		return sel
	}
	if sel := doc.Find("main").First(); sel.Length() > 0 {
		return sel
	}

	candidate := doc.Find("[class],[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		if class, ok := s.Attr("class"); ok && contentPattern.MatchString(class) {
			return true
		}
		if id, ok := s.Attr("id"); ok && contentPattern.MatchString(id) {
			return true
		}
		return false
	}).First()
	if candidate.Length() > 0 {
		return candidate
	}

	if sel := doc.Find("body").First(); sel.Length() > 0 {
		return sel
	}
	return nil
}

// collectText appends every text node under n, one per line, so block
// boundaries become line breaks for cleanText to normalize.
func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			b.WriteString(text)
			b.WriteString("\n")
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

// cleanText collapses runs of horizontal whitespace and drops blank lines.
func cleanText(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// TruncateContent hard-cuts text at maxLen, then backtracks to the last
// sentence or line boundary when that boundary lies past the midpoint of
// the cut window. Heuristic only: the result is not guaranteed to end on
// a sentence.
func TruncateContent(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}

	// Back the cut up to a rune boundary so a multibyte character
	// straddling maxLen never leaves an invalid UTF-8 tail.
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	truncated := text[:cut]

	lastPeriod := strings.LastIndex(truncated, ". ")
	lastNewline := strings.LastIndex(truncated, "\n")

	boundary := lastPeriod
	if lastNewline > boundary {
		boundary = lastNewline
	}
	if boundary > maxLen/2 {
		return strings.TrimSpace(truncated[:boundary+1])
	}

	return strings.TrimSpace(truncated)
}
