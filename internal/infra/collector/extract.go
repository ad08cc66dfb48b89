package collector

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	gtext "github.com/yuin/goldmark/text"

	"medsum/internal/domain/entity"
)

// ErrInvalidEncoding is returned for documents that are not valid UTF-8.
// It wraps entity.ErrInvalidInput.
var ErrInvalidEncoding = fmt.Errorf("%w: document is not valid UTF-8", entity.ErrInvalidInput)

// Extractor turns raw file contents into plain text.
type Extractor func(data []byte) (string, error)

var extractors = map[string]Extractor{
	".txt":      extractPlain,
	".text":     extractPlain,
	".md":       extractMarkdown,
	".markdown": extractMarkdown,
	".html":     extractHTML,
	".htm":      extractHTML,
	".json":     extractJSON,
}

// SupportedExtensions returns the file extensions a Directory collects, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extractors))
	for ext := range extractors {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// IsSupported reports whether files named like name are collected from directories.
func IsSupported(name string) bool {
	_, ok := extractors[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Extract converts data to text using the extractor registered for the
// extension of name. Unknown extensions are read as plain text.
func Extract(name string, data []byte) (string, error) {
	extract, ok := extractors[strings.ToLower(filepath.Ext(name))]
	if !ok {
		extract = extractPlain
	}
	out, err := extract(data)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", name, err)
	}
	return out, nil
}

func extractPlain(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", ErrInvalidEncoding
	}
	return string(data), nil
}

// extractMarkdown walks the goldmark AST and keeps the text content,
// one block per paragraph.
func extractMarkdown(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrInvalidEncoding
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(gtext.NewReader(data))

	var sb strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			switch n.(type) {
			case *ast.ListItem, *ast.TextBlock, *east.TableRow, *east.TableHeader:
				ensureBreak(&sb, "\n")
			case *east.TableCell:
				sb.WriteString(" ")
			default:
				if n.Type() == ast.TypeBlock && n.Kind() != ast.KindDocument {
					ensureBreak(&sb, "\n\n")
				}
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			sb.Write(node.Segment.Value(data))
			if node.SoftLineBreak() || node.HardLineBreak() {
				sb.WriteString("\n")
			}
		case *ast.String:
			sb.Write(node.Value)
		case *ast.AutoLink:
			sb.Write(node.URL(data))
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				sb.Write(line.Value(data))
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", fmt.Errorf("walk markdown: %w", err)
	}

	return strings.TrimSpace(sb.String()), nil
}

var htmlBlockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "li": true,
	"main": true, "nav": true, "ol": true, "p": true, "pre": true,
	"section": true, "table": true, "tr": true, "ul": true,
}

var htmlParagraphElements = map[string]bool{
	"blockquote": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "ol": true, "p": true, "pre": true,
	"table": true, "ul": true,
}

// extractHTML returns the visible text of an HTML document with block
// elements on their own lines.
func extractHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("head, script, style, noscript, template").Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	var sb strings.Builder
	writeHTMLText(&sb, root)
	return strings.TrimSpace(sb.String()), nil
}

func writeHTMLText(sb *strings.Builder, sel *goquery.Selection) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		switch {
		case name == "#text":
			writeInline(sb, s.Text())
		case name == "br":
			sb.WriteString("\n")
		case name == "td" || name == "th":
			writeHTMLText(sb, s)
			sb.WriteString(" ")
		case htmlBlockElements[name]:
			ensureBreak(sb, "\n")
			writeHTMLText(sb, s)
			if htmlParagraphElements[name] {
				ensureBreak(sb, "\n\n")
			} else {
				ensureBreak(sb, "\n")
			}
		case strings.HasPrefix(name, "#"):
			// comments and doctype
		default:
			writeHTMLText(sb, s)
		}
	})
}

// writeInline writes s with inner whitespace collapsed, keeping a single
// separating space where s started or ended with whitespace.
func writeInline(sb *strings.Builder, s string) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" && !endsWithSpace(sb) {
			sb.WriteString(" ")
		}
		return
	}
	first, _ := utf8.DecodeRuneInString(s)
	if unicode.IsSpace(first) && !endsWithSpace(sb) {
		sb.WriteString(" ")
	}
	sb.WriteString(strings.Join(fields, " "))
	last, _ := utf8.DecodeLastRuneInString(s)
	if unicode.IsSpace(last) {
		sb.WriteString(" ")
	}
}

func endsWithSpace(sb *strings.Builder) bool {
	s := sb.String()
	if s == "" {
		return true
	}
	last, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(last)
}

// ensureBreak makes the builder end with at least the given run of newlines.
// Nothing is written at the very start of the output.
func ensureBreak(sb *strings.Builder, brk string) {
	s := strings.TrimRight(sb.String(), " \t")
	if s == "" {
		return
	}
	if len(s) != sb.Len() {
		sb.Reset()
		sb.WriteString(s)
	}
	trailing := len(s) - len(strings.TrimRight(s, "\n"))
	for i := trailing; i < len(brk); i++ {
		sb.WriteString("\n")
	}
}

// extractJSON flattens a JSON document into "path: value" lines, e.g. an EHR export.
func extractJSON(data []byte) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("%w: invalid JSON document", entity.ErrInvalidInput)
	}

	var lines []string
	var walk func(path string, value gjson.Result)
	walk = func(path string, value gjson.Result) {
		switch {
		case value.IsObject():
			value.ForEach(func(key, v gjson.Result) bool {
				walk(joinPath(path, key.String()), v)
				return true
			})
		case value.IsArray():
			for i, item := range value.Array() {
				walk(fmt.Sprintf("%s[%d]", path, i), item)
			}
		case value.Type == gjson.Null:
		default:
			if path == "" {
				lines = append(lines, value.String())
				return
			}
			lines = append(lines, path+": "+value.String())
		}
	}
	walk("", gjson.ParseBytes(data))

	return strings.Join(lines, "\n"), nil
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
