package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/go-termfmt"
)

// terminalFormatter formats answers as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = true
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(result *Result) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, result.Query)

	if result.Answer.Parsed {
		f.writeStructuredAnswer(&b, result)
	} else {
		f.writeRawAnswer(&b, result)
	}

	f.writeRetrieved(&b, result.Answer.Retrieved)
	fmt.Fprintf(&b, "answered in %s\n", result.Answer.Elapsed.Round(time.Millisecond))

	return []byte(b.String()), nil
}

// writeHeader writes the query inside a box drawing header
func (f *terminalFormatter) writeHeader(b *strings.Builder, query string) {
	headerLen := len(query)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + query + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

// writeStructuredAnswer renders a parsed answer as a tree view
func (f *terminalFormatter) writeStructuredAnswer(b *strings.Builder, result *Result) {
	symbol := termfmt.GetEmoji("summary", f.opts)
	b.WriteString(symbol + " Answer\n")

	themes := make([]termfmt.TreeItem, 0, len(result.Answer.CommonThemes))
	for _, theme := range result.Answer.CommonThemes {
		themes = append(themes, termfmt.TreeItem{Label: theme})
	}

	items := []termfmt.TreeItem{
		{Label: "Item", Value: result.Answer.ItemName},
		{Label: "Common Themes", Children: themes, Last: true},
	}

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

// writeRawAnswer prints the generated text as-is when it did not parse
func (f *terminalFormatter) writeRawAnswer(b *strings.Builder, result *Result) {
	symbol := termfmt.GetEmoji("summary", f.opts)
	b.WriteString(symbol + " Answer\n")
	b.WriteString(result.Answer.Text + "\n\n")
}

// writeRetrieved lists the reviews the answer was grounded on
func (f *terminalFormatter) writeRetrieved(b *strings.Builder, reviews []string) {
	if len(reviews) == 0 {
		return
	}

	symbol := termfmt.GetEmoji("statistics", f.opts)
	fmt.Fprintf(b, "%s Reviews Used (%d)\n", symbol, len(reviews))

	for i, review := range reviews {
		if i == len(reviews)-1 {
			fmt.Fprintf(b, "└─ %s\n", review)
		} else {
			fmt.Fprintf(b, "├─ %s\n", review)
		}
	}
	b.WriteString("\n")
}
