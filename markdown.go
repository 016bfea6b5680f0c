package pdfredact

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/ivanvanderbyl/markdown"
)

// RenderMarkdown renders matches as a markdown report with one table per page.
// A match spanning several pages is listed under the first page it touches.
func RenderMarkdown(matches []RuleMatch) string {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	md.H1("Redaction candidates")
	md.LF()

	if len(matches) == 0 {
		md.PlainText("No matches found.")
		md.LF()
	}

	var pageOrder []int
	byPage := make(map[int][][]string)
	for i, m := range matches {
		page := 0
		if len(m.Region) > 0 {
			page = m.Region[0].Page
		}
		if _, seen := byPage[page]; !seen {
			pageOrder = append(pageOrder, page)
		}
		byPage[page] = append(byPage[page], matchRow(i+1, m))
	}

	for _, page := range pageOrder {
		if page == 0 {
			md.H2("Unplaced")
		} else {
			md.H2(fmt.Sprintf("Page %d", page))
		}
		md.LF()
		md.Table(markdown.TableSet{
			Header: []string{"#", "Rule", "Kind", "Text", "Zones"},
			Rows:   byPage[page],
		})
		md.LF()
	}

	if err := md.Build(); err != nil {
		// If there's an error building the markdown, fall back to empty string
		return ""
	}

	return buf.String()
}

func matchRow(index int, m RuleMatch) []string {
	kind := m.Kind
	if m.IsClue {
		kind += " (clue)"
	}

	// Table cells can't hold line or page breaks, or unescaped pipes
	text := strings.NewReplacer("\n", " ", "\f", " ", "|", `\|`).Replace(m.Text)

	zones := make([]string, len(m.Region))
	for i, z := range m.Region {
		r := z.Rect()
		zones[i] = fmt.Sprintf("p%d (%.1f,%.1f)-(%.1f,%.1f)", z.Page, r.X0, r.Y0, r.X1, r.Y1)
	}

	return []string{
		strconv.Itoa(index),
		m.Rule,
		kind,
		codeSpan(text),
		strings.Join(zones, "; "),
	}
}

// codeSpan wraps text in a code span. Backticks inside text need a longer
// fence, and a space of padding when they touch either end.
func codeSpan(text string) string {
	longest, run := 0, 0
	for _, r := range text {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	if longest == 0 {
		return markdown.Code(text)
	}

	fence := strings.Repeat("`", longest+1)
	if strings.HasPrefix(text, "`") || strings.HasSuffix(text, "`") {
		text = " " + text + " "
	}
	return fence + text + fence
}
