package extract

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"ddqcheck/internal/question"
)

// PDFSheet is the sheet name given to rows extracted from PDF files.
const PDFSheet = "PDF"

var (
	questionIDPattern = regexp.MustCompile(`\b(\d+(?:\.\d+)+)\b`)
	blankRun          = regexp.MustCompile(`[ \t]+`)
)

// LoadPDF extracts rows from the text of a PDF. Each page is rebuilt line by
// line from glyph positions and pages are joined with a newline.
func LoadPDF(path string, opts Options) ([]question.Row, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := pageText(page)
		if err != nil {
			return nil, fmt.Errorf("read pdf page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return ParsePDFText(strings.Join(pages, "\n"), opts.normalized().MaxRowsPerSheet), nil
}

type textLine struct {
	y     float64
	glyph []pdf.Text
}

// pageText groups the glyphs of a page by baseline, orders lines top to
// bottom and keeps content stream order within a line. Fonts without a
// Widths array report zero glyph width, so X alone cannot order a line.
func pageText(page pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed content: %v", r)
		}
	}()

	var lines []*textLine
	byY := make(map[float64]*textLine)
	for _, g := range page.Content().Text {
		if g.S == "\n" {
			continue
		}
		y := math.Round(g.Y)
		line, ok := byY[y]
		if !ok {
			line = &textLine{y: y}
			byY[y] = line
			lines = append(lines, line)
		}
		line.glyph = append(line.glyph, g)
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].y > lines[j].y })

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, joinGlyphs(line.glyph))
	}
	return strings.Join(out, "\n"), nil
}

// joinGlyphs inserts a space where a glyph starts visibly past the end of
// the previous one.
func joinGlyphs(glyphs []pdf.Text) string {
	var b strings.Builder
	for i, g := range glyphs {
		if i > 0 {
			prev := glyphs[i-1]
			gap := g.X - (prev.X + prev.W)
			if gap > prev.FontSize*0.2 && prev.S != " " && g.S != " " {
				b.WriteByte(' ')
			}
		}
		b.WriteString(g.S)
	}
	return b.String()
}

// ParsePDFText splits text on dotted question ids such as 4.1.9. Within each
// chunk the first line is the question and the last line the answer; a single
// line is treated as the answer.
func ParsePDFText(text string, maxRows int) []question.Row {
	text = blankRun.ReplaceAllString(text, " ")
	matches := questionIDPattern.FindAllStringSubmatchIndex(text, -1)

	rows := make([]question.Row, 0, len(matches))
	for i, m := range matches {
		idx := i + 1
		if maxRows > 0 && idx > maxRows {
			break
		}
		id := text[m[2]:m[3]]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		lines := nonEmptyLines(text[m[1]:end])

		var questionText, answer string
		switch len(lines) {
		case 0:
		case 1:
			answer = lines[0]
		default:
			questionText = lines[0]
			answer = lines[len(lines)-1]
		}
		rows = append(rows, question.NewRow(PDFSheet, idx, id, questionText, answer, ""))
	}
	return rows
}

func nonEmptyLines(chunk string) []string {
	raw := strings.FieldsFunc(chunk, func(r rune) bool { return r == '\n' || r == '\r' })
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
