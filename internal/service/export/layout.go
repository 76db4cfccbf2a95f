package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"docmind/internal/domain/models"
)

// Page geometry, A4 portrait in millimeters.
const (
	pageWidth     = 210.0
	marginX       = 15.0
	contentWidth  = pageWidth - 2*marginX
	contentTop    = 30.0
	contentBottom = 270.0
	breakMargin   = 5.0

	coverTitleY = 60.0
	coverCountY = 72.0
	coverDateY  = 82.0
	coverTypeY  = 92.0
	coverListY  = 110.0
	coverStep   = 8.0

	blankStep   = 4.0
	bodyStep    = 5.0
	headingStep = 6.0
	headingGap  = 3.0
	bannerGap   = 26.0
)

const coverTitle = "Documentação de Código"

// ContentType selects which document field is exported.
type ContentType string

const (
	ContentFull    ContentType = "full"
	ContentSummary ContentType = "summary"
)

// Label is the human-readable banner text for the content type.
func (c ContentType) Label() string {
	if c == ContentSummary {
		return "Resumo"
	}
	return "Conteúdo completo"
}

// bodyFor picks the exported text. Summary exports fall back to the full
// content when no summary exists.
func (c ContentType) bodyFor(doc *models.Document) string {
	if c == ContentSummary && strings.TrimSpace(doc.Summary) != "" {
		return doc.Summary
	}
	return doc.Content
}

type opKind int

const (
	opCoverTitle opKind = iota
	opCoverLine
	opCoverItem
	opBanner
	opBannerMeta
	opTypeLabel
	opSeparator
	opHeading
	opBody
)

// drawOp is a single positioned draw instruction.
type drawOp struct {
	kind opKind
	text string
	y    float64
}

// page is a fully laid out page. headerTitle goes into the running header;
// it is generic on the cover and the document title on content pages.
type page struct {
	headerTitle string
	ops         []drawOp
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// layout performs the measuring pass. It walks every document and produces
// positioned pages without touching a real PDF document, so the total page
// count is known before anything is drawn.
func layout(docs []*models.Document, contentType ContentType, now time.Time) []page {
	// A throwaway instance provides font metrics for line wrapping.
	m := fpdf.New("P", "mm", "A4", "")
	m.AddPage()

	pages := []page{coverPage(docs, contentType, now)}

	for _, doc := range docs {
		cur := newContentPage(doc, contentType, false)
		y := contentTop + bannerGap

		body := blankRuns.ReplaceAllString(contentType.bodyFor(doc), "\n\n")

		for _, rawLine := range strings.Split(body, "\n") {
			line, isHeading := classifyLine(rawLine)
			if line == "" {
				y += blankStep
				continue
			}

			style, step, gap := opBody, bodyStep, 0.0
			if isHeading {
				style, step, gap = opHeading, headingStep, headingGap
				m.SetFont("Helvetica", "B", 12)
			} else {
				m.SetFont("Helvetica", "", 10)
			}

			y += gap
			for _, wrapped := range m.SplitText(line, contentWidth) {
				if y > contentBottom-breakMargin {
					pages = append(pages, cur)
					cur = newContentPage(doc, contentType, true)
					y = contentTop + bannerGap
				}
				cur.ops = append(cur.ops, drawOp{kind: style, text: wrapped, y: y})
				y += step
			}
		}

		pages = append(pages, cur)
	}

	return pages
}

func coverPage(docs []*models.Document, contentType ContentType, now time.Time) page {
	count := fmt.Sprintf("%d documentos", len(docs))
	if len(docs) == 1 {
		count = "1 documento"
	}

	p := page{
		headerTitle: coverTitle,
		ops: []drawOp{
			{kind: opCoverTitle, text: coverTitle, y: coverTitleY},
			{kind: opCoverLine, text: count, y: coverCountY},
			{kind: opCoverLine, text: now.Format("02/01/2006 15:04"), y: coverDateY},
			{kind: opCoverLine, text: contentType.Label(), y: coverTypeY},
		},
	}

	y := coverListY
	for i, doc := range docs {
		label := doc.Title
		if doc.Language != "" {
			label += " [" + doc.Language + "]"
		}
		p.ops = append(p.ops, drawOp{
			kind: opCoverItem,
			text: fmt.Sprintf("%d. %s", i+1, label),
			y:    y,
		})
		y += coverStep
	}
	return p
}

func newContentPage(doc *models.Document, contentType ContentType, continuation bool) page {
	banner := doc.Title
	if continuation {
		banner += " (continuação)"
	}

	meta := make([]string, 0, 2)
	if doc.Language != "" {
		meta = append(meta, doc.Language)
	}
	if !doc.CreatedAt.IsZero() {
		meta = append(meta, doc.CreatedAt.Format("02/01/2006"))
	}

	p := page{
		headerTitle: doc.Title,
		ops: []drawOp{
			{kind: opBanner, text: banner, y: contentTop},
			{kind: opTypeLabel, text: contentType.Label(), y: contentTop + 8},
			{kind: opSeparator, y: contentTop + 15},
		},
	}
	if len(meta) > 0 {
		p.ops = append(p.ops, drawOp{kind: opBannerMeta, text: strings.Join(meta, "  ·  "), y: contentTop + 8})
	}
	return p
}

// classifyLine strips Markdown decoration and decides whether the line reads
// as a section heading: shorter than 60 characters and either ending with a
// colon, entirely uppercase, or a single word.
func classifyLine(raw string) (string, bool) {
	line := strings.TrimSpace(raw)
	line = strings.TrimLeft(line, "#")
	line = strings.ReplaceAll(line, "**", "")
	line = strings.ReplaceAll(line, "`", "")
	line = strings.ReplaceAll(line, "#", "")
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}

	if len(line) < 60 {
		upper := strings.ToUpper(line)
		if strings.HasSuffix(line, ":") ||
			(upper == line && strings.ContainsAny(line, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")) ||
			!strings.Contains(line, " ") {
			return line, true
		}
	}
	return line, false
}
