package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// render is the drawing pass. With the page list complete, every page can
// carry the final "Página N de Total" header.
func render(pages []page, now time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	// Font dictionaries are emitted in map order unless the catalog is sorted,
	// which would make repeated exports differ byte for byte.
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetAutoPageBreak(false, 0)

	// Core fonts are cp1252; accented Portuguese text needs translating.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	total := len(pages)
	for i, p := range pages {
		pdf.AddPage()
		drawHeader(pdf, tr, p.headerTitle, i+1, total)
		for _, op := range p.ops {
			op.text = tr(op.text)
			draw(pdf, op)
		}
		drawFooter(pdf, tr, now)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawHeader(pdf *fpdf.Fpdf, tr func(string) string, title string, pageNum, total int) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginX, 10)
	pdf.CellFormat(contentWidth/2, 5, tr(title), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentWidth/2, 5, tr(fmt.Sprintf("Página %d de %d", pageNum, total)), "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func drawFooter(pdf *fpdf.Fpdf, tr func(string) string, now time.Time) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginX, 282)
	pdf.CellFormat(contentWidth/2, 5, tr("Gerado em "+now.Format("02/01/2006 15:04")), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentWidth/2, 5, tr("Sistema de Documentação"), "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func draw(pdf *fpdf.Fpdf, op drawOp) {
	switch op.kind {
	case opCoverTitle:
		pdf.SetFont("Helvetica", "B", 24)
		centered(pdf, op)
	case opCoverLine:
		pdf.SetFont("Helvetica", "", 12)
		pdf.SetTextColor(90, 90, 90)
		centered(pdf, op)
		pdf.SetTextColor(0, 0, 0)
	case opCoverItem:
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetXY(marginX+10, op.y)
		pdf.CellFormat(contentWidth-10, coverStep, op.text, "", 0, "L", false, 0, "")
	case opBanner:
		pdf.SetFillColor(230, 236, 245)
		pdf.Rect(marginX, op.y-6, contentWidth, 10, "F")
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetXY(marginX+2, op.y-5)
		pdf.CellFormat(contentWidth-4, 8, op.text, "", 0, "L", false, 0, "")
	case opBannerMeta:
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(90, 90, 90)
		pdf.SetXY(marginX+2, op.y)
		pdf.CellFormat(contentWidth/2, 5, op.text, "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	case opTypeLabel:
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(90, 90, 90)
		pdf.SetXY(marginX+contentWidth/2, op.y)
		pdf.CellFormat(contentWidth/2-2, 5, op.text, "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	case opSeparator:
		pdf.SetDrawColor(180, 180, 180)
		pdf.Line(marginX, op.y, pageWidth-marginX, op.y)
		pdf.SetDrawColor(0, 0, 0)
	case opHeading:
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(marginX, op.y)
		pdf.CellFormat(contentWidth, headingStep, op.text, "", 0, "L", false, 0, "")
	case opBody:
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(marginX, op.y)
		pdf.CellFormat(contentWidth, bodyStep, op.text, "", 0, "L", false, 0, "")
	}
}

func centered(pdf *fpdf.Fpdf, op drawOp) {
	pdf.SetXY(marginX, op.y)
	pdf.CellFormat(contentWidth, 10, op.text, "", 0, "C", false, 0, "")
}
