package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/windwardaviation/rescue10-aar/internal/config"
	"github.com/windwardaviation/rescue10-aar/internal/domain"
)

// Renderer turns a report snapshot into a paginated document.
type Renderer interface {
	Render(ctx context.Context, report domain.Report) ([]byte, error)
}

// noNotesPlaceholder is rendered when a section has no note at all.
// Whitespace-only notes are user input and render verbatim.
const noNotesPlaceholder = "No notes entered"

// PDF renders the report as a PDF document: product header, mission details,
// then every catalog section in fixed order with its notes.
type PDF struct {
	ProductName string
	Sections    []config.Section
}

// NewPDF builds a renderer over the static section catalog.
func NewPDF(cfg *config.Config) *PDF {
	return &PDF{ProductName: cfg.Product.Name, Sections: cfg.Sections}
}

func (p *PDF) Render(_ context.Context, report domain.Report) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(p.ProductName, true)
	doc.SetAutoPageBreak(true, 18)
	doc.AddPage()

	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFont("Helvetica", "B", 18)
	doc.SetTextColor(178, 34, 34)
	doc.CellFormat(0, 10, tr(p.ProductName), "", 1, "C", false, 0, "")
	doc.SetTextColor(0, 0, 0)
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 7, "MISSION DETAILS", "B", 1, "L", false, 0, "")
	doc.Ln(1)
	doc.SetFont("Helvetica", "", 11)
	p.detail(doc, tr, "Date", domain.DisplayDate(report.Date))
	p.detail(doc, tr, "Pilot", report.PilotName)
	p.detail(doc, tr, "Hoist Operator", report.HoistOperator)
	if report.CrewMembers != "" {
		p.detail(doc, tr, "Crew", report.CrewMembers)
	}
	doc.Ln(4)

	for i, section := range p.Sections {
		doc.SetFont("Helvetica", "B", 12)
		doc.CellFormat(0, 7, tr(fmt.Sprintf("%d. %s", i+1, section.Title)), "B", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "I", 9)
		doc.SetTextColor(90, 90, 90)
		doc.MultiCell(0, 4.5, tr(section.Description), "", "L", false)
		doc.SetTextColor(0, 0, 0)
		doc.Ln(1)

		notes := report.Sections[section.ID]
		if notes == "" {
			doc.SetFont("Helvetica", "I", 10)
			doc.SetTextColor(130, 130, 130)
			doc.MultiCell(0, 5, noNotesPlaceholder, "", "L", false)
			doc.SetTextColor(0, 0, 0)
		} else {
			doc.SetFont("Helvetica", "", 10)
			// MultiCell keeps the user's line breaks.
			doc.MultiCell(0, 5, tr(normalizeNewlines(notes)), "", "L", false)
		}
		doc.Ln(4)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (p *PDF) detail(doc *fpdf.Fpdf, tr func(string) string, label, value string) {
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(35, 6, label+":", "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 6, tr(value), "", 1, "L", false, 0, "")
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
