package scitalk

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

const (
	fontFamily      = "Nanum"
	regularFontFile = "NanumGothic.ttf"
	boldFontFile    = "NanumGothicBold.ttf"
)

// PDFExporter renders a finished session into a downloadable PDF. The Korean
// text needs a Unicode-capable embedded typeface; both Nanum variants are
// read once at startup and a missing font file is a deployment error, not a
// per-request one.
type PDFExporter struct {
	regular []byte
	bold    []byte
}

// NewPDFExporter loads the Nanum font files from fontDir.
func NewPDFExporter(fontDir string) (*PDFExporter, error) {
	regular, err := os.ReadFile(filepath.Join(fontDir, regularFontFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load export font: %w", err)
	}
	bold, err := os.ReadFile(filepath.Join(fontDir, boldFontFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load export font: %w", err)
	}
	return &PDFExporter{regular: regular, bold: bold}, nil
}

// Render lays the session out as a paginated A4 document and returns the
// complete PDF bytes. Pages break automatically at the bottom margin.
func (e *PDFExporter) Render(s *Session) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(fontFamily, "", e.regular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", e.bold)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 10, "SciTalk - 과학 수업 사고 확장 결과", "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont(fontFamily, "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("학년: %s", s.GradeLevel), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("과목명: %s", s.SubjectName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("수업 주제: %s", s.Topic), "", 1, "L", false, 0, "")
	pdf.Ln(10)

	e.section(pdf, "수업 관련 질문", s.GeneratedQuestion)
	e.section(pdf, "학생 답변", s.StudentAnswer)

	pdf.SetFont(fontFamily, "B", 14)
	pdf.CellFormat(0, 8, "학생이 했던 모든 질문과 AI 답변", "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 12)
	if len(s.FollowUps) == 0 {
		pdf.CellFormat(0, 8, "질문이 없습니다.", "", 1, "L", false, 0, "")
	} else {
		for i, followUp := range s.FollowUps {
			pdf.MultiCell(0, 8, fmt.Sprintf("%d. 질문: %s", i+1, followUp.Question), "", "L", false)
			pdf.MultiCell(0, 8, fmt.Sprintf("   답변: %s", followUp.Answer), "", "L", false)
			pdf.Ln(4)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) section(pdf *fpdf.Fpdf, title, body string) {
	pdf.SetFont(fontFamily, "B", 14)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 12)
	pdf.MultiCell(0, 8, body, "", "L", false)
	pdf.Ln(10)
}

// ExportFilename is the suggested download name for the session's document.
func ExportFilename(s *Session) string {
	return fmt.Sprintf("SciTalk_%s_%s_%s.pdf", s.GradeLevel, s.SubjectName, s.Topic)
}
