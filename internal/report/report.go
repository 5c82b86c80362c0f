// Package report は請求書・領収書・検査結果レポートのPDFおよびCSV出力を提供する。
package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"

	"github.com/hitoshi/careportal/internal/model"
)

// Format は検査結果レポートの出力形式。
type Format string

const (
	FormatPDF Format = "pdf"
	FormatCSV Format = "csv"
)

// ContentType は出力形式に対応するContent-Typeを返す。
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/pdf"
}

// ParseFormat はクエリ文字列を出力形式に変換する。空文字列はPDFとして扱う。
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPDF, nil
	case FormatPDF, FormatCSV:
		return f, nil
	default:
		return "", model.NewInvalidFilterError(s, "pdf, csv")
	}
}

// ReportOptions は検査結果レポートの出力内容。
type ReportOptions struct {
	Format             Format
	IncludeAnalytes    bool
	IncludeDoctorNotes bool
}

// ブランドカラー
var (
	brandBlue  = [3]int{30, 136, 229}
	headingInk = [3]int{30, 42, 74}
	bodyInk    = [3]int{80, 80, 80}
	sectionBg  = [3]int{240, 240, 240}
	footerInk  = [3]int{150, 150, 150}
	paidGreen  = [3]int{34, 197, 94}
	pendingAmb = [3]int{234, 179, 8}
	overdueRed = [3]int{239, 68, 68}
	outOfRange = [3]int{220, 38, 38}
)

// Renderer はPDFとCSVを生成する。
type Renderer struct {
	now   func() time.Time
	newID func() string
	// compress がfalseの場合PDFのストリームを圧縮しない
	compress bool
}

// NewRenderer はRendererを生成する。
func NewRenderer() *Renderer {
	return &Renderer{
		now:      time.Now,
		newID:    uuid.NewString,
		compress: true,
	}
}

// newDocument は共通ヘッダーとフッターを持つA4文書を生成する。
func (r *Renderer) newDocument(subtitle, footerNote string) (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetCreationDate(r.now())
	pdf.SetTitle("MyChart "+subtitle, true)
	pdf.AliasNbPages("{nb}")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	pdf.SetFooterFunc(func() {
		pdf.SetFont("Helvetica", "", 8)
		setText(pdf, footerInk)
		pdf.SetXY(0, pageH-13)
		pdf.CellFormat(pageW, 4, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 1, "C", false, 0, "")
		pdf.SetX(0)
		pdf.CellFormat(pageW, 4, tr(footerNote), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	// ヘッダー帯
	setFill(pdf, brandBlue)
	pdf.Rect(0, 0, pageW, 40, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.Text(20, 25, "MyChart")
	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(20, 33, tr(subtitle))

	pdf.SetY(50)
	return pdf, tr
}

// patientLines は患者名と生成日時を出力する。
func (r *Renderer) patientLines(pdf *fpdf.Fpdf, tr func(string) string, label string, patient *model.User) {
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 10)
	if patient != nil && patient.FirstName != "" && patient.LastName != "" {
		pdf.CellFormat(0, 7, tr("Patient: "+patient.FullName()), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 7, label+": "+r.now().Format("Jan 2, 2006, 3:04 PM"), "", 1, "L", false, 0, "")
	pdf.Ln(8)
}

// section は灰色の帯付き見出しを出力する。
func section(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pageW, _ := pdf.GetPageSize()
	setFill(pdf, sectionBg)
	setText(pdf, headingInk)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetX(15)
	pdf.CellFormat(pageW-30, 8, "  "+tr(title), "", 1, "L", true, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 10)
	setText(pdf, bodyInk)
}

// badge は状態を色付きの小さなラベルで出力する。
func badge(pdf *fpdf.Fpdf, text string, color [3]int) {
	setFill(pdf, color)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetX(20)
	pdf.CellFormat(25, 7, text, "", 1, "C", true, 0, "")
	pdf.Ln(8)
}

func detail(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetX(20)
	pdf.CellFormat(0, 7, tr(text), "", 1, "L", false, 0, "")
}

func setFill(pdf *fpdf.Fpdf, c [3]int) { pdf.SetFillColor(c[0], c[1], c[2]) }
func setText(pdf *fpdf.Fpdf, c [3]int) { pdf.SetTextColor(c[0], c[1], c[2]) }
func setDraw(pdf *fpdf.Fpdf, c [3]int) { pdf.SetDrawColor(c[0], c[1], c[2]) }

// longDate は "2025-09-12" や "2025-01-15T09:00:00" を "Friday, September 12, 2025" 形式にする。
func longDate(s string) string {
	t, ok := parseDate(s)
	if !ok {
		return "Invalid date"
	}
	return t.Format("Monday, January 2, 2006")
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", time.DateOnly} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func money(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

var whitespace = regexp.MustCompile(`\s+`)

// filename は空白をアンダースコアに置き換え、日付と拡張子を付けたファイル名を返す。
func filename(base, suffix string, at time.Time, ext string) string {
	return whitespace.ReplaceAllString(base, "_") + suffix + "_" + at.UTC().Format(time.DateOnly) + "." + ext
}
