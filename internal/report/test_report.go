package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/hitoshi/careportal/internal/model"
)

const reportFooter = "This report contains protected health information - Handle with care"

// TestReport は指定形式で検査結果レポートをwに書き出す。
func (r *Renderer) TestReport(w io.Writer, result model.TestResult, opts ReportOptions, patient *model.User) error {
	if opts.Format == FormatCSV {
		return r.TestReportCSV(w, result, opts, patient)
	}
	return r.TestReportPDF(w, result, opts, patient)
}

// TestReportPDF は検査結果レポートをPDFで書き出す。
// 範囲外の検査値は赤字で出力する。
func (r *Renderer) TestReportPDF(w io.Writer, result model.TestResult, opts ReportOptions, patient *model.User) error {
	pdf, tr := r.newDocument("Medical Test Report", reportFooter)
	r.patientLines(pdf, tr, "Report Generated", patient)

	section(pdf, tr, "Test Information")
	pdf.SetX(20)
	pdf.SetFont("Helvetica", "B", 12)
	setText(pdf, headingInk)
	pdf.CellFormat(0, 8, tr(result.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	setText(pdf, bodyInk)
	detail(pdf, tr, "Collection Date: "+longDate(result.CollectedDate))
	detail(pdf, tr, "Ordered By: "+result.OrderedBy)
	if result.Lab != "" {
		detail(pdf, tr, "Laboratory: "+result.Lab)
	}
	if result.LabLocation != "" {
		detail(pdf, tr, "Lab Location: "+result.LabLocation)
	}
	pdf.Ln(2)
	badge(pdf, string(result.Status), statusColor(result.Status))

	if opts.IncludeAnalytes && len(result.Analytes) > 0 {
		section(pdf, tr, "Test Results")

		pdf.SetX(20)
		pdf.SetFont("Helvetica", "B", 10)
		setFill(pdf, brandBlue)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(60, 8, "Analyte", "", 0, "L", true, 0, "")
		pdf.CellFormat(50, 8, "Result", "", 0, "L", true, 0, "")
		pdf.CellFormat(60, 8, "Reference Range", "", 1, "L", true, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		for i, a := range result.Analytes {
			fill := i%2 == 1
			pdf.SetFillColor(245, 247, 250)
			pdf.SetX(20)
			pdf.SetTextColor(50, 50, 50)
			pdf.CellFormat(60, 7, tr(a.Name), "", 0, "L", fill, 0, "")
			if a.OutOfRange {
				setText(pdf, outOfRange)
				pdf.SetFont("Helvetica", "B", 9)
			}
			pdf.CellFormat(50, 7, tr(a.Result), "", 0, "L", fill, 0, "")
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(50, 50, 50)
			pdf.CellFormat(60, 7, tr(a.Reference), "", 1, "L", fill, 0, "")
		}
		pdf.Ln(8)
	}

	if opts.IncludeDoctorNotes && result.DoctorNote != "" {
		if pdf.GetY() > 240 {
			pdf.AddPage()
		}
		section(pdf, tr, "Clinical Notes")
		pageW, _ := pdf.GetPageSize()
		pdf.SetFillColor(239, 246, 255)
		setDraw(pdf, brandBlue)
		pdf.SetLineWidth(0.5)
		pdf.SetX(20)
		pdf.MultiCell(pageW-40, 6, tr(result.DoctorNote), "1", "L", true)
	}

	return pdf.Output(w)
}

// TestReportCSV は検査結果レポートをCSVで書き出す。
// セクションごとに列数が異なるため、固定長のレコードにはしない。
func (r *Renderer) TestReportCSV(w io.Writer, result model.TestResult, opts ReportOptions, patient *model.User) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"MyChart Medical Test Report"},
		{"Generated: " + r.now().Format("Jan 2, 2006, 3:04 PM")},
	}
	if patient != nil && patient.FirstName != "" && patient.LastName != "" {
		rows = append(rows, []string{"Patient: " + patient.FullName()})
	}
	rows = append(rows,
		[]string{},
		[]string{"Test Information"},
		[]string{"Test Name", result.Name},
		[]string{"Collection Date", longDate(result.CollectedDate)},
		[]string{"Ordered By", result.OrderedBy},
		[]string{"Status", string(result.Status)},
	)
	if result.Lab != "" {
		rows = append(rows, []string{"Laboratory", result.Lab})
	}
	if result.LabLocation != "" {
		rows = append(rows, []string{"Lab Location", result.LabLocation})
	}
	rows = append(rows, []string{})

	if opts.IncludeAnalytes && len(result.Analytes) > 0 {
		rows = append(rows, []string{"Test Results"}, []string{"Analyte", "Result", "Reference Range"})
		for _, a := range result.Analytes {
			rows = append(rows, []string{a.Name, a.Result, a.Reference})
		}
		rows = append(rows, []string{})
	}

	if opts.IncludeDoctorNotes && result.DoctorNote != "" {
		rows = append(rows, []string{"Clinical Notes"}, []string{result.DoctorNote})
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv report: %w", err)
	}
	return nil
}

// ReportFilename は検査結果レポートのファイル名を返す。
func (r *Renderer) ReportFilename(result model.TestResult, format Format) string {
	return filename(result.Name, "", r.now(), string(format))
}

func statusColor(status model.TestResultStatus) [3]int {
	switch status {
	case model.TestResultStatusNormal:
		return paidGreen
	case model.TestResultStatusAbnormal:
		return overdueRed
	case model.TestResultStatusPending:
		return pendingAmb
	default:
		return footerInk
	}
}

