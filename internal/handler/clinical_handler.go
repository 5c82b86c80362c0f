package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/careportal/internal/medication"
	"github.com/hitoshi/careportal/internal/model"
	"github.com/hitoshi/careportal/internal/report"
	"github.com/hitoshi/careportal/internal/testresult"
)

// MedicationServiceInterface は処方薬ハンドラーが必要とするサービスインターフェース。
type MedicationServiceInterface interface {
	List(status model.MedicationStatus) *medication.Listing
	Get(id string) (*model.Medication, error)
}

// TestResultServiceInterface は検査結果ハンドラーが必要とするサービスインターフェース。
type TestResultServiceInterface interface {
	List(userID string, tab testresult.Tab) *testresult.Listing
	Get(userID, resultID string) (*model.TestResult, error)
}

// TestReportRenderer は検査結果レポートを生成する。
type TestReportRenderer interface {
	TestReport(w io.Writer, result model.TestResult, opts report.ReportOptions, patient *model.User) error
	ReportFilename(result model.TestResult, format report.Format) string
}

// ClinicalHandler は処方薬と検査結果のHTTPハンドラー。
type ClinicalHandler struct {
	medications MedicationServiceInterface
	results     TestResultServiceInterface
	renderer    TestReportRenderer
	patients    PatientFinder
}

// NewClinicalHandler はClinicalHandlerを生成する。
func NewClinicalHandler(
	medications MedicationServiceInterface,
	results TestResultServiceInterface,
	renderer TestReportRenderer,
	patients PatientFinder,
) *ClinicalHandler {
	return &ClinicalHandler{
		medications: medications,
		results:     results,
		renderer:    renderer,
		patients:    patients,
	}
}

// ListMedications は処方薬一覧を返す。
// GET /api/medications?status=active|needs-refill|discontinued
func (h *ClinicalHandler) ListMedications(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	status, err := medication.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.medications.List(status))
}

// GetMedication は処方薬の詳細を返す。
// GET /api/medications/{id}
func (h *ClinicalHandler) GetMedication(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	med, err := h.medications.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, med)
}

// ListTestResults は検査結果一覧を返す。
// GET /api/test-results?tab=all|abnormal|pending|archived
func (h *ClinicalHandler) ListTestResults(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	tab, err := testresult.ParseTab(r.URL.Query().Get("tab"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.results.List(userID, tab))
}

// GetTestResult は検査結果の詳細を返す。
// GET /api/test-results/{id}
func (h *ClinicalHandler) GetTestResult(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	result, err := h.results.Get(userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// TestReport は検査結果レポートをPDFまたはCSVで返す。
// 検査項目と医師コメントはクエリで省略できる（既定は両方含める）。
// GET /api/test-results/{id}/report?format=pdf|csv&analytes=&notes=
func (h *ClinicalHandler) TestReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	result, err := h.results.Get(userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	patient, err := h.patients.FindByID(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	opts := report.ReportOptions{
		Format:             format,
		IncludeAnalytes:    queryBool(r, "analytes", true),
		IncludeDoctorNotes: queryBool(r, "notes", true),
	}
	var buf bytes.Buffer
	if err := h.renderer.TestReport(&buf, *result, opts, patient); err != nil {
		handleServiceError(w, fmt.Errorf("failed to render test report: %w", err))
		return
	}
	writeAttachment(w, format.ContentType(), h.renderer.ReportFilename(*result, format), buf.Bytes())
}
