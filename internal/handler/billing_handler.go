package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/careportal/internal/billing"
	"github.com/hitoshi/careportal/internal/model"
)

// BillingServiceInterface は請求ハンドラーが必要とするサービスインターフェース。
type BillingServiceInterface interface {
	Summary(ctx context.Context) (*billing.Summary, error)
	GetBill(ctx context.Context, billID string) (*model.Bill, error)
	GetPayment(ctx context.Context, paymentID string) (*model.Payment, error)
	Pay(ctx context.Context, userID, billID string, card model.CardDetails) (*billing.Receipt, error)
}

// BillingDocumentRenderer は請求書と領収書のPDFを生成する。
type BillingDocumentRenderer interface {
	BillStatement(w io.Writer, bill model.Bill, patient *model.User) error
	PaymentReceipt(w io.Writer, payment model.Payment, patient *model.User) error
	StatementFilename(bill model.Bill) string
	ReceiptFilename(payment model.Payment) string
}

// PatientFinder は出力帳票に載せる患者情報を取得する。
type PatientFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// BillingHandler は請求と支払のHTTPハンドラー。
type BillingHandler struct {
	service  BillingServiceInterface
	renderer BillingDocumentRenderer
	patients PatientFinder
}

// NewBillingHandler はBillingHandlerを生成する。
func NewBillingHandler(service BillingServiceInterface, renderer BillingDocumentRenderer, patients PatientFinder) *BillingHandler {
	return &BillingHandler{
		service:  service,
		renderer: renderer,
		patients: patients,
	}
}

// payRequest は支払リクエストのボディ。
type payRequest struct {
	CardNumber   string `json:"cardNumber"`
	Expiry       string `json:"expiry"`
	CVV          string `json:"cvv"`
	Owner        string `json:"owner"`
	Address      string `json:"address"`
	AgreeToTerms bool   `json:"agreeToTerms"`
}

// Summary は未払い請求と支払履歴を返す。
// GET /api/billing
func (h *BillingHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	summary, err := h.service.Summary(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Pay は請求を支払う。
// POST /api/billing/bills/{id}/pay
func (h *BillingHandler) Pay(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req payRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	receipt, err := h.service.Pay(r.Context(), userID, chi.URLParam(r, "id"), model.CardDetails{
		Number:       req.CardNumber,
		Expiry:       req.Expiry,
		CVV:          req.CVV,
		Owner:        req.Owner,
		Address:      req.Address,
		AgreeToTerms: req.AgreeToTerms,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// Statement は請求書PDFを返す。
// GET /api/billing/bills/{id}/statement.pdf
func (h *BillingHandler) Statement(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	bill, err := h.service.GetBill(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	patient, err := h.patients.FindByID(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.BillStatement(&buf, *bill, patient); err != nil {
		handleServiceError(w, fmt.Errorf("failed to render statement: %w", err))
		return
	}
	writeAttachment(w, "application/pdf", h.renderer.StatementFilename(*bill), buf.Bytes())
}

// Receipt は領収書PDFを返す。
// GET /api/billing/payments/{id}/receipt.pdf
func (h *BillingHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	payment, err := h.service.GetPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	patient, err := h.patients.FindByID(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.PaymentReceipt(&buf, *payment, patient); err != nil {
		handleServiceError(w, fmt.Errorf("failed to render receipt: %w", err))
		return
	}
	writeAttachment(w, "application/pdf", h.renderer.ReceiptFilename(*payment), buf.Bytes())
}

// writeAttachment はダウンロード用のレスポンスを書き込む。
func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Warn("failed to write attachment", slog.String("error", err.Error()))
	}
}
