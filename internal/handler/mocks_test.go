package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/careportal/internal/appointment"
	"github.com/hitoshi/careportal/internal/auth"
	"github.com/hitoshi/careportal/internal/billing"
	"github.com/hitoshi/careportal/internal/mailbox"
	"github.com/hitoshi/careportal/internal/medication"
	"github.com/hitoshi/careportal/internal/middleware"
	"github.com/hitoshi/careportal/internal/model"
	"github.com/hitoshi/careportal/internal/report"
	"github.com/hitoshi/careportal/internal/testresult"
)

// --- モック定義 ---

// mockAuthService はAuthServiceInterfaceとUserServiceInterfaceのモック実装。
type mockAuthService struct {
	registerFn       func(ctx context.Context, in auth.RegisterInput) (*auth.Result, error)
	loginFn          func(ctx context.Context, login, password string) (*auth.Result, error)
	logoutFn         func(ctx context.Context, sessionID string) error
	getCurrentUserFn func(ctx context.Context, sessionID string) (*model.User, error)
	tokenFn          func(raw string) (string, error)
	updateProfileFn  func(ctx context.Context, userID string, in auth.ProfileInput) (*model.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, in auth.RegisterInput) (*auth.Result, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, in)
	}
	return nil, errors.New("register not configured")
}

func (m *mockAuthService) Login(ctx context.Context, login, password string) (*auth.Result, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, login, password)
	}
	return nil, errors.New("login not configured")
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID)
	}
	return nil
}

func (m *mockAuthService) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if m.getCurrentUserFn != nil {
		return m.getCurrentUserFn(ctx, sessionID)
	}
	return nil, nil
}

func (m *mockAuthService) SessionIDFromToken(raw string) (string, error) {
	if m.tokenFn != nil {
		return m.tokenFn(raw)
	}
	return "", auth.ErrBadToken
}

func (m *mockAuthService) UpdateProfile(ctx context.Context, userID string, in auth.ProfileInput) (*model.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, userID, in)
	}
	return nil, errors.New("update profile not configured")
}

// mockAppointmentService はAppointmentServiceInterfaceのモック実装。
type mockAppointmentService struct {
	listFn       func(ctx context.Context, userID string) (*appointmentListResponse, error)
	getFn        func(ctx context.Context, userID, id string) (*appointmentDetailResponse, error)
	scheduleFn   func(ctx context.Context, userID string, in appointment.ScheduleInput) (*appointmentDetailResponse, error)
	cancelFn     func(ctx context.Context, userID, id string) (*appointmentDetailResponse, error)
	rescheduleFn func(ctx context.Context, userID, id, date, slot string) (*appointmentDetailResponse, error)
}

func (m *mockAppointmentService) List(ctx context.Context, userID string) (*appointmentListResponse, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return &appointmentListResponse{}, nil
}

func (m *mockAppointmentService) Get(ctx context.Context, userID, id string) (*appointmentDetailResponse, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID, id)
	}
	return nil, model.NewAppointmentNotFoundError(id)
}

func (m *mockAppointmentService) Schedule(ctx context.Context, userID string, in appointment.ScheduleInput) (*appointmentDetailResponse, error) {
	if m.scheduleFn != nil {
		return m.scheduleFn(ctx, userID, in)
	}
	return nil, errors.New("schedule not configured")
}

func (m *mockAppointmentService) Cancel(ctx context.Context, userID, id string) (*appointmentDetailResponse, error) {
	if m.cancelFn != nil {
		return m.cancelFn(ctx, userID, id)
	}
	return nil, model.NewAppointmentNotFoundError(id)
}

func (m *mockAppointmentService) Reschedule(ctx context.Context, userID, id, date, slot string) (*appointmentDetailResponse, error) {
	if m.rescheduleFn != nil {
		return m.rescheduleFn(ctx, userID, id, date, slot)
	}
	return nil, model.NewAppointmentNotFoundError(id)
}

func (m *mockAppointmentService) Catalog() appointment.Catalog {
	return appointment.DefaultCatalog()
}

// mockMessageService はMessageServiceInterfaceのモック実装。
type mockMessageService struct {
	listFn    func(ctx context.Context, userID string, box model.Mailbox) (*mailbox.Listing, error)
	messageFn func(op, userID, id string) (*model.Message, error)
	purgeFn   func(ctx context.Context, userID, id string) error
	sendFn    func(ctx context.Context, userID string, in mailbox.ComposeInput) (*model.Message, error)
	replyFn   func(ctx context.Context, userID, id, body string) (*model.Message, error)
}

func (m *mockMessageService) List(ctx context.Context, userID string, box model.Mailbox) (*mailbox.Listing, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, box)
	}
	return &mailbox.Listing{Mailbox: box, Messages: []model.Message{}}, nil
}

func (m *mockMessageService) single(op, userID, id string) (*model.Message, error) {
	if m.messageFn != nil {
		return m.messageFn(op, userID, id)
	}
	return nil, model.NewMessageNotFoundError(id)
}

func (m *mockMessageService) Get(_ context.Context, userID, id string) (*model.Message, error) {
	return m.single("get", userID, id)
}

func (m *mockMessageService) Open(_ context.Context, userID, id string) (*model.Message, error) {
	return m.single("open", userID, id)
}

func (m *mockMessageService) Delete(_ context.Context, userID, id string) (*model.Message, error) {
	return m.single("delete", userID, id)
}

func (m *mockMessageService) Restore(_ context.Context, userID, id string) (*model.Message, error) {
	return m.single("restore", userID, id)
}

func (m *mockMessageService) Purge(ctx context.Context, userID, id string) error {
	if m.purgeFn != nil {
		return m.purgeFn(ctx, userID, id)
	}
	return nil
}

func (m *mockMessageService) Send(ctx context.Context, userID string, in mailbox.ComposeInput) (*model.Message, error) {
	if m.sendFn != nil {
		return m.sendFn(ctx, userID, in)
	}
	return nil, errors.New("send not configured")
}

func (m *mockMessageService) Reply(ctx context.Context, userID, id, body string) (*model.Message, error) {
	if m.replyFn != nil {
		return m.replyFn(ctx, userID, id, body)
	}
	return nil, model.NewMessageNotFoundError(id)
}

func (m *mockMessageService) Recipients(query string) []model.Recipient {
	return mailbox.SearchRecipients(query)
}

// mockBillingService はBillingServiceInterfaceのモック実装。
type mockBillingService struct {
	summaryFn    func(ctx context.Context) (*billing.Summary, error)
	getBillFn    func(ctx context.Context, id string) (*model.Bill, error)
	getPaymentFn func(ctx context.Context, id string) (*model.Payment, error)
	payFn        func(ctx context.Context, userID, billID string, card model.CardDetails) (*billing.Receipt, error)
}

func (m *mockBillingService) Summary(ctx context.Context) (*billing.Summary, error) {
	if m.summaryFn != nil {
		return m.summaryFn(ctx)
	}
	return &billing.Summary{}, nil
}

func (m *mockBillingService) GetBill(ctx context.Context, id string) (*model.Bill, error) {
	if m.getBillFn != nil {
		return m.getBillFn(ctx, id)
	}
	return nil, model.NewBillNotFoundError(id)
}

func (m *mockBillingService) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	if m.getPaymentFn != nil {
		return m.getPaymentFn(ctx, id)
	}
	return nil, model.NewPaymentNotFoundError(id)
}

func (m *mockBillingService) Pay(ctx context.Context, userID, billID string, card model.CardDetails) (*billing.Receipt, error) {
	if m.payFn != nil {
		return m.payFn(ctx, userID, billID, card)
	}
	return nil, model.NewBillNotFoundError(billID)
}

// mockRenderer はBillingDocumentRendererとTestReportRendererのモック実装。
// 呼び出された帳票の種類と患者を記録する。
type mockRenderer struct {
	err         error
	lastKind    string
	lastPatient *model.User
	lastOpts    report.ReportOptions
}

func (m *mockRenderer) render(w io.Writer, kind string, patient *model.User) error {
	m.lastKind = kind
	m.lastPatient = patient
	if m.err != nil {
		return m.err
	}
	_, err := io.WriteString(w, "%PDF-"+kind)
	return err
}

func (m *mockRenderer) BillStatement(w io.Writer, bill model.Bill, patient *model.User) error {
	return m.render(w, "statement:"+bill.ID, patient)
}

func (m *mockRenderer) PaymentReceipt(w io.Writer, payment model.Payment, patient *model.User) error {
	return m.render(w, "receipt:"+payment.ID, patient)
}

func (m *mockRenderer) StatementFilename(bill model.Bill) string { return bill.ID + "_Bill.pdf" }

func (m *mockRenderer) ReceiptFilename(payment model.Payment) string { return payment.ID + ".pdf" }

func (m *mockRenderer) TestReport(w io.Writer, result model.TestResult, opts report.ReportOptions, patient *model.User) error {
	m.lastOpts = opts
	return m.render(w, "report:"+result.ID, patient)
}

func (m *mockRenderer) ReportFilename(result model.TestResult, format report.Format) string {
	return result.ID + "." + string(format)
}

// mockPatientFinder はPatientFinderのモック実装。
type mockPatientFinder struct {
	users map[string]*model.User
	err   error
}

func (m *mockPatientFinder) FindByID(_ context.Context, id string) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users[id], nil
}

// mockSessionFinder はSessionFinderのモック実装。
type mockSessionFinder struct {
	sessions map[string]*model.Session
}

func (m *mockSessionFinder) FindByID(_ context.Context, id string) (*model.Session, error) {
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, nil
}

var (
	_ AuthServiceInterface        = (*mockAuthService)(nil)
	_ UserServiceInterface        = (*mockAuthService)(nil)
	_ AppointmentServiceInterface = (*mockAppointmentService)(nil)
	_ MessageServiceInterface     = (*mockMessageService)(nil)
	_ BillingServiceInterface     = (*mockBillingService)(nil)
	_ BillingDocumentRenderer     = (*mockRenderer)(nil)
	_ TestReportRenderer          = (*mockRenderer)(nil)
	_ MedicationServiceInterface  = (*medication.Service)(nil)
	_ TestResultServiceInterface  = (*testresult.Service)(nil)
)

// --- テストヘルパー ---

// withUserID はテスト用にリクエストコンテキストにユーザーIDを注入するヘルパー。
func withUserID(r *http.Request, userID string) *http.Request {
	ctx := middleware.ContextWithUserID(r.Context(), userID)
	return r.WithContext(ctx)
}

// withChiURLParam はテスト用にchiのURLパラメータを注入するヘルパー。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// parseAPIErrorResponse はレスポンスボディからAPIErrorレスポンスをパースするヘルパー。
func parseAPIErrorResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return result
}

// decodeBody はレスポンスボディをvにデコードするヘルパー。
func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v\nbody: %s", err, w.Body.String())
	}
}

// assertErrorCode はステータスコードとエラーコードを検証するヘルパー。
func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantCode string) {
	t.Helper()
	if w.Code != wantStatus {
		t.Errorf("status = %d, want %d (body: %s)", w.Code, wantStatus, w.Body.String())
	}
	if got := parseAPIErrorResponse(t, w)["code"]; got != wantCode {
		t.Errorf("code = %q, want %q", got, wantCode)
	}
}
