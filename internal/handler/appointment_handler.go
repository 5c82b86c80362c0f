package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/careportal/internal/appointment"
	"github.com/hitoshi/careportal/internal/model"
)

// AppointmentServiceInterface は予約ハンドラーが必要とするサービスインターフェース。
type AppointmentServiceInterface interface {
	List(ctx context.Context, userID string) (*appointmentListResponse, error)
	Get(ctx context.Context, userID, appointmentID string) (*appointmentDetailResponse, error)
	Schedule(ctx context.Context, userID string, in appointment.ScheduleInput) (*appointmentDetailResponse, error)
	Cancel(ctx context.Context, userID, appointmentID string) (*appointmentDetailResponse, error)
	Reschedule(ctx context.Context, userID, appointmentID, date, slot string) (*appointmentDetailResponse, error)
	Catalog() appointment.Catalog
}

// AppointmentHandler は予約のHTTPハンドラー。
type AppointmentHandler struct {
	service AppointmentServiceInterface
}

// NewAppointmentHandler はAppointmentHandlerを生成する。
func NewAppointmentHandler(service AppointmentServiceInterface) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// scheduleRequest は予約作成リクエストのボディ。
type scheduleRequest struct {
	Type             string `json:"type"`
	DepartmentDoctor string `json:"departmentDoctor"`
	Reason           string `json:"reason"`
	Date             string `json:"date"`
	TimeSlot         string `json:"timeSlot"`
	Notes            string `json:"notes"`
}

// rescheduleRequest は再予約リクエストのボディ。
type rescheduleRequest struct {
	Date     string `json:"date"`
	TimeSlot string `json:"timeSlot"`
}

// appointmentResponse は予約のAPIレスポンス。
type appointmentResponse struct {
	ID        string     `json:"id"`
	Doctor    string     `json:"doctor"`
	Specialty string     `json:"specialty"`
	Type      string     `json:"type"`
	Reason    string     `json:"reason"`
	Notes     string     `json:"notes,omitempty"`
	Status    string     `json:"status"`
	Start     *time.Time `json:"start,omitempty"`
}

// appointmentListResponse は3区分すべての予約一覧のAPIレスポンス。
type appointmentListResponse struct {
	Upcoming []appointmentResponse `json:"upcoming"`
	Past     []appointmentResponse `json:"past"`
	Canceled []appointmentResponse `json:"canceled"`
	// Dropped は日時を解釈できず表示から除外した件数
	Dropped int `json:"dropped"`
}

// appointmentTabResponse はtab指定時の予約一覧のAPIレスポンス。
type appointmentTabResponse struct {
	Tab          model.Bucket          `json:"tab"`
	Appointments []appointmentResponse `json:"appointments"`
	Dropped      int                   `json:"dropped"`
}

// appointmentDetailResponse は予約詳細のAPIレスポンス。
type appointmentDetailResponse struct {
	Appointment appointmentResponse `json:"appointment"`
	HasStart    bool                `json:"hasStart"`
	Date        string              `json:"date,omitempty"`
	Time        string              `json:"time,omitempty"`
	Slots       []string            `json:"slots"`
}

// List は予約一覧を返す。
// GET /api/appointments?tab=upcoming|past|canceled
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	tab, err := parseBucket(r.URL.Query().Get("tab"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	list, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if tab != "" {
		writeJSON(w, http.StatusOK, list.only(tab))
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Get は予約詳細を返す。
// GET /api/appointments/{id}
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	detail, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Schedule は予約を作成する。
// POST /api/appointments
func (h *AppointmentHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req scheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	detail, err := h.service.Schedule(r.Context(), userID, appointment.ScheduleInput{
		Type:             req.Type,
		DepartmentDoctor: req.DepartmentDoctor,
		Reason:           req.Reason,
		Date:             req.Date,
		TimeSlot:         req.TimeSlot,
		Notes:            req.Notes,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

// Cancel は受診予定の予約をキャンセルする。
// POST /api/appointments/{id}/cancel
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	detail, err := h.service.Cancel(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Reschedule は予約の日時を変更する。
// POST /api/appointments/{id}/reschedule
func (h *AppointmentHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req rescheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	detail, err := h.service.Reschedule(r.Context(), userID, chi.URLParam(r, "id"), req.Date, req.TimeSlot)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Catalog は予約作成画面の選択肢を返す。
// GET /api/appointments/catalog
func (h *AppointmentHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Catalog())
}

// parseBucket はtabクエリを区分に変換する。空文字列は全区分を表す。
func parseBucket(s string) (model.Bucket, error) {
	switch b := model.Bucket(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return "", nil
	case model.BucketUpcoming, model.BucketPast, model.BucketCanceled:
		return b, nil
	case "cancelled":
		return model.BucketCanceled, nil
	default:
		return "", model.NewInvalidFilterError(s, "upcoming, past, canceled")
	}
}

// only は指定区分だけを含む一覧を返す。
func (l *appointmentListResponse) only(tab model.Bucket) appointmentTabResponse {
	out := appointmentTabResponse{Tab: tab, Dropped: l.Dropped}
	switch tab {
	case model.BucketPast:
		out.Appointments = l.Past
	case model.BucketCanceled:
		out.Appointments = l.Canceled
	default:
		out.Appointments = l.Upcoming
	}
	if out.Appointments == nil {
		out.Appointments = []appointmentResponse{}
	}
	return out
}
