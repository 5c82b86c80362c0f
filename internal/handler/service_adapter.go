package handler

import (
	"context"

	"github.com/hitoshi/careportal/internal/appointment"
	"github.com/hitoshi/careportal/internal/model"
)

// AppointmentServiceAdapter は appointment.Service を AppointmentServiceInterface に適合させるアダプタ。
type AppointmentServiceAdapter struct {
	svc     *appointment.Service
	catalog appointment.Catalog
}

// NewAppointmentServiceAdapter はAppointmentServiceAdapterを生成する。
func NewAppointmentServiceAdapter(svc *appointment.Service) *AppointmentServiceAdapter {
	return &AppointmentServiceAdapter{svc: svc, catalog: appointment.DefaultCatalog()}
}

// List は予約一覧をhandlerレスポンス型で返す。
func (a *AppointmentServiceAdapter) List(ctx context.Context, userID string) (*appointmentListResponse, error) {
	buckets, err := a.svc.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &appointmentListResponse{
		Upcoming: toAppointmentResponses(buckets.Upcoming),
		Past:     toAppointmentResponses(buckets.Past),
		Canceled: toAppointmentResponses(buckets.Canceled),
		Dropped:  buckets.Dropped,
	}, nil
}

// Get は予約詳細をhandlerレスポンス型で返す。
func (a *AppointmentServiceAdapter) Get(ctx context.Context, userID, appointmentID string) (*appointmentDetailResponse, error) {
	return toDetailResponse(a.svc.Get(ctx, userID, appointmentID))
}

// Schedule は予約を作成しhandlerレスポンス型で返す。
func (a *AppointmentServiceAdapter) Schedule(ctx context.Context, userID string, in appointment.ScheduleInput) (*appointmentDetailResponse, error) {
	return toDetailResponse(a.svc.Schedule(ctx, userID, in))
}

// Cancel は予約をキャンセルしhandlerレスポンス型で返す。
func (a *AppointmentServiceAdapter) Cancel(ctx context.Context, userID, appointmentID string) (*appointmentDetailResponse, error) {
	return toDetailResponse(a.svc.Cancel(ctx, userID, appointmentID))
}

// Reschedule は予約日時を変更しhandlerレスポンス型で返す。
func (a *AppointmentServiceAdapter) Reschedule(ctx context.Context, userID, appointmentID, date, slot string) (*appointmentDetailResponse, error) {
	return toDetailResponse(a.svc.Reschedule(ctx, userID, appointmentID, date, slot))
}

// Catalog は予約作成画面の選択肢を返す。
func (a *AppointmentServiceAdapter) Catalog() appointment.Catalog {
	return a.catalog
}

// toAppointmentResponse はドメインのAppointmentをhandlerのレスポンス型に変換する。
// 日時を持たない予約はstartを省略する。
func toAppointmentResponse(appt model.Appointment) appointmentResponse {
	resp := appointmentResponse{
		ID:        appt.ID,
		Doctor:    appt.Doctor,
		Specialty: appt.Specialty,
		Type:      appt.Type,
		Reason:    appt.Reason,
		Notes:     appt.Notes,
		Status:    string(appt.Status),
	}
	if !appt.Start.IsZero() {
		start := appt.Start
		resp.Start = &start
	}
	return resp
}

func toAppointmentResponses(list []model.Appointment) []appointmentResponse {
	out := make([]appointmentResponse, len(list))
	for i, appt := range list {
		out[i] = toAppointmentResponse(appt)
	}
	return out
}

func toDetailResponse(d *appointment.Detail, err error) (*appointmentDetailResponse, error) {
	if err != nil {
		return nil, err
	}
	slots := d.Slots
	if slots == nil {
		slots = []string{}
	}
	return &appointmentDetailResponse{
		Appointment: toAppointmentResponse(d.Appointment),
		HasStart:    d.HasStart,
		Date:        d.Date,
		Time:        d.Time,
		Slots:       slots,
	}, nil
}
