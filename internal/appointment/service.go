package appointment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/careportal/internal/metrics"
	"github.com/hitoshi/careportal/internal/model"
	"github.com/hitoshi/careportal/internal/repository"
)

// ScheduleInput は新規予約の入力値。
type ScheduleInput struct {
	Type             string
	DepartmentDoctor string // "診療科 – 医師名"
	Reason           string
	Date             string // YYYY-MM-DD
	TimeSlot         string // "1:45 PM"
	Notes            string
}

// Detail は予約詳細画面の表示内容。
// HasStartがfalseの場合、保存済みの時刻を解釈できなかったことを表す。
type Detail struct {
	Appointment model.Appointment
	HasStart    bool
	Date        string
	Time        string
	// Slots は再予約で選択できる時間帯
	Slots []string
}

// Service は予約の一覧、作成、キャンセル、再予約を提供する。
// ユーザーごとの予約一覧は appointments::<userId> に丸ごと保存する。
type Service struct {
	store      repository.DocumentStore
	normalizer *Normalizer
	metrics    metrics.MetricsCollector
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
}

// NewService はServiceを生成する。
func NewService(store repository.DocumentStore, normalizer *Normalizer, mc metrics.MetricsCollector) *Service {
	if mc == nil {
		mc = metrics.Nop{}
	}
	return &Service{
		store:      store,
		normalizer: normalizer,
		metrics:    mc,
		logger:     slog.Default(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// load はユーザーの予約一覧を読み込む。
// 保存内容を解釈できない場合は警告を出して空の一覧として扱い、次の保存で上書きする。
func (s *Service) load(ctx context.Context, userID string) ([]model.StoredAppointment, error) {
	var list []model.StoredAppointment
	_, err := repository.LoadJSON(ctx, s.store, repository.UserKey(repository.CollectionAppointments, userID), &list)
	switch {
	case errors.Is(err, repository.ErrCorruptDocument):
		s.logger.Warn("corrupt appointments document, starting empty",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("予約一覧の読み込みに失敗しました: %w", err)
	}
	return list, nil
}

// effectiveStatus は状態未設定の旧レコードをUpcomingとして扱う。
func effectiveStatus(raw model.StoredAppointment) model.AppointmentStatus {
	if raw.Status == "" {
		return model.AppointmentStatusUpcoming
	}
	return raw.Status
}

func (s *Service) save(ctx context.Context, userID string, list []model.StoredAppointment) error {
	if err := repository.SaveJSON(ctx, s.store, repository.UserKey(repository.CollectionAppointments, userID), list); err != nil {
		return fmt.Errorf("予約一覧の保存に失敗しました: %w", err)
	}
	return nil
}

// List はユーザーの予約を区分けして返す。
func (s *Service) List(ctx context.Context, userID string) (Buckets, error) {
	list, err := s.load(ctx, userID)
	if err != nil {
		return Buckets{}, err
	}
	buckets := s.normalizer.BucketAll(list, s.now())
	s.metrics.RecordAppointmentsDropped(buckets.Dropped)
	return buckets, nil
}

// Get は指定予約の詳細を返す。見つからない場合はAPPOINTMENT_NOT_FOUNDを返す。
func (s *Service) Get(ctx context.Context, userID, appointmentID string) (*Detail, error) {
	list, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := indexOf(list, appointmentID)
	if idx < 0 {
		return nil, model.NewAppointmentNotFoundError(appointmentID)
	}
	return s.describe(list[idx]), nil
}

// Schedule は新しい予約を作成し、一覧の先頭に追加する。
func (s *Service) Schedule(ctx context.Context, userID string, in ScheduleInput) (*Detail, error) {
	in.Type = strings.TrimSpace(in.Type)
	in.DepartmentDoctor = strings.TrimSpace(in.DepartmentDoctor)
	in.Reason = strings.TrimSpace(in.Reason)
	in.Date = strings.TrimSpace(in.Date)
	in.TimeSlot = strings.TrimSpace(in.TimeSlot)

	if in.Type == "" || in.DepartmentDoctor == "" || in.Reason == "" || in.Date == "" || in.TimeSlot == "" {
		return nil, model.NewInvalidAppointmentError("受診種別、医師、理由、日付、時間帯は必須です")
	}
	if !isKnownType(in.Type) {
		return nil, model.NewInvalidAppointmentError("未知の受診種別です: " + in.Type)
	}
	if _, ok := TimeSlots[in.DepartmentDoctor]; !ok {
		return nil, model.NewInvalidAppointmentError("未知の医師です: " + in.DepartmentDoctor)
	}
	if !hasSlot(in.DepartmentDoctor, in.TimeSlot) {
		return nil, model.NewInvalidTimeSlotError(in.DepartmentDoctor, in.TimeSlot)
	}
	if _, err := time.Parse(time.DateOnly, in.Date); err != nil {
		return nil, model.NewInvalidAppointmentError("日付はYYYY-MM-DD形式で指定してください")
	}

	list, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	record := model.StoredAppointment{
		ID:        s.newID(),
		UserID:    userID,
		Type:      in.Type,
		Doctor:    in.DepartmentDoctor,
		Reason:    in.Reason,
		Date:      in.Date,
		Time:      in.TimeSlot,
		StartISO:  startISO(in.Date, in.TimeSlot),
		Notes:     strings.TrimSpace(in.Notes),
		Status:    model.AppointmentStatusUpcoming,
		CreatedAt: s.now().UTC().Format("2006-01-02T15:04:05.000Z"),
	}

	list = append([]model.StoredAppointment{record}, list...)
	if err := s.save(ctx, userID, list); err != nil {
		return nil, err
	}

	s.metrics.RecordAppointmentAction("scheduled")
	s.logger.Info("appointment scheduled",
		slog.String("user_id", userID),
		slog.String("appointment_id", record.ID),
		slog.String("doctor", record.Doctor),
		slog.String("start", record.StartISO),
	)
	return s.describe(record), nil
}

// Cancel は受診予定の予約をキャンセルする。時刻は変更しない。
// Upcoming以外の予約に対してはAPPOINTMENT_NOT_CANCELLABLEを返す。
func (s *Service) Cancel(ctx context.Context, userID, appointmentID string) (*Detail, error) {
	list, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := indexOf(list, appointmentID)
	if idx < 0 {
		return nil, model.NewAppointmentNotFoundError(appointmentID)
	}

	if status := effectiveStatus(list[idx]); status != model.AppointmentStatusUpcoming {
		return nil, model.NewAppointmentNotCancellableError(status)
	}

	list[idx].Status = model.AppointmentStatusCancelled
	if err := s.save(ctx, userID, list); err != nil {
		return nil, err
	}

	s.metrics.RecordAppointmentAction("cancelled")
	s.logger.Info("appointment cancelled",
		slog.String("user_id", userID),
		slog.String("appointment_id", appointmentID),
	)
	return s.describe(list[idx]), nil
}

// Reschedule は受診予定の予約の日時を変更し、状態をUpcomingにそろえる。
// 時間帯は医師ごとの受付枠から選ばなければならない。
// Upcoming以外の予約に対してはAPPOINTMENT_NOT_RESCHEDULABLEを返す。
func (s *Service) Reschedule(ctx context.Context, userID, appointmentID, date, slot string) (*Detail, error) {
	date = strings.TrimSpace(date)
	slot = strings.TrimSpace(slot)
	if date == "" || slot == "" {
		return nil, model.NewInvalidAppointmentError("日付と時間帯を選択してください")
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil, model.NewInvalidAppointmentError("日付はYYYY-MM-DD形式で指定してください")
	}

	list, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := indexOf(list, appointmentID)
	if idx < 0 {
		return nil, model.NewAppointmentNotFoundError(appointmentID)
	}
	if status := effectiveStatus(list[idx]); status != model.AppointmentStatusUpcoming {
		return nil, model.NewAppointmentNotReschedulableError(status)
	}

	key := doctorKeyOf(list[idx])
	if !hasSlot(key, slot) {
		return nil, model.NewInvalidTimeSlotError(key, slot)
	}

	list[idx].Date = date
	list[idx].Time = slot
	list[idx].StartISO = startISO(date, slot)
	list[idx].Status = model.AppointmentStatusUpcoming
	if err := s.save(ctx, userID, list); err != nil {
		return nil, err
	}

	s.metrics.RecordAppointmentAction("rescheduled")
	s.logger.Info("appointment rescheduled",
		slog.String("user_id", userID),
		slog.String("appointment_id", appointmentID),
		slog.String("start", list[idx].StartISO),
	)
	return s.describe(list[idx]), nil
}

// describe は保存済みレコードから詳細表示を組み立てる。
// 時刻を解釈できないレコードも表示対象とし、HasStart=falseとする。
func (s *Service) describe(raw model.StoredAppointment) *Detail {
	d := &Detail{
		Date:  raw.Date,
		Time:  raw.Time,
		Slots: SlotsFor(doctorKeyOf(raw)),
	}
	if a, ok := s.normalizer.Normalize(raw); ok {
		d.Appointment = a
		d.HasStart = true
		return d
	}

	status := raw.Status
	if status == "" {
		status = model.AppointmentStatusUpcoming
	}
	d.Appointment = model.Appointment{
		ID:        raw.ID,
		Doctor:    raw.Doctor,
		Specialty: raw.Specialty,
		Type:      raw.Type,
		Reason:    raw.Reason,
		Notes:     raw.Notes,
		Status:    status,
	}
	return d
}

func doctorKeyOf(raw model.StoredAppointment) string {
	doctor := raw.Doctor
	if doctor == "" {
		doctor = raw.DepartmentDoctor
	}
	return DoctorKey(raw.Specialty, doctor)
}

func startISO(date, slot string) string {
	return date + "T" + To24h(slot) + ":00"
}

func indexOf(list []model.StoredAppointment, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
