package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/careportal/internal/metrics"
	"github.com/hitoshi/careportal/internal/model"
	"github.com/hitoshi/careportal/internal/repository"
)

// failingStore は読み書きに失敗するDocumentStore。
type failingStore struct{}

func (failingStore) Get(context.Context, repository.Key) ([]byte, error) {
	return nil, errors.New("store unavailable")
}
func (failingStore) Put(context.Context, repository.Key, []byte) error {
	return errors.New("store unavailable")
}
func (failingStore) Delete(context.Context, repository.Key) error { return nil }

var testNow = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, store repository.DocumentStore) *Service {
	t.Helper()
	svc := NewService(store, NewNormalizer(time.UTC, nil), metrics.Nop{})
	svc.now = func() time.Time { return testNow }
	seq := 0
	svc.newID = func() string {
		seq++
		return "appt-" + string(rune('0'+seq))
	}
	return svc
}

func seedAppointments(t *testing.T, store repository.DocumentStore, userID string, list []model.StoredAppointment) {
	t.Helper()
	if err := repository.SaveJSON(context.Background(), store, repository.UserKey(repository.CollectionAppointments, userID), list); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
}

func storedAppointments(t *testing.T, store repository.DocumentStore, userID string) []model.StoredAppointment {
	t.Helper()
	body, err := store.Get(context.Background(), repository.UserKey(repository.CollectionAppointments, userID))
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	var list []model.StoredAppointment
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("stored appointments are not valid JSON: %v", err)
	}
	return list
}

func assertAPIErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError with code %s, got %v", code, err)
	}
	if apiErr.Code != code {
		t.Errorf("Code = %q, want %q", apiErr.Code, code)
	}
}

func validInput() ScheduleInput {
	return ScheduleInput{
		Type:             "Specialist Visit",
		DepartmentDoctor: "Pulmonology – Dr. John Miller",
		Reason:           "persistent cough",
		Date:             "2025-11-03",
		TimeSlot:         "1:45 PM",
		Notes:            "bring inhaler",
	}
}

func TestService_Schedule_PrependsRecord(t *testing.T) {
	store := repository.NewMemoryDocumentStore()
	seedAppointments(t, store, "u-1", []model.StoredAppointment{{ID: "old", Doctor: "Dr. X", StartISO: "2025-12-01T09:00:00"}})
	svc := newTestService(t, store)

	detail, err := svc.Schedule(context.Background(), "u-1", validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 1. 正規化された詳細が返る
	if detail.Appointment.Specialty != "Pulmonology" || detail.Appointment.Doctor != "Dr. John Miller" {
		t.Errorf("detail = %+v", detail.Appointment)
	}
	if !detail.Appointment.Start.Equal(time.Date(2025, 11, 3, 13, 45, 0, 0, time.UTC)) {
		t.Errorf("Start = %v", detail.Appointment.Start)
	}

	// 2. 保存形式は既存の形と互換
	list := storedAppointments(t, store, "u-1")
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	rec := list[0]
	if rec.ID != "appt-1" {
		t.Errorf("new record should be first, got %q", rec.ID)
	}
	if rec.StartISO != "2025-11-03T13:45:00" || rec.Date != "2025-11-03" || rec.Time != "1:45 PM" {
		t.Errorf("time fields = %q %q %q", rec.StartISO, rec.Date, rec.Time)
	}
	if rec.Status != model.AppointmentStatusUpcoming || rec.UserID != "u-1" {
		t.Errorf("status=%q userId=%q", rec.Status, rec.UserID)
	}
	if rec.CreatedAt != "2025-10-15T12:00:00.000Z" {
		t.Errorf("CreatedAt = %q", rec.CreatedAt)
	}
}

func TestService_Schedule_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ScheduleInput)
		code   string
	}{
		{"理由なし", func(in *ScheduleInput) { in.Reason = "  " }, model.ErrCodeInvalidAppointment},
		{"日付なし", func(in *ScheduleInput) { in.Date = "" }, model.ErrCodeInvalidAppointment},
		{"時間帯なし", func(in *ScheduleInput) { in.TimeSlot = "" }, model.ErrCodeInvalidAppointment},
		{"未知の種別", func(in *ScheduleInput) { in.Type = "Spa Day" }, model.ErrCodeInvalidAppointment},
		{"未知の医師", func(in *ScheduleInput) { in.DepartmentDoctor = "Magic – Dr. Strange" }, model.ErrCodeInvalidAppointment},
		{"医師の受付枠にない時間帯", func(in *ScheduleInput) { in.TimeSlot = "9:00 AM" }, model.ErrCodeInvalidTimeSlot},
		{"日付形式不正", func(in *ScheduleInput) { in.Date = "11/03/2025" }, model.ErrCodeInvalidAppointment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := repository.NewMemoryDocumentStore()
			svc := newTestService(t, store)
			in := validInput()
			tt.mutate(&in)

			_, err := svc.Schedule(context.Background(), "u-1", in)
			assertAPIErrorCode(t, err, tt.code)

			// 何も保存されない
			if body, _ := store.Get(context.Background(), repository.UserKey(repository.CollectionAppointments, "u-1")); body != nil {
				t.Errorf("nothing should be stored, got %s", body)
			}
		})
	}
}

func TestService_List_IsolatesUsers(t *testing.T) {
	store := repository.NewMemoryDocumentStore()
	svc := newTestService(t, store)

	if _, err := svc.Schedule(context.Background(), "alice", validInput()); err != nil {
		t.Fatalf("schedule failed: %v", err)
	}

	bob, err := svc.List(context.Background(), "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bob.Upcoming)+len(bob.Past)+len(bob.Canceled) != 0 {
		t.Errorf("bob should see no appointments, got %+v", bob)
	}

	alice, err := svc.List(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alice.Upcoming) != 1 {
		t.Errorf("alice upcoming = %d, want 1", len(alice.Upcoming))
	}
}

// 解釈できない保存内容は空の一覧として扱い、新しい予約で上書きされる
func TestService_CorruptDocumentStartsEmpty(t *testing.T) {
	store := repository.NewMemoryDocumentStore()
	_ = store.Put(context.Background(), repository.UserKey(repository.CollectionAppointments, "u-1"), []byte("{not json"))
	svc := newTestService(t, store)
	ctx := context.Background()

	buckets, err := svc.List(ctx, "u-1")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if n := len(buckets.Upcoming) + len(buckets.Past) + len(buckets.Canceled); n != 0 {
		t.Errorf("appointments = %d, want 0", n)
	}

	if _, err := svc.Schedule(ctx, "u-1", validInput()); err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}
	list := storedAppointments(t, store, "u-1")
	if len(list) != 1 || list[0].ID != "appt-1" {
		t.Errorf("stored = %+v, want [appt-1]", list)
	}
}

func TestService_Cancel(t *testing.T) {
	store := repository.NewMemoryDocumentStore()
	seedAppointments(t, store, "u-1", []model.StoredAppointment{
		{ID: "up", Doctor: "Cardiology – Dr. Sarah Smith", StartISO: "2025-11-01T09:00:00", Status: model.AppointmentStatusUpcoming},
		{ID: "legacy", Doctor: "Dr. Legacy", Date: "2025-11-02", Time: "10:00 AM"},
		{ID: "done", Doctor: "Dr. Done", StartISO: "2025-09-01T09:00:00", Status: model.AppointmentStatusAttended},
	})
	svc := newTestService(t, store)
	ctx := context.Background()

	detail, err := svc.Cancel(ctx, "u-1", "up")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Appointment.Status != model.AppointmentStatusCancelled {
		t.Errorf("Status = %q", detail.Appointment.Status)
	}

	// 状態未設定の旧レコードはUpcoming扱いでキャンセルできる
	if _, err := svc.Cancel(ctx, "u-1", "legacy"); err != nil {
		t.Errorf("legacy record should be cancellable: %v", err)
	}

	_, err = svc.Cancel(ctx, "u-1", "done")
	assertAPIErrorCode(t, err, model.ErrCodeAppointmentNotCancellable)

	// キャンセル済みを再度キャンセルすることはできない
	_, err = svc.Cancel(ctx, "u-1", "up")
	assertAPIErrorCode(t, err, model.ErrCodeAppointmentNotCancellable)

	_, err = svc.Cancel(ctx, "u-1", "ghost")
	assertAPIErrorCode(t, err, model.ErrCodeAppointmentNotFound)

	// 時刻は変更されない
	list := storedAppointments(t, store, "u-1")
	if list[0].StartISO != "2025-11-01T09:00:00" {
		t.Errorf("StartISO changed: %q", list[0].StartISO)
	}
	buckets, _ := svc.List(ctx, "u-1")
	if len(buckets.Canceled) != 2 {
		t.Errorf("canceled = %d, want 2", len(buckets.Canceled))
	}
}

func TestService_Reschedule(t *testing.T) {
	store := repository.NewMemoryDocumentStore()
	seedAppointments(t, store, "u-1", []model.StoredAppointment{
		{ID: "c", Doctor: "Dr. Sarah Smith", Specialty: "Cardiology", StartISO: "2025-11-01T09:00:00"},
	})
	svc := newTestService(t, store)
	ctx := context.Background()

	// 医師の受付枠にない時間帯は拒否
	_, err := svc.Reschedule(ctx, "u-1", "c", "2025-11-20", "4:00 PM")
	assertAPIErrorCode(t, err, model.ErrCodeInvalidTimeSlot)

	_, err = svc.Reschedule(ctx, "u-1", "c", "", "2:00 PM")
	assertAPIErrorCode(t, err, model.ErrCodeInvalidAppointment)

	_, err = svc.Reschedule(ctx, "u-1", "ghost", "2025-11-20", "2:00 PM")
	assertAPIErrorCode(t, err, model.ErrCodeAppointmentNotFound)

	detail, err := svc.Reschedule(ctx, "u-1", "c", "2025-11-20", "2:00 PM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Appointment.Status != model.AppointmentStatusUpcoming {
		t.Errorf("status should be Upcoming, got %q", detail.Appointment.Status)
	}

	rec := storedAppointments(t, store, "u-1")[0]
	if rec.Date != "2025-11-20" || rec.Time != "2:00 PM" || rec.StartISO != "2025-11-20T14:00:00" {
		t.Errorf("record = %+v", rec)
	}
}

// 受診予定以外の予約は日時を変更できず、保存内容も変わらない
func TestService_Reschedule_RequiresUpcoming(t *testing.T) {
	tests := []struct {
		name   string
		status model.AppointmentStatus
	}{
		{"キャンセル済み", model.AppointmentStatusCancelled},
		{"受診済み", model.AppointmentStatusAttended},
		{"未受診", model.AppointmentStatusNoShow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := repository.NewMemoryDocumentStore()
			seedAppointments(t, store, "u-1", []model.StoredAppointment{
				{ID: "a1", Doctor: "Pulmonology – Dr. John Miller", StartISO: "2025-10-01T13:45:00", Status: tt.status},
			})
			svc := newTestService(t, store)

			_, err := svc.Reschedule(context.Background(), "u-1", "a1", "2025-11-01", "1:45 PM")
			assertAPIErrorCode(t, err, model.ErrCodeAppointmentNotReschedulable)

			rec := storedAppointments(t, store, "u-1")[0]
			if rec.Status != tt.status || rec.StartISO != "2025-10-01T13:45:00" {
				t.Errorf("record changed: %+v", rec)
			}
		})
	}
}

// 時刻を解釈できないレコードも詳細では参照できる
func TestService_Get_UnparseableTime(t *testing.T) {
	store := repository.NewMemoryDocumentStore()
	seedAppointments(t, store, "u-1", []model.StoredAppointment{
		{ID: "weird", Doctor: "Pulmonology – Dr. John Miller", StartISO: "whenever"},
	})
	svc := newTestService(t, store)

	detail, err := svc.Get(context.Background(), "u-1", "weird")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.HasStart {
		t.Error("HasStart should be false")
	}
	if strings.Join(detail.Slots, ",") != "1:45 PM,4:00 PM" {
		t.Errorf("Slots = %v", detail.Slots)
	}

	buckets, _ := svc.List(context.Background(), "u-1")
	if buckets.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", buckets.Dropped)
	}
}

func TestService_StoreFailure(t *testing.T) {
	svc := newTestService(t, failingStore{})

	if _, err := svc.List(context.Background(), "u-1"); err == nil {
		t.Error("expected error from failing store")
	}
	if _, err := svc.Schedule(context.Background(), "u-1", validInput()); err == nil {
		t.Error("expected error from failing store")
	}
}
