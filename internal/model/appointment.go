package model

import "time"

// AppointmentStatus は予約の状態を表す。
type AppointmentStatus string

const (
	// AppointmentStatusUpcoming は受診予定の予約。
	AppointmentStatusUpcoming AppointmentStatus = "Upcoming"
	// AppointmentStatusAttended は受診済みの予約。
	AppointmentStatusAttended AppointmentStatus = "Attended"
	// AppointmentStatusNoShow は無断キャンセルとなった予約。
	AppointmentStatusNoShow AppointmentStatus = "Did not show up"
	// AppointmentStatusCancelled はキャンセルされた予約。
	AppointmentStatusCancelled AppointmentStatus = "Cancelled"
)

// StoredAppointment はストアに保存されている予約レコードの生の形を表す。
// 過去のバージョンで保存されたレコードは日時の持ち方が異なるため、
// startISO、datetime、date+time のいずれかが入っている。
type StoredAppointment struct {
	ID               string            `json:"id"`
	UserID           string            `json:"userId,omitempty"`
	Doctor           string            `json:"doctor,omitempty"`
	DepartmentDoctor string            `json:"departmentDoctor,omitempty"`
	Specialty        string            `json:"specialty,omitempty"`
	Type             string            `json:"type,omitempty"`
	Reason           string            `json:"reason,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	Status           AppointmentStatus `json:"status,omitempty"`
	StartISO         string            `json:"startISO,omitempty"`
	Datetime         string            `json:"datetime,omitempty"`
	Date             string            `json:"date,omitempty"`
	Time             string            `json:"time,omitempty"`
	CreatedAt        string            `json:"createdAt,omitempty"`
}

// Appointment は正規化済みの予約を表す。
type Appointment struct {
	ID        string
	Doctor    string
	Specialty string
	Type      string
	Reason    string
	Notes     string
	Status    AppointmentStatus
	Start     time.Time
}

// Bucket は予約一覧のタブ（区分）を表す。
type Bucket string

const (
	// BucketUpcoming は今後の予約。
	BucketUpcoming Bucket = "upcoming"
	// BucketPast は過去の予約。
	BucketPast Bucket = "past"
	// BucketCanceled はキャンセル済みの予約。
	BucketCanceled Bucket = "canceled"
)
