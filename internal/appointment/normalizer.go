// Package appointment は予約レコードの正規化、区分けと予約操作を提供する。
// 保存済みレコードは作成時期により日時の持ち方が異なるため、
// 読み出し時に必ずNormalizerを通して単一の時刻に揃える。
package appointment

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hitoshi/careportal/internal/model"
)

const (
	enDash = "–"
	emDash = "—"
)

// localLayouts はタイムゾーン指定のない日時の受理フォーマット。
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04",
	time.DateOnly,
}

// To24h は "1:45 PM" 形式の12時間表記を "13:45" 形式に変換する。
// 空文字は "00:00"、分の省略は "00" として扱う。
// 時が数値でない場合は入力をそのまま返し、後段の時刻解釈で不正として扱わせる。
func To24h(h12 string) string {
	fields := strings.Fields(h12)
	if len(fields) == 0 {
		return "00:00"
	}
	clock := fields[0]
	meridiem := ""
	if len(fields) > 1 {
		meridiem = strings.ToUpper(fields[1])
	}

	hStr, mStr, found := strings.Cut(clock, ":")
	if !found || mStr == "" {
		mStr = "00"
	}
	h, err := strconv.Atoi(hStr)
	if err != nil {
		return strings.TrimSpace(h12)
	}

	pm := meridiem == "PM"
	if pm && h != 12 {
		h += 12
	}
	if !pm && h == 12 {
		h = 0
	}
	if len(mStr) < 2 {
		mStr = "0" + mStr
	}
	return fmt.Sprintf("%02d:%s", h, mStr)
}

// SplitDoctor は "Pulmonology – Dr. John Miller" 形式の文字列を診療科と医師名に分割する。
// emダッシュはenダッシュに正規化し、enダッシュまたはハイフンで分割する。
// 2つ目以降の要素はハイフンで再結合し、先頭の "Dr." は "Dr. " に揃える。
// 区切りがない場合は診療科を空とし、入力全体を医師名として返す。
func SplitDoctor(deptDoctor string) (specialty, doctor string) {
	text := strings.Replace(deptDoctor, emDash, enDash, 1)
	parts := splitOnDash(text)
	if len(parts) < 2 {
		return "", deptDoctor
	}

	specialty = strings.TrimSpace(parts[0])
	doctor = normalizeDrPrefix(strings.TrimSpace(strings.Join(parts[1:], "-")))
	return specialty, doctor
}

// splitOnDash はenダッシュとハイフンの両方で分割する。空要素も保持する。
func splitOnDash(s string) []string {
	var parts []string
	var b strings.Builder
	for _, r := range s {
		if r == '–' || r == '-' {
			parts = append(parts, b.String())
			b.Reset()
			continue
		}
		b.WriteRune(r)
	}
	return append(parts, b.String())
}

// normalizeDrPrefix は先頭の "Dr." を "Dr. " に揃える。大文字小文字は区別しない。
func normalizeDrPrefix(s string) string {
	if len(s) < 3 || !strings.EqualFold(s[:3], "dr.") {
		return s
	}
	return "Dr. " + strings.TrimLeft(s[3:], " \t")
}

// CoerceISO は保存済みレコードから時刻文字列を1つ選ぶ。
// 優先順位は startISO > datetime > date + time。いずれもない場合はfalseを返す。
func CoerceISO(raw model.StoredAppointment) (string, bool) {
	switch {
	case raw.StartISO != "":
		return raw.StartISO, true
	case raw.Datetime != "":
		return raw.Datetime, true
	case raw.Date != "":
		return raw.Date + "T" + To24h(raw.Time) + ":00", true
	default:
		return "", false
	}
}

// Buckets は区分けされた予約一覧を表す。
type Buckets struct {
	Upcoming []model.Appointment
	Past     []model.Appointment
	Canceled []model.Appointment
	// Dropped は時刻を解釈できず除外したレコード数
	Dropped int
}

// Get は指定区分の予約一覧を返す。
func (b Buckets) Get(bucket model.Bucket) []model.Appointment {
	switch bucket {
	case model.BucketPast:
		return b.Past
	case model.BucketCanceled:
		return b.Canceled
	default:
		return b.Upcoming
	}
}

// Normalizer は保存済みレコードを正規化する。
// タイムゾーン指定のない日時はLocationの壁時計時刻として解釈する。
type Normalizer struct {
	Location *time.Location
	logger   *slog.Logger
}

// NewNormalizer はNormalizerを生成する。locがnilの場合はUTCを使用する。
func NewNormalizer(loc *time.Location, logger *slog.Logger) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{Location: loc, logger: logger}
}

// ParseInstant は時刻文字列を解釈する。
// オフセット付きのRFC3339と、オフセットなしの YYYY-MM-DDTHH:MM[:SS] を受け付ける。
// 日付のみ（YYYY-MM-DD）はLocationの0時として扱う。
func (n *Normalizer) ParseInstant(iso string) (time.Time, error) {
	s := strings.TrimSpace(iso)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, n.Location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable appointment time: %q", iso)
}

// Normalize は保存済みレコードを正規形に変換する。
// 時刻を解決できない場合はfalseを返す。
func (n *Normalizer) Normalize(raw model.StoredAppointment) (model.Appointment, bool) {
	iso, ok := CoerceISO(raw)
	if !ok {
		return model.Appointment{}, false
	}
	start, err := n.ParseInstant(iso)
	if err != nil {
		return model.Appointment{}, false
	}

	source := raw.Doctor
	if source == "" {
		source = raw.DepartmentDoctor
	}
	splitSpecialty, splitName := SplitDoctor(source)

	specialty := raw.Specialty
	doctor := raw.Doctor
	if specialty == "" {
		specialty = splitSpecialty
		if splitSpecialty != "" || doctor == "" {
			doctor = splitName
		}
	}

	status := raw.Status
	if status == "" {
		status = model.AppointmentStatusUpcoming
	}

	return model.Appointment{
		ID:        raw.ID,
		Doctor:    doctor,
		Specialty: specialty,
		Type:      raw.Type,
		Reason:    raw.Reason,
		Notes:     raw.Notes,
		Status:    status,
		Start:     start,
	}, true
}

// Classify は予約の区分を判定する。
// Cancelledは時刻に関係なくcanceled、Attended/Did not show upまたは過去の時刻はpast、それ以外はupcoming。
func Classify(a model.Appointment, now time.Time) model.Bucket {
	switch a.Status {
	case model.AppointmentStatusCancelled:
		return model.BucketCanceled
	case model.AppointmentStatusAttended, model.AppointmentStatusNoShow:
		return model.BucketPast
	}
	if a.Start.Before(now) {
		return model.BucketPast
	}
	return model.BucketUpcoming
}

// BucketAll は保存済みレコード一覧を正規化して区分けする。
// upcomingは時刻の昇順、past/canceledは降順。同時刻の場合はIDで並べる。
func (n *Normalizer) BucketAll(raws []model.StoredAppointment, now time.Time) Buckets {
	b := Buckets{
		Upcoming: []model.Appointment{},
		Past:     []model.Appointment{},
		Canceled: []model.Appointment{},
	}

	for _, raw := range raws {
		a, ok := n.Normalize(raw)
		if !ok {
			b.Dropped++
			n.logger.Debug("appointment dropped: unresolvable time",
				slog.String("appointment_id", raw.ID),
			)
			continue
		}
		switch Classify(a, now) {
		case model.BucketCanceled:
			b.Canceled = append(b.Canceled, a)
		case model.BucketPast:
			b.Past = append(b.Past, a)
		default:
			b.Upcoming = append(b.Upcoming, a)
		}
	}

	sortByStart(b.Upcoming, true)
	sortByStart(b.Past, false)
	sortByStart(b.Canceled, false)
	return b
}

func sortByStart(list []model.Appointment, ascending bool) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.Start.Equal(b.Start) {
			if ascending {
				return a.Start.Before(b.Start)
			}
			return a.Start.After(b.Start)
		}
		return a.ID < b.ID
	})
}
