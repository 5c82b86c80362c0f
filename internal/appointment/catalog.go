package appointment

// AppointmentTypes は予約時に選択できる受診種別。
var AppointmentTypes = []string{
	"General Check-up / Annual Physical",
	"New Patient Visit",
	"Follow-up Consultation",
	"Specialist Visit",
	"Immunization / Vaccine",
	"Lab Test / Diagnostic",
	"Telehealth / Online Consultation",
	"Urgent Care / Same-Day Visit",
}

// Doctors は予約可能な "診療科 – 医師名" の一覧。表示順を保持する。
var Doctors = []string{
	"Cardiology – Dr. Sarah Smith",
	"Dermatology – Dr. Karen Davis",
	"Pulmonology – Dr. John Miller",
	"Neurology – Dr. Maria Gomez",
	"Orthopedics – Dr. Ryan Lee",
	"Pediatrics – Dr. Jennifer Brown",
	"Psychiatry – Dr. David Wilson",
	"General Medicine – Dr. Emily Johnson",
}

// TimeSlots は医師ごとの受付時間帯。
var TimeSlots = map[string][]string{
	"Cardiology – Dr. Sarah Smith":         {"9:00 AM", "11:30 AM", "2:00 PM"},
	"Dermatology – Dr. Karen Davis":        {"10:00 AM", "1:00 PM", "3:00 PM"},
	"Pulmonology – Dr. John Miller":        {"1:45 PM", "4:00 PM"},
	"Neurology – Dr. Maria Gomez":          {"9:30 AM", "12:00 PM", "2:30 PM"},
	"Orthopedics – Dr. Ryan Lee":           {"10:15 AM", "12:45 PM", "3:30 PM"},
	"Pediatrics – Dr. Jennifer Brown":      {"9:00 AM", "11:00 AM", "1:30 PM"},
	"Psychiatry – Dr. David Wilson":        {"10:30 AM", "12:00 PM", "2:30 PM"},
	"General Medicine – Dr. Emily Johnson": {"8:45 AM", "11:15 AM", "2:00 PM"},
}

// Catalog は予約画面で使う選択肢一式。
type Catalog struct {
	Types     []string            `json:"types"`
	Doctors   []string            `json:"doctors"`
	TimeSlots map[string][]string `json:"timeSlots"`
}

// DefaultCatalog は組み込みの選択肢一式を返す。
func DefaultCatalog() Catalog {
	return Catalog{Types: AppointmentTypes, Doctors: Doctors, TimeSlots: TimeSlots}
}

// DoctorKey は時間帯表の検索キーを組み立てる。
// 診療科が別フィールドで保存されている場合は "診療科 – 医師名" に戻す。
func DoctorKey(specialty, doctor string) string {
	if specialty != "" {
		return specialty + " " + enDash + " " + doctor
	}
	return doctor
}

// SlotsFor は指定医師の受付時間帯を返す。未登録の医師の場合はnilを返す。
func SlotsFor(doctorKey string) []string {
	return TimeSlots[doctorKey]
}

func isKnownType(t string) bool {
	for _, v := range AppointmentTypes {
		if v == t {
			return true
		}
	}
	return false
}

func hasSlot(doctorKey, slot string) bool {
	for _, s := range TimeSlots[doctorKey] {
		if s == slot {
			return true
		}
	}
	return false
}
