package model

// MedicationStatus は処方薬の状態を表す。
type MedicationStatus string

const (
	MedicationStatusActive       MedicationStatus = "Active"
	MedicationStatusNeedsRefill  MedicationStatus = "Needs Refill"
	MedicationStatusDiscontinued MedicationStatus = "Discontinued"
)

// Medication は処方薬を表す。
type Medication struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	GenericName  string           `json:"genericName,omitempty"`
	Dosage       string           `json:"dosage"`
	Frequency    string           `json:"frequency"`
	PrescribedBy string           `json:"prescribedBy"`
	StartDate    string           `json:"startDate"`
	Status       MedicationStatus `json:"status"`
	RefillsLeft  int              `json:"refillsLeft"`
	Instructions string           `json:"instructions,omitempty"`
}
