package medication

import "github.com/hitoshi/careportal/internal/model"

var catalog = []model.Medication{
	{
		ID: "med1", Name: "Metformin", GenericName: "Glucophage", Dosage: "500 mg tablet", Frequency: "Twice Daily",
		PrescribedBy: "Dr. John Templeton", StartDate: "2024-07-01", Status: model.MedicationStatusActive, RefillsLeft: 3,
		Instructions: "Take with meals to reduce stomach upset. Monitor blood sugar levels regularly.",
	},
	{
		ID: "med2", Name: "Atorvastatin", GenericName: "Lipitor", Dosage: "10 mg tablet", Frequency: "Once Daily",
		PrescribedBy: "Dr. Lisa Wong", StartDate: "2024-07-10", Status: model.MedicationStatusNeedsRefill, RefillsLeft: 0,
		Instructions: "Take in the evening. Avoid grapefruit juice while taking this medication.",
	},
	{
		ID: "med3", Name: "Vitamin D Supplement", Dosage: "2000 IU", Frequency: "Once Daily",
		PrescribedBy: "Dr. John Templeton", StartDate: "2024-08-02", Status: model.MedicationStatusActive, RefillsLeft: 5,
		Instructions: "Take with food for better absorption.",
	},
	{
		ID: "med4", Name: "Lisinopril", GenericName: "Prinivil", Dosage: "10 mg tablet", Frequency: "Once Daily",
		PrescribedBy: "Dr. Sarah Johnson", StartDate: "2024-06-15", Status: model.MedicationStatusActive, RefillsLeft: 2,
		Instructions: "Take in the morning. Monitor blood pressure regularly. May cause dizziness when standing up quickly.",
	},
	{
		ID: "med5", Name: "Omeprazole", GenericName: "Prilosec", Dosage: "20 mg capsule", Frequency: "Once Daily",
		PrescribedBy: "Dr. Michael Chen", StartDate: "2024-05-20", Status: model.MedicationStatusActive, RefillsLeft: 4,
		Instructions: "Take 30 minutes before breakfast. Do not crush or chew capsules.",
	},
	{
		ID: "med6", Name: "Levothyroxine", GenericName: "Synthroid", Dosage: "75 mcg tablet", Frequency: "Once Daily",
		PrescribedBy: "Dr. Maria Gomez", StartDate: "2024-04-10", Status: model.MedicationStatusActive, RefillsLeft: 6,
		Instructions: "Take on empty stomach, 30-60 minutes before breakfast. Avoid taking with calcium or iron supplements.",
	},
	{
		ID: "med7", Name: "Aspirin", Dosage: "81 mg tablet", Frequency: "Once Daily",
		PrescribedBy: "Dr. Sarah Johnson", StartDate: "2024-03-05", Status: model.MedicationStatusActive, RefillsLeft: 8,
		Instructions: "Take with food to reduce stomach irritation. Low-dose aspirin for cardiovascular protection.",
	},
	{
		ID: "med8", Name: "Albuterol", GenericName: "ProAir", Dosage: "90 mcg inhaler", Frequency: "As Needed",
		PrescribedBy: "Dr. John Miller", StartDate: "2024-02-18", Status: model.MedicationStatusNeedsRefill, RefillsLeft: 0,
		Instructions: "Use as needed for shortness of breath or wheezing. Shake well before each use. Rinse mouth after use.",
	},
	{
		ID: "med9", Name: "Gabapentin", GenericName: "Neurontin", Dosage: "300 mg capsule", Frequency: "Three Times Daily",
		PrescribedBy: "Dr. Maria Gomez", StartDate: "2024-01-22", Status: model.MedicationStatusActive, RefillsLeft: 1,
		Instructions: "Take with or without food. May cause drowsiness. Do not stop suddenly without consulting your doctor.",
	},
	{
		ID: "med10", Name: "Amlodipine", GenericName: "Norvasc", Dosage: "5 mg tablet", Frequency: "Once Daily",
		PrescribedBy: "Dr. Sarah Johnson", StartDate: "2023-12-10", Status: model.MedicationStatusActive, RefillsLeft: 3,
		Instructions: "Take at the same time each day. May cause swelling in ankles or feet. Monitor blood pressure regularly.",
	},
}

// Reminders は処方薬画面に表示する定型のリマインダー。
var Reminders = []string{
	"Monitor blood sugar daily.",
	"Schedule lab follow-up before next visit",
	"Continue all re-prescribed medications.",
}
