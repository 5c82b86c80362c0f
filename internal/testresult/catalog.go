package testresult

import "github.com/hitoshi/careportal/internal/model"

// DevUserID は開発用の共有検査結果の所有者ID。この所有者の結果は全ユーザーに表示される。
const DevUserID = "dev_mock_user"

const otherUserID = "user_999"

var catalog = []model.TestResult{
	{
		ID: "tr1", UserID: DevUserID, Name: "Complete Blood Count (CBC)", CollectedDate: "2025-01-15T09:00:00",
		OrderedBy: "Dr. Emily Johnson", Lab: "LabCorp", LabLocation: "Main Street Medical Center",
		Status: model.TestResultStatusNormal, KeyValues: "WBC 6.1, Hgb 13.8, Platelets 220",
		Analytes: []model.Analyte{
			{Name: "WBC", Result: "6.1 K/uL", Reference: "4.5-11.0 K/uL"},
			{Name: "RBC", Result: "4.5 M/uL", Reference: "4.0-5.5 M/uL"},
			{Name: "Hemoglobin", Result: "13.8 g/dL", Reference: "12.0-15.5 g/dL"},
			{Name: "Hematocrit", Result: "41.2%", Reference: "36.0-46.0%"},
			{Name: "Platelets", Result: "220 K/uL", Reference: "150-450 K/uL"},
			{Name: "MCV", Result: "88 fL", Reference: "80-100 fL"},
		},
		DoctorNote: "All values within normal limits. No action required. Continue routine monitoring.",
	},
	{
		ID: "tr2", UserID: DevUserID, Name: "Comprehensive Metabolic Panel (CMP)", CollectedDate: "2025-01-15T09:15:00",
		OrderedBy: "Dr. Emily Johnson", Lab: "LabCorp", LabLocation: "Main Street Medical Center",
		Status: model.TestResultStatusAbnormal, KeyValues: "ALT High (68 U/L)",
		FlaggedNotes: "ALT High (68 U/L) - Follow-up recommended",
		Analytes: []model.Analyte{
			{Name: "Glucose", Result: "98 mg/dL", Reference: "70-99 mg/dL"},
			{Name: "BUN", Result: "15 mg/dL", Reference: "7-20 mg/dL"},
			{Name: "Creatinine", Result: "0.9 mg/dL", Reference: "0.57-1.00 mg/dL"},
			{Name: "Sodium", Result: "140 mEq/L", Reference: "136-145 mEq/L"},
			{Name: "Potassium", Result: "4.2 mEq/L", Reference: "3.5-5.0 mEq/L"},
			{Name: "Chloride", Result: "102 mEq/L", Reference: "98-107 mEq/L"},
			{Name: "CO2", Result: "25 mEq/L", Reference: "23-29 mEq/L"},
			{Name: "Calcium", Result: "9.5 mg/dL", Reference: "8.5-10.5 mg/dL"},
			{Name: "ALT", Result: "68 U/L", Reference: "0-44 U/L"},
			{Name: "AST", Result: "34 U/L", Reference: "0-40 U/L"},
			{Name: "Alkaline Phosphatase", Result: "72 U/L", Reference: "40-130 U/L"},
			{Name: "Total Bilirubin", Result: "0.8 mg/dL", Reference: "0.1-1.2 mg/dL"},
			{Name: "Total Protein", Result: "7.2 g/dL", Reference: "6.0-8.3 g/dL"},
			{Name: "Albumin", Result: "4.5 g/dL", Reference: "3.5-5.5 g/dL"},
		},
		DoctorNote: "Slightly elevated ALT observed. This may indicate mild liver inflammation. Recommend repeat test in 3 months and review medications that may affect liver enzymes. Consider lifestyle modifications including reduced alcohol intake and weight management if applicable.",
	},
	{
		ID: "tr3", UserID: DevUserID, Name: "Lipid Panel", CollectedDate: "2024-12-10T08:30:00",
		OrderedBy: "Dr. Sarah Smith", Lab: "Quest Diagnostics", LabLocation: "Downtown Health Plaza",
		Status: model.TestResultStatusNormal, KeyValues: "Total Cholesterol 180, LDL 102, HDL 58",
		Analytes: []model.Analyte{
			{Name: "Total Cholesterol", Result: "180 mg/dL", Reference: "<200 mg/dL"},
			{Name: "HDL Cholesterol", Result: "58 mg/dL", Reference: ">40 mg/dL"},
			{Name: "LDL Cholesterol", Result: "102 mg/dL", Reference: "<100 mg/dL"},
			{Name: "Triglycerides", Result: "130 mg/dL", Reference: "<150 mg/dL"},
			{Name: "VLDL Cholesterol", Result: "26 mg/dL", Reference: "5-40 mg/dL"},
			{Name: "Non-HDL Cholesterol", Result: "122 mg/dL", Reference: "<130 mg/dL"},
		},
		DoctorNote: "Lipid profile within healthy ranges. LDL is slightly above optimal but acceptable. Continue current diet and exercise regimen. Recheck in 12 months.",
	},
	{
		ID: "tr4", UserID: DevUserID, Name: "Thyroid Function Panel", CollectedDate: "2024-11-28T10:00:00",
		OrderedBy: "Dr. Maria Gomez", Lab: "LabCorp", LabLocation: "Main Street Medical Center",
		Status: model.TestResultStatusNormal, KeyValues: "TSH 2.1, Free T4 1.2",
		Analytes: []model.Analyte{
			{Name: "TSH", Result: "2.1 mIU/L", Reference: "0.4-4.0 mIU/L"},
			{Name: "Free T4", Result: "1.2 ng/dL", Reference: "0.8-1.8 ng/dL"},
			{Name: "Free T3", Result: "3.2 pg/mL", Reference: "2.3-4.2 pg/mL"},
		},
		DoctorNote: "Thyroid function is normal. No treatment needed at this time.",
	},
	{
		ID: "tr5", UserID: DevUserID, Name: "Hemoglobin A1C", CollectedDate: "2024-11-20T09:45:00",
		OrderedBy: "Dr. Emily Johnson", Lab: "Quest Diagnostics", LabLocation: "Downtown Health Plaza",
		Status: model.TestResultStatusNormal, KeyValues: "HbA1c 5.4%",
		Analytes: []model.Analyte{
			{Name: "Hemoglobin A1C", Result: "5.4%", Reference: "<5.7%"},
		},
		DoctorNote: "Excellent glucose control. No signs of diabetes. Continue healthy lifestyle habits.",
	},
	{
		ID: "tr6", UserID: DevUserID, Name: "Vitamin D, 25-Hydroxy", CollectedDate: "2024-10-15T14:00:00",
		OrderedBy: "Dr. David Wilson", Lab: "LabCorp", LabLocation: "Main Street Medical Center",
		Status: model.TestResultStatusArchived, KeyValues: "Vitamin D 35 ng/mL",
		Analytes: []model.Analyte{
			{Name: "Vitamin D, 25-OH", Result: "35 ng/mL", Reference: "30-100 ng/mL"},
		},
		DoctorNote: "Vitamin D levels are sufficient. No supplementation needed at this time.",
	},
	{
		ID: "tr7", UserID: DevUserID, Name: "Urinalysis", CollectedDate: "2024-10-05T11:30:00",
		OrderedBy: "Dr. Ryan Lee", Lab: "Quest Diagnostics", LabLocation: "Downtown Health Plaza",
		Status: model.TestResultStatusNormal, KeyValues: "Clear, pH 6.0, No abnormalities",
		Analytes: []model.Analyte{
			{Name: "Color", Result: "Yellow", Reference: "Yellow"},
			{Name: "Appearance", Result: "Clear", Reference: "Clear"},
			{Name: "Specific Gravity", Result: "1.015", Reference: "1.005-1.030"},
			{Name: "pH", Result: "6.0", Reference: "4.5-8.0"},
			{Name: "Protein", Result: "Negative", Reference: "Negative"},
			{Name: "Glucose", Result: "Negative", Reference: "Negative"},
			{Name: "Ketones", Result: "Negative", Reference: "Negative"},
			{Name: "Blood", Result: "Negative", Reference: "Negative"},
		},
		DoctorNote: "Urinalysis shows no abnormalities. Kidney function appears normal.",
	},
	{
		ID: "tr8", UserID: DevUserID, Name: "Iron Panel", CollectedDate: "2024-09-22T08:00:00",
		OrderedBy: "Dr. Jennifer Brown", Lab: "LabCorp", LabLocation: "Main Street Medical Center",
		Status: model.TestResultStatusNormal, KeyValues: "Iron 85, Ferritin 120",
		Analytes: []model.Analyte{
			{Name: "Iron", Result: "85 mcg/dL", Reference: "60-170 mcg/dL"},
			{Name: "TIBC", Result: "350 mcg/dL", Reference: "250-450 mcg/dL"},
			{Name: "Transferrin Saturation", Result: "24%", Reference: "20-50%"},
			{Name: "Ferritin", Result: "120 ng/mL", Reference: "30-400 ng/mL"},
		},
		DoctorNote: "Iron stores are adequate. No evidence of iron deficiency or overload.",
	},
	{
		ID: "tr9", UserID: DevUserID, Name: "COVID-19 PCR Test", CollectedDate: "2024-09-10T13:00:00",
		OrderedBy: "Dr. Emily Johnson", Lab: "Quest Diagnostics", LabLocation: "Downtown Health Plaza",
		Status: model.TestResultStatusArchived, KeyValues: "Negative",
		Analytes: []model.Analyte{
			{Name: "SARS-CoV-2 RNA", Result: "Not Detected", Reference: "Not Detected"},
		},
		DoctorNote: "Test result is negative for COVID-19. No further action needed.",
	},
	{
		ID: "tr10", UserID: DevUserID, Name: "Prostate-Specific Antigen (PSA)", CollectedDate: "2024-08-18T09:30:00",
		OrderedBy: "Dr. Ryan Lee", Lab: "LabCorp", LabLocation: "Main Street Medical Center",
		Status: model.TestResultStatusNormal, KeyValues: "PSA 1.2 ng/mL",
		Analytes: []model.Analyte{
			{Name: "Total PSA", Result: "1.2 ng/mL", Reference: "<4.0 ng/mL"},
			{Name: "Free PSA", Result: "0.3 ng/mL", Reference: ">0.25 ng/mL"},
			{Name: "Free/Total PSA Ratio", Result: "25%", Reference: ">25%"},
		},
		DoctorNote: "PSA levels are within normal range. Continue annual screening.",
	},
	{
		ID: "tr11", UserID: DevUserID, Name: "Liver Function Test (LFT)", CollectedDate: "2024-07-25T10:15:00",
		OrderedBy: "Dr. Sarah Smith", Lab: "Quest Diagnostics", LabLocation: "Downtown Health Plaza",
		Status: model.TestResultStatusPending, KeyValues: "Results pending",
		Analytes:   []model.Analyte{},
		DoctorNote: "Test results are being processed. Expected within 24-48 hours.",
	},
	{
		ID: "trX", UserID: otherUserID, Name: "TSH (Other User)", CollectedDate: "2025-04-12T08:00:00",
		OrderedBy: "Dr. Not You", Status: model.TestResultStatusPending, KeyValues: "Ignore me in UI",
	},
}
