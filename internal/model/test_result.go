package model

// TestResultStatus は検査結果の状態を表す。
type TestResultStatus string

const (
	TestResultStatusNormal   TestResultStatus = "Normal"
	TestResultStatusAbnormal TestResultStatus = "Abnormal"
	TestResultStatusPending  TestResultStatus = "Pending"
	TestResultStatusArchived TestResultStatus = "Archived"
)

// Analyte は検査項目1件の結果を表す。
type Analyte struct {
	Name      string `json:"name"`
	Result    string `json:"result"`
	Reference string `json:"reference"`
	// OutOfRange は基準範囲外の場合にtrue。保存値ではなく表示時に算出する。
	OutOfRange bool `json:"outOfRange"`
}

// TestResult は臨床検査の結果を表す。
type TestResult struct {
	ID            string           `json:"id"`
	UserID        string           `json:"userId"`
	Name          string           `json:"name"`
	CollectedDate string           `json:"collectedDate"`
	OrderedBy     string           `json:"orderedBy"`
	Lab           string           `json:"lab,omitempty"`
	LabLocation   string           `json:"labLocation,omitempty"`
	Status        TestResultStatus `json:"status"`
	KeyValues     string           `json:"keyValues,omitempty"`
	FlaggedNotes  string           `json:"flaggedNotes,omitempty"`
	Analytes      []Analyte        `json:"analytes"`
	DoctorNote    string           `json:"doctorNote,omitempty"`
}
