package model

// BillStatus は請求の状態を表す。
type BillStatus string

const (
	// BillStatusPending は未払いの請求。
	BillStatusPending BillStatus = "Pending"
	// BillStatusPaid は支払済みの請求。
	BillStatusPaid BillStatus = "Paid"
	// BillStatusOverdue は支払期限を過ぎた請求。
	BillStatusOverdue BillStatus = "Overdue"
)

// Bill は医療機関からの請求を表す。
type Bill struct {
	ID       string     `json:"id"`
	Provider string     `json:"provider"`
	Amount   float64    `json:"amount"`
	DueDate  string     `json:"dueDate"`
	Status   BillStatus `json:"status"`
}

// PaymentStatus は支払履歴の状態を表す。
type PaymentStatus string

const (
	// PaymentStatusPending は処理中の支払。
	PaymentStatusPending PaymentStatus = "Pending"
	// PaymentStatusPaid は完了した支払。
	PaymentStatusPaid PaymentStatus = "Paid"
)

// Payment は支払履歴の1行を表す。
type Payment struct {
	ID         string        `json:"id"`
	Date       string        `json:"date"`
	Invoice    string        `json:"invoice"`
	Department string        `json:"department"`
	Amount     float64       `json:"amount"`
	Status     PaymentStatus `json:"status"`
}

// CardDetails は支払に使うカード情報を表す。
// 永続化はせず、入力チェックにのみ使用する。
type CardDetails struct {
	Number       string
	Expiry       string
	CVV          string
	Owner        string
	Address      string
	AgreeToTerms bool
}
