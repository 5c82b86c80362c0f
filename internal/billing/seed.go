package billing

import "github.com/hitoshi/careportal/internal/model"

// SeedBills は請求一覧が未保存の場合に書き込む初期データを返す。
func SeedBills() []model.Bill {
	return []model.Bill{
		{ID: "bill1", Provider: "USF Health - Radiology", Amount: 180.0, DueDate: "2025-11-30", Status: model.BillStatusPending},
		{ID: "bill2", Provider: "General Practice - Dr. Smith", Amount: 75.0, DueDate: "2025-12-15", Status: model.BillStatusPending},
		{ID: "bill3", Provider: "Physical Therapy", Amount: 120.0, DueDate: "2025-10-01", Status: model.BillStatusOverdue},
	}
}

// SeedPayments は支払履歴が未保存の場合に書き込む初期データを返す。
// 旧データのpay1（Invoice #30220）は含めない。
func SeedPayments() []model.Payment {
	return []model.Payment{
		{ID: "pay2", Date: "2025-09-12", Invoice: "Invoice #31000", Department: "Physiology", Amount: 240.0, Status: model.PaymentStatusPaid},
		{ID: "pay3", Date: "2025-08-02", Invoice: "Invoice #30935", Department: "Imaging", Amount: 260.0, Status: model.PaymentStatusPaid},
	}
}

// retiredPayment は過去に初期データとして保存され、現在は読み込み時に取り除く支払。
var retiredPayment = model.Payment{
	ID:         "pay1",
	Invoice:    "Invoice #30220",
	Department: "Radiology",
	Amount:     120.0,
}

// RemoveRetired は旧初期データの支払を取り除く。
// IDが一致するもの、または請求番号・部署・金額が全て一致するものを除外する。
func RemoveRetired(payments []model.Payment) ([]model.Payment, bool) {
	out := make([]model.Payment, 0, len(payments))
	for _, p := range payments {
		if p.ID == retiredPayment.ID {
			continue
		}
		if p.Invoice == retiredPayment.Invoice &&
			p.Department == retiredPayment.Department &&
			p.Amount == retiredPayment.Amount {
			continue
		}
		out = append(out, p)
	}
	return out, len(out) != len(payments)
}
