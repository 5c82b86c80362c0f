// Package medication は処方薬一覧の参照を提供する。一覧は読み取り専用の固定データ。
package medication

import (
	"strings"

	"github.com/hitoshi/careportal/internal/model"
)

// Listing は処方薬画面の表示内容。
type Listing struct {
	Medications []model.Medication `json:"medications"`
	Reminders   []string           `json:"reminders"`
	// NeedsRefill は補充が必要な処方薬の件数
	NeedsRefill int `json:"needsRefill"`
}

// Service は処方薬の参照を提供する。
type Service struct {
	medications []model.Medication
}

// NewService は固定データを持つServiceを生成する。
func NewService() *Service {
	return &Service{medications: catalog}
}

// ParseStatus はクエリ文字列を処方薬の状態に変換する。
// 空文字列は全件を表し、"needs-refill" のようなハイフン区切りも受け付ける。
func ParseStatus(s string) (model.MedicationStatus, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", " "))
	if normalized == "" {
		return "", nil
	}
	for _, st := range []model.MedicationStatus{
		model.MedicationStatusActive,
		model.MedicationStatusNeedsRefill,
		model.MedicationStatusDiscontinued,
	} {
		if strings.ToLower(string(st)) == normalized {
			return st, nil
		}
	}
	return "", model.NewInvalidFilterError(s, "active, needs-refill, discontinued")
}

// List は指定状態の処方薬を返す。statusが空の場合は全件を返す。
func (s *Service) List(status model.MedicationStatus) *Listing {
	l := &Listing{
		Medications: make([]model.Medication, 0, len(s.medications)),
		Reminders:   Reminders,
	}
	for _, m := range s.medications {
		if m.Status == model.MedicationStatusNeedsRefill {
			l.NeedsRefill++
		}
		if status == "" || m.Status == status {
			l.Medications = append(l.Medications, m)
		}
	}
	return l
}

// Get は指定処方薬を返す。見つからない場合はMEDICATION_NOT_FOUNDを返す。
func (s *Service) Get(id string) (*model.Medication, error) {
	for _, m := range s.medications {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, model.NewMedicationNotFoundError(id)
}
