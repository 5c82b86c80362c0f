package mailbox

import (
	"strings"

	"github.com/hitoshi/careportal/internal/model"
)

// 宛先の種別
const (
	RecipientDoctor     = "doctor"
	RecipientDepartment = "department"
)

var directory = []model.Recipient{
	{ID: "doc1", Name: "Dr. Sarah Johnson", Type: RecipientDoctor, Specialty: "Radiology"},
	{ID: "doc2", Name: "Dr. Emily Johnson", Type: RecipientDoctor, Specialty: "Physiology"},
	{ID: "doc3", Name: "Dr. Michael Chen", Type: RecipientDoctor, Specialty: "Allergist"},
	{ID: "doc4", Name: "Dr. John Miller", Type: RecipientDoctor, Specialty: "Pulmonology"},
	{ID: "doc5", Name: "Dr. Maria Gomez", Type: RecipientDoctor, Specialty: "Neurology"},
	{ID: "dept1", Name: "Billing Department", Type: RecipientDepartment, Specialty: "Billing & Payments"},
	{ID: "dept2", Name: "Appointments Desk", Type: RecipientDepartment, Specialty: "Scheduling"},
	{ID: "dept3", Name: "IT Support", Type: RecipientDepartment, Specialty: "Technical Assistance"},
}

// SearchRecipients は名前と専門分野に検索語を含む宛先を返す。
// 検索語が空の場合は全件を返す。大文字小文字は区別しない。
func SearchRecipients(query string) []model.Recipient {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Recipient, 0, len(directory))
	for _, r := range directory {
		if q == "" || strings.Contains(strings.ToLower(r.Name+" "+r.Specialty), q) {
			out = append(out, r)
		}
	}
	return out
}

// LookupRecipient はIDで宛先を検索する。
func LookupRecipient(id string) (model.Recipient, bool) {
	for _, r := range directory {
		if r.ID == id {
			return r, true
		}
	}
	return model.Recipient{}, false
}
