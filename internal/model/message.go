package model

// Mailbox はメッセージの所属するメールボックスを表す。
type Mailbox string

const (
	// MailboxInbox は受信箱。
	MailboxInbox Mailbox = "inbox"
	// MailboxSent は送信済み。
	MailboxSent Mailbox = "sent"
	// MailboxDeleted はゴミ箱。
	MailboxDeleted Mailbox = "deleted"
)

// Message はセキュアメッセージを表す。
// IsNewはMailboxがinboxの間だけ意味を持つ。
type Message struct {
	ID        string  `json:"id"`
	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient,omitempty"`
	Subject   string  `json:"subject"`
	Preview   string  `json:"preview"`
	Date      string  `json:"date"`
	Body      string  `json:"body"`
	IsNew     bool    `json:"isNew"`
	Mailbox   Mailbox `json:"mailbox"`
}

// Recipient はメッセージの宛先（医師または部署）を表す。
type Recipient struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"` // "doctor" または "department"
	Specialty string `json:"specialty,omitempty"`
}
