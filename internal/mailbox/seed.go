package mailbox

import "github.com/hitoshi/careportal/internal/model"

// SeedMessages は初回アクセス時にユーザーのメールボックスへ書き込む初期メッセージを返す。
// 呼び出しごとに新しいスライスを返す。
func SeedMessages() []model.Message {
	return []model.Message{
		{
			ID:        "msg1",
			Sender:    "Dr. Sarah Johnson",
			Recipient: LocalSender,
			Subject:   "Lab Results Available",
			Preview:   "Your lab results are now available in the Test Results Section. Please review them at your convenience.",
			Date:      "2025-01-18T10:30:00",
			Body:      "Dear Patient,\n\nYour recent lab results from your visit on January 15, 2025, are now available for your review in the Test Results section of MyChart. All results appear to be within normal limits. If you have any questions, please feel free to send a follow-up message or schedule an appointment.\n\nSincerely,\nDr. Sarah Johnson",
			IsNew:     true,
			Mailbox:   model.MailboxInbox,
		},
		{
			ID:        "msg2",
			Sender:    "Appointment Reminders",
			Recipient: LocalSender,
			Subject:   "Upcoming Appointment Reminder",
			Preview:   "This is a reminder of your upcoming appointment on February 5, 2025, at 10:00 AM with Dr. Emily Johnson.",
			Date:      "2025-01-17T14:00:00",
			Body:      "Dear Patient,\n\nThis is a friendly reminder about your upcoming appointment:\n\nDate: February 5, 2025\nTime: 10:00 AM\nProvider: Dr. Emily Johnson\nLocation: Main Clinic, Room 305\n\nPlease arrive 15 minutes early to complete any necessary paperwork. If you need to reschedule or cancel, please do so at least 24 hours in advance through MyChart or by calling our office.\n\nThank you,\nMyChart Team",
			IsNew:     true,
			Mailbox:   model.MailboxInbox,
		},
		{
			ID:        "msg3",
			Sender:    "Dr. Michael Chen",
			Recipient: LocalSender,
			Subject:   "Re: Follow-up Question",
			Preview:   "Thank you for your question. Based on your symptoms this...",
			Date:      "2025-01-15T09:20:00",
			Body:      "Dear Patient,\n\nThank you for your message regarding your recent symptoms. Based on the information you provided, it sounds like you might be experiencing seasonal allergies. I recommend trying an over-the-counter antihistamine like Zyrtec or Claritin for a week. If your symptoms do not improve or worsen, please schedule a follow-up telehealth visit so we can discuss further.\n\nBest regards,\nDr. Michael Chen",
			IsNew:     false,
			Mailbox:   model.MailboxInbox,
		},
		{
			ID:        "msg4",
			Sender:    LocalSender,
			Recipient: "Dr. Michael Chen",
			Subject:   "Follow-up Question",
			Preview:   "I've been experiencing some allergy-like symptoms...",
			Date:      "2025-01-14T16:45:00",
			Body:      "Dear Dr. Chen,\n\nI've been experiencing some allergy-like symptoms for the past few days - sneezing, runny nose, and itchy eyes. I'm not sure if this is related to my recent visit or if it's just seasonal allergies. Should I be concerned?\n\nThank you,\nPatient",
			IsNew:     false,
			Mailbox:   model.MailboxSent,
		},
		{
			ID:        "msg5",
			Sender:    "Billing Department",
			Recipient: LocalSender,
			Subject:   "Your Recent Payment Confirmation",
			Preview:   "Your payment for Invoice #31000 has been successfully processed.",
			Date:      "2024-12-12T11:30:00",
			Body:      "Dear Patient,\n\nThis message confirms that your payment of $240.00 for Invoice #31000 (Physiology Department) has been successfully processed on December 12, 2024. Your current balance is now zero. A detailed receipt is available for download in the Billing & Payments section.\n\nThank you for your prompt payment.\n\nSincerely,\nMyChart Billing Department",
			IsNew:     false,
			Mailbox:   model.MailboxDeleted,
		},
	}
}
