// Package mailbox はセキュアメッセージのメールボックス操作を提供する。
//
// メッセージはユーザーごとに1つのコレクションとして保存され、受信箱・送信済み・ゴミ箱の
// 区分はMailboxフィールドから都度導出する。件数は保存しない。
package mailbox

import "github.com/hitoshi/careportal/internal/model"

// LocalSender は利用者自身が送信したメッセージの送信者名。
const LocalSender = "You"

// MailboxCounts はメールボックスごとの件数。
type MailboxCounts struct {
	Inbox   int `json:"inbox"`
	Sent    int `json:"sent"`
	Deleted int `json:"deleted"`
	// Unread は受信箱の未読件数
	Unread int `json:"unread"`
}

// Partition は指定メールボックスに属するメッセージを保存順のまま返す。
func Partition(msgs []model.Message, mailbox model.Mailbox) []model.Message {
	out := make([]model.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Mailbox == mailbox {
			out = append(out, m)
		}
	}
	return out
}

// Counts はメールボックスごとの件数を集計する。
func Counts(msgs []model.Message) MailboxCounts {
	var c MailboxCounts
	for _, m := range msgs {
		switch m.Mailbox {
		case model.MailboxInbox:
			c.Inbox++
			if m.IsNew {
				c.Unread++
			}
		case model.MailboxSent:
			c.Sent++
		case model.MailboxDeleted:
			c.Deleted++
		}
	}
	return c
}

// Find は指定IDのメッセージの位置を返す。存在しない場合は-1。
func Find(msgs []model.Message, id string) int {
	for i := range msgs {
		if msgs[i].ID == id {
			return i
		}
	}
	return -1
}

// Open はメッセージを既読にする。受信箱にある未読メッセージだけが変化する。
func Open(msgs []model.Message, id string) ([]model.Message, bool) {
	return update(msgs, id, func(m *model.Message) bool {
		if m.Mailbox != model.MailboxInbox || !m.IsNew {
			return false
		}
		m.IsNew = false
		return true
	})
}

// Delete はメッセージをゴミ箱に移す。
func Delete(msgs []model.Message, id string) ([]model.Message, bool) {
	return update(msgs, id, func(m *model.Message) bool {
		if m.Mailbox == model.MailboxDeleted {
			return false
		}
		m.Mailbox = model.MailboxDeleted
		return true
	})
}

// Restore はメッセージを元のメールボックスに戻す。
// 送信者が利用者自身であれば送信済み、それ以外は受信箱に戻す。
func Restore(msgs []model.Message, id string) ([]model.Message, bool) {
	return update(msgs, id, func(m *model.Message) bool {
		target := model.MailboxInbox
		if m.Sender == LocalSender {
			target = model.MailboxSent
		}
		if m.Mailbox == target {
			return false
		}
		m.Mailbox = target
		return true
	})
}

// Purge はメッセージを完全に削除する。
func Purge(msgs []model.Message, id string) ([]model.Message, bool) {
	idx := Find(msgs, id)
	if idx < 0 {
		return clone(msgs), false
	}
	out := make([]model.Message, 0, len(msgs)-1)
	out = append(out, msgs[:idx]...)
	out = append(out, msgs[idx+1:]...)
	return out, true
}

// update は複製したスライス上でfnを適用する。元のスライスは変更しない。
func update(msgs []model.Message, id string, fn func(*model.Message) bool) ([]model.Message, bool) {
	out := clone(msgs)
	idx := Find(out, id)
	if idx < 0 {
		return out, false
	}
	return out, fn(&out[idx])
}

func clone(msgs []model.Message) []model.Message {
	out := make([]model.Message, len(msgs))
	copy(out, msgs)
	return out
}
