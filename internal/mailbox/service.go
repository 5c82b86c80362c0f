package mailbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hitoshi/careportal/internal/metrics"
	"github.com/hitoshi/careportal/internal/model"
	"github.com/hitoshi/careportal/internal/repository"
	"github.com/hitoshi/careportal/internal/security"
)

const (
	// MaxBodyLength は本文の最大文字数。
	MaxBodyLength = 2000
	// previewLength はプレビューに使う本文の先頭文字数。
	previewLength = 100
	replyPrefix   = "Re: "
)

// Listing はメールボックス画面の表示内容。
type Listing struct {
	Mailbox  model.Mailbox   `json:"mailbox"`
	Messages []model.Message `json:"messages"`
	Counts   MailboxCounts   `json:"counts"`
}

// ComposeInput は新規メッセージの入力値。
type ComposeInput struct {
	RecipientID string
	Subject     string
	Body        string
}

// Service はユーザーのメールボックスに対する操作を提供する。
// メッセージ一覧は messages::<userId> に丸ごと保存する。
type Service struct {
	store     repository.DocumentStore
	sanitizer security.TextSanitizer
	metrics   metrics.MetricsCollector
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewService はServiceを生成する。
func NewService(store repository.DocumentStore, sanitizer security.TextSanitizer, mc metrics.MetricsCollector) *Service {
	if sanitizer == nil {
		sanitizer = security.NewTextSanitizer()
	}
	if mc == nil {
		mc = metrics.Nop{}
	}
	return &Service{
		store:     store,
		sanitizer: sanitizer,
		metrics:   mc,
		logger:    slog.Default(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// ParseMailbox はクエリ文字列をメールボックスに変換する。空文字列は受信箱として扱う。
func ParseMailbox(s string) (model.Mailbox, error) {
	switch m := model.Mailbox(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return model.MailboxInbox, nil
	case model.MailboxInbox, model.MailboxSent, model.MailboxDeleted:
		return m, nil
	default:
		return "", model.NewInvalidFilterError(s, "inbox, sent, deleted")
	}
}

func key(userID string) repository.Key {
	return repository.UserKey(repository.CollectionMessages, userID)
}

// load はメッセージ一覧を読み込む。
// 未保存の場合や解釈できない場合は初期メッセージを書き込んでから返す。
func (s *Service) load(ctx context.Context, userID string) ([]model.Message, error) {
	var msgs []model.Message
	found, err := repository.LoadJSON(ctx, s.store, key(userID), &msgs)
	switch {
	case err == nil && found:
		if msgs == nil {
			msgs = []model.Message{}
		}
		return msgs, nil
	case err != nil && !errors.Is(err, repository.ErrCorruptDocument):
		return nil, fmt.Errorf("メッセージ一覧の読み込みに失敗しました: %w", err)
	case err != nil:
		s.logger.Warn("corrupt mailbox document, reseeding",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	msgs = SeedMessages()
	if err := s.save(ctx, userID, msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *Service) save(ctx context.Context, userID string, msgs []model.Message) error {
	if err := repository.SaveJSON(ctx, s.store, key(userID), msgs); err != nil {
		return fmt.Errorf("メッセージ一覧の保存に失敗しました: %w", err)
	}
	return nil
}

// List は指定メールボックスのメッセージと全メールボックスの件数を返す。
func (s *Service) List(ctx context.Context, userID string, mailbox model.Mailbox) (*Listing, error) {
	msgs, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Listing{
		Mailbox:  mailbox,
		Messages: Partition(msgs, mailbox),
		Counts:   Counts(msgs),
	}, nil
}

// Get は指定メッセージを返す。既読にはしない。
func (s *Service) Get(ctx context.Context, userID, messageID string) (*model.Message, error) {
	msgs, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := Find(msgs, messageID)
	if idx < 0 {
		return nil, model.NewMessageNotFoundError(messageID)
	}
	m := msgs[idx]
	return &m, nil
}

// Open はメッセージを開いて既読にする。
func (s *Service) Open(ctx context.Context, userID, messageID string) (*model.Message, error) {
	return s.transition(ctx, userID, messageID, "opened", Open)
}

// Delete はメッセージをゴミ箱に移す。
func (s *Service) Delete(ctx context.Context, userID, messageID string) (*model.Message, error) {
	return s.transition(ctx, userID, messageID, "deleted", Delete)
}

// Restore はゴミ箱のメッセージを元のメールボックスに戻す。
func (s *Service) Restore(ctx context.Context, userID, messageID string) (*model.Message, error) {
	return s.transition(ctx, userID, messageID, "restored", Restore)
}

// Purge はメッセージを完全に削除する。
func (s *Service) Purge(ctx context.Context, userID, messageID string) error {
	msgs, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	next, changed := Purge(msgs, messageID)
	if !changed {
		return model.NewMessageNotFoundError(messageID)
	}
	if err := s.save(ctx, userID, next); err != nil {
		return err
	}
	s.metrics.RecordMessageAction("purged")
	s.logger.Info("message purged",
		slog.String("user_id", userID),
		slog.String("message_id", messageID),
	)
	return nil
}

// transition は状態遷移を適用し、変化があった場合のみ保存する。
func (s *Service) transition(
	ctx context.Context,
	userID, messageID, action string,
	apply func([]model.Message, string) ([]model.Message, bool),
) (*model.Message, error) {
	msgs, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if Find(msgs, messageID) < 0 {
		return nil, model.NewMessageNotFoundError(messageID)
	}

	next, changed := apply(msgs, messageID)
	if changed {
		if err := s.save(ctx, userID, next); err != nil {
			return nil, err
		}
		s.metrics.RecordMessageAction(action)
		s.logger.Info("message "+action,
			slog.String("user_id", userID),
			slog.String("message_id", messageID),
		)
	}

	m := next[Find(next, messageID)]
	return &m, nil
}

// Send は宛先一覧から選んだ相手にメッセージを送信し、送信済みに保存する。
func (s *Service) Send(ctx context.Context, userID string, in ComposeInput) (*model.Message, error) {
	recipient, ok := LookupRecipient(strings.TrimSpace(in.RecipientID))
	if !ok {
		return nil, model.NewInvalidMessageError("宛先を選択してください")
	}
	subject := s.sanitizer.Sanitize(in.Subject)
	if subject == "" {
		return nil, model.NewInvalidMessageError("件名を入力してください")
	}
	body, err := s.cleanBody(in.Body)
	if err != nil {
		return nil, err
	}

	m, err := s.appendSent(ctx, userID, recipient.Name, subject, body)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordMessageAction("sent")
	s.logger.Info("message sent",
		slog.String("user_id", userID),
		slog.String("message_id", m.ID),
		slog.String("recipient", recipient.ID),
	)
	return m, nil
}

// Reply は元メッセージの送信者に返信する。件名の "Re: " は重ねない。
func (s *Service) Reply(ctx context.Context, userID, messageID, rawBody string) (*model.Message, error) {
	body, err := s.cleanBody(rawBody)
	if err != nil {
		return nil, err
	}
	original, err := s.Get(ctx, userID, messageID)
	if err != nil {
		return nil, err
	}

	m, err := s.appendSent(ctx, userID, original.Sender, ReplySubject(original.Subject), body)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordMessageAction("replied")
	s.logger.Info("message replied",
		slog.String("user_id", userID),
		slog.String("message_id", m.ID),
		slog.String("in_reply_to", messageID),
	)
	return m, nil
}

// Recipients は宛先一覧を検索する。
func (s *Service) Recipients(query string) []model.Recipient {
	return SearchRecipients(query)
}

func (s *Service) cleanBody(raw string) (string, error) {
	body := s.sanitizer.Sanitize(raw)
	if body == "" {
		return "", model.NewInvalidMessageError("本文を入力してください")
	}
	if utf8.RuneCountInString(body) > MaxBodyLength {
		return "", model.NewInvalidMessageError(fmt.Sprintf("本文は%d文字以内で入力してください", MaxBodyLength))
	}
	return body, nil
}

func (s *Service) appendSent(ctx context.Context, userID, recipient, subject, body string) (*model.Message, error) {
	msgs, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	m := model.Message{
		ID:        "msg-" + s.newID(),
		Sender:    LocalSender,
		Recipient: recipient,
		Subject:   subject,
		Preview:   Preview(body),
		Date:      s.now().UTC().Format("2006-01-02T15:04:05.000Z"),
		Body:      body,
		IsNew:     false,
		Mailbox:   model.MailboxSent,
	}
	if err := s.save(ctx, userID, append(msgs, m)); err != nil {
		return nil, err
	}
	return &m, nil
}

// Preview は本文の先頭100文字を返す。切り詰めた場合は "..." を付ける。
func Preview(body string) string {
	if utf8.RuneCountInString(body) <= previewLength {
		return body
	}
	return string([]rune(body)[:previewLength]) + "..."
}

// ReplySubject は返信用の件名を返す。既に "Re: " で始まる場合はそのまま返す。
func ReplySubject(subject string) string {
	subject = strings.TrimSpace(subject)
	if strings.HasPrefix(strings.ToLower(subject), strings.ToLower(replyPrefix)) {
		return subject
	}
	return replyPrefix + subject
}
