// Package billing は請求と支払履歴を扱う。
//
// 請求一覧と支払履歴は mock_bills / mock_payment_history のグローバルキーに保存され、
// 全ユーザーで共有される。
package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/careportal/internal/metrics"
	"github.com/hitoshi/careportal/internal/model"
	"github.com/hitoshi/careportal/internal/repository"
)

// Summary は請求画面の表示内容。
type Summary struct {
	Outstanding []model.Bill    `json:"outstanding"`
	Payments    []model.Payment `json:"payments"`
	// Balance は未払い請求の合計額
	Balance float64 `json:"balance"`
}

// Receipt は支払完了時の結果。
type Receipt struct {
	Bill    model.Bill    `json:"bill"`
	Payment model.Payment `json:"payment"`
}

// Service は請求の参照と支払を提供する。
type Service struct {
	store   repository.DocumentStore
	metrics metrics.MetricsCollector
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
	// invoiceNumber は0以上100000未満の請求番号を返す
	invoiceNumber func() int
}

// NewService はServiceを生成する。
func NewService(store repository.DocumentStore, mc metrics.MetricsCollector) *Service {
	if mc == nil {
		mc = metrics.Nop{}
	}
	return &Service{
		store:         store,
		metrics:       mc,
		logger:        slog.Default(),
		now:           time.Now,
		newID:         uuid.NewString,
		invoiceNumber: func() int { return rand.Intn(100000) },
	}
}

// Outstanding は支払済み以外の請求を保存順で返す。
func Outstanding(bills []model.Bill) []model.Bill {
	out := make([]model.Bill, 0, len(bills))
	for _, b := range bills {
		if b.Status != model.BillStatusPaid {
			out = append(out, b)
		}
	}
	return out
}

// Department は請求元の " - " より前の部分を部署名として返す。
func Department(provider string) string {
	dept, _, _ := strings.Cut(provider, " - ")
	return strings.TrimSpace(dept)
}

// Summary は未払い請求と支払履歴を返す。
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	bills, err := s.loadBills(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.loadPayments(ctx)
	if err != nil {
		return nil, err
	}

	outstanding := Outstanding(bills)
	var balance float64
	for _, b := range outstanding {
		balance += b.Amount
	}
	return &Summary{Outstanding: outstanding, Payments: payments, Balance: balance}, nil
}

// GetBill は指定請求を返す。
func (s *Service) GetBill(ctx context.Context, billID string) (*model.Bill, error) {
	bills, err := s.loadBills(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range bills {
		if b.ID == billID {
			return &b, nil
		}
	}
	return nil, model.NewBillNotFoundError(billID)
}

// GetPayment は指定支払履歴を返す。
func (s *Service) GetPayment(ctx context.Context, paymentID string) (*model.Payment, error) {
	payments, err := s.loadPayments(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range payments {
		if p.ID == paymentID {
			return &p, nil
		}
	}
	return nil, model.NewPaymentNotFoundError(paymentID)
}

// Pay は請求を支払済みにし、支払履歴の先頭に1件追加する。
// userIDはログにのみ使用する。支払済みの請求にはBILL_ALREADY_PAIDを返す。
func (s *Service) Pay(ctx context.Context, userID, billID string, card model.CardDetails) (*Receipt, error) {
	if err := ValidateCard(card, s.now()); err != nil {
		return nil, err
	}

	bills, err := s.loadBills(ctx)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range bills {
		if bills[i].ID == billID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, model.NewBillNotFoundError(billID)
	}
	if bills[idx].Status == model.BillStatusPaid {
		return nil, model.NewBillAlreadyPaidError(billID)
	}

	payments, err := s.loadPayments(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	bills[idx].Status = model.BillStatusPaid
	payment := model.Payment{
		ID:         "pay-" + s.newID(),
		Date:       now.UTC().Format(time.DateOnly),
		Invoice:    fmt.Sprintf("Invoice #%d", s.invoiceNumber()),
		Department: Department(bills[idx].Provider),
		Amount:     bills[idx].Amount,
		Status:     model.PaymentStatusPaid,
	}

	// 1. 請求を支払済みに更新
	if err := s.saveBills(ctx, bills); err != nil {
		return nil, err
	}
	// 2. 支払履歴の先頭に追加
	payments = append([]model.Payment{payment}, payments...)
	if err := s.savePayments(ctx, payments); err != nil {
		return nil, err
	}

	s.metrics.RecordPayment(payment.Amount)
	s.logger.Info("bill paid",
		slog.String("user_id", userID),
		slog.String("bill_id", billID),
		slog.String("payment_id", payment.ID),
		slog.String("amount", strconv.FormatFloat(payment.Amount, 'f', 2, 64)),
	)
	return &Receipt{Bill: bills[idx], Payment: payment}, nil
}

// loadBills は請求一覧を読み込む。未保存または解釈できない場合は初期データを書き込む。
func (s *Service) loadBills(ctx context.Context) ([]model.Bill, error) {
	k := repository.GlobalKey(repository.CollectionBills)
	var bills []model.Bill
	ok, err := s.loadOrReseed(ctx, k, &bills)
	if err != nil {
		return nil, err
	}
	if !ok {
		bills = SeedBills()
		if err := s.saveBills(ctx, bills); err != nil {
			return nil, err
		}
	}
	return bills, nil
}

// loadPayments は支払履歴を読み込み、旧初期データの支払を取り除く。
// 取り除いた場合はその結果を保存する。
func (s *Service) loadPayments(ctx context.Context) ([]model.Payment, error) {
	k := repository.GlobalKey(repository.CollectionPaymentHistory)
	var payments []model.Payment
	ok, err := s.loadOrReseed(ctx, k, &payments)
	if err != nil {
		return nil, err
	}
	if !ok {
		payments = SeedPayments()
		if err := s.savePayments(ctx, payments); err != nil {
			return nil, err
		}
		return payments, nil
	}

	cleaned, removed := RemoveRetired(payments)
	if removed {
		if err := s.savePayments(ctx, cleaned); err != nil {
			return nil, err
		}
	}
	return cleaned, nil
}

// loadOrReseed はドキュメントを読み込む。初期データを書き込むべき場合はfalseを返す。
func (s *Service) loadOrReseed(ctx context.Context, k repository.Key, v any) (bool, error) {
	found, err := repository.LoadJSON(ctx, s.store, k, v)
	if err != nil {
		if !errors.Is(err, repository.ErrCorruptDocument) {
			return false, fmt.Errorf("%sの読み込みに失敗しました: %w", k, err)
		}
		s.logger.Warn("corrupt billing document, reseeding",
			slog.String("key", k.String()),
			slog.String("error", err.Error()),
		)
		return false, nil
	}
	return found, nil
}

func (s *Service) saveBills(ctx context.Context, bills []model.Bill) error {
	if err := repository.SaveJSON(ctx, s.store, repository.GlobalKey(repository.CollectionBills), bills); err != nil {
		return fmt.Errorf("請求一覧の保存に失敗しました: %w", err)
	}
	return nil
}

func (s *Service) savePayments(ctx context.Context, payments []model.Payment) error {
	if err := repository.SaveJSON(ctx, s.store, repository.GlobalKey(repository.CollectionPaymentHistory), payments); err != nil {
		return fmt.Errorf("支払履歴の保存に失敗しました: %w", err)
	}
	return nil
}
