package billing

import (
	"strconv"
	"strings"
	"time"

	"github.com/hitoshi/careportal/internal/model"
)

// ValidateCard はカード情報の入力チェックを行う。
// 決済は行わないため、形式のみを確認する。有効期限は当月末まで有効とする。
func ValidateCard(card model.CardDetails, now time.Time) error {
	if strings.TrimSpace(card.Number) == "" ||
		strings.TrimSpace(card.Expiry) == "" ||
		strings.TrimSpace(card.CVV) == "" ||
		strings.TrimSpace(card.Owner) == "" ||
		strings.TrimSpace(card.Address) == "" ||
		!card.AgreeToTerms {
		return model.NewInvalidPaymentError("全ての支払情報を入力し、利用規約に同意してください")
	}

	number := digitsOnly(card.Number)
	if len(number) < 13 || len(number) > 19 {
		return model.NewInvalidPaymentError("カード番号の桁数が不正です")
	}

	cvv := digitsOnly(card.CVV)
	if len(cvv) != len(strings.TrimSpace(card.CVV)) || len(cvv) < 3 || len(cvv) > 4 {
		return model.NewInvalidPaymentError("セキュリティコードは3桁または4桁の数字です")
	}

	// "MM / YY" または "MMYY"
	expiry := digitsOnly(card.Expiry)
	if len(expiry) != 4 {
		return model.NewInvalidPaymentError("有効期限はMM / YY形式で入力してください")
	}
	month, _ := strconv.Atoi(expiry[:2])
	year, _ := strconv.Atoi(expiry[2:])
	if month < 1 || month > 12 {
		return model.NewInvalidPaymentError("有効期限の月が不正です")
	}
	expiresAt := time.Date(2000+year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	if !now.UTC().Before(expiresAt) {
		return model.NewInvalidPaymentError("カードの有効期限が切れています")
	}
	return nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
