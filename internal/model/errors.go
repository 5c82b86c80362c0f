package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, appointment, message, billing, clinical, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeAppointmentNotFound         = "APPOINTMENT_NOT_FOUND"
	ErrCodeAppointmentNotCancellable   = "APPOINTMENT_NOT_CANCELLABLE"
	ErrCodeAppointmentNotReschedulable = "APPOINTMENT_NOT_RESCHEDULABLE"
	ErrCodeInvalidAppointment          = "INVALID_APPOINTMENT"
	ErrCodeInvalidTimeSlot             = "INVALID_TIME_SLOT"
	ErrCodeMessageNotFound             = "MESSAGE_NOT_FOUND"
	ErrCodeInvalidMessage              = "INVALID_MESSAGE"
	ErrCodeBillNotFound                = "BILL_NOT_FOUND"
	ErrCodeBillAlreadyPaid             = "BILL_ALREADY_PAID"
	ErrCodePaymentNotFound             = "PAYMENT_NOT_FOUND"
	ErrCodeInvalidPayment              = "INVALID_PAYMENT"
	ErrCodeEmailTaken                  = "EMAIL_TAKEN"
	ErrCodeInvalidCredentials          = "INVALID_CREDENTIALS"
	ErrCodeInvalidRegistration         = "INVALID_REGISTRATION"
	ErrCodeResultNotFound              = "RESULT_NOT_FOUND"
	ErrCodeMedicationNotFound          = "MEDICATION_NOT_FOUND"
	ErrCodeInvalidFilter               = "INVALID_FILTER"
	ErrCodeUserNotFound                = "USER_NOT_FOUND"
)

// NewAppointmentNotFoundError は予約未検出エラーを生成する。
func NewAppointmentNotFoundError(appointmentID string) *APIError {
	return &APIError{
		Code:     ErrCodeAppointmentNotFound,
		Message:  fmt.Sprintf("指定された予約が見つかりません: %s", appointmentID),
		Category: "appointment",
		Action:   "予約一覧から対象の予約を選択し直してください。",
	}
}

// NewAppointmentNotCancellableError は予約がキャンセルできない状態の場合のエラーを生成する。
func NewAppointmentNotCancellableError(status AppointmentStatus) *APIError {
	return &APIError{
		Code:     ErrCodeAppointmentNotCancellable,
		Message:  fmt.Sprintf("この予約はキャンセルできません（状態: %s）。", status),
		Category: "appointment",
		Action:   "キャンセルは受診予定（Upcoming）の予約に対してのみ実行できます。",
	}
}

// NewAppointmentNotReschedulableError は予約が再予約できない状態の場合のエラーを生成する。
func NewAppointmentNotReschedulableError(status AppointmentStatus) *APIError {
	return &APIError{
		Code:     ErrCodeAppointmentNotReschedulable,
		Message:  fmt.Sprintf("この予約は日時を変更できません（状態: %s）。", status),
		Category: "appointment",
		Action:   "キャンセル済みや受診済みの予約は、新しい予約として作成してください。",
	}
}

// NewInvalidAppointmentError は予約内容が不正な場合のエラーを生成する。
func NewInvalidAppointmentError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidAppointment,
		Message:  fmt.Sprintf("予約内容が不正です: %s", reason),
		Category: "validation",
		Action:   "受診種別、医師、理由、日付、時間帯をすべて入力してください。",
	}
}

// NewInvalidTimeSlotError は医師の受付枠にない時間帯が指定された場合のエラーを生成する。
func NewInvalidTimeSlotError(doctor, slot string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidTimeSlot,
		Message:  fmt.Sprintf("指定された時間帯は選択できません: %s (%s)", slot, doctor),
		Category: "validation",
		Action:   "医師ごとに表示される時間帯から選択してください。",
	}
}

// NewMessageNotFoundError はメッセージ未検出エラーを生成する。
func NewMessageNotFoundError(messageID string) *APIError {
	return &APIError{
		Code:     ErrCodeMessageNotFound,
		Message:  fmt.Sprintf("指定されたメッセージが見つかりません: %s", messageID),
		Category: "message",
		Action:   "メッセージ一覧を再読み込みしてください。",
	}
}

// NewInvalidMessageError はメッセージ内容が不正な場合のエラーを生成する。
func NewInvalidMessageError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidMessage,
		Message:  fmt.Sprintf("メッセージ内容が不正です: %s", reason),
		Category: "validation",
		Action:   "宛先、件名、本文（2000文字以内）を入力してください。",
	}
}

// NewBillNotFoundError は請求未検出エラーを生成する。
func NewBillNotFoundError(billID string) *APIError {
	return &APIError{
		Code:     ErrCodeBillNotFound,
		Message:  fmt.Sprintf("指定された請求が見つかりません: %s", billID),
		Category: "billing",
		Action:   "請求一覧から対象の請求を選択し直してください。",
	}
}

// NewBillAlreadyPaidError は支払済みの請求を再度支払おうとした場合のエラーを生成する。
func NewBillAlreadyPaidError(billID string) *APIError {
	return &APIError{
		Code:     ErrCodeBillAlreadyPaid,
		Message:  fmt.Sprintf("この請求は既に支払済みです: %s", billID),
		Category: "billing",
		Action:   "支払履歴を確認してください。",
	}
}

// NewPaymentNotFoundError は支払履歴未検出エラーを生成する。
func NewPaymentNotFoundError(paymentID string) *APIError {
	return &APIError{
		Code:     ErrCodePaymentNotFound,
		Message:  fmt.Sprintf("指定された支払履歴が見つかりません: %s", paymentID),
		Category: "billing",
		Action:   "支払履歴から対象の行を選択し直してください。",
	}
}

// NewInvalidPaymentError は支払情報が不正な場合のエラーを生成する。
func NewInvalidPaymentError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPayment,
		Message:  fmt.Sprintf("支払情報が不正です: %s", reason),
		Category: "validation",
		Action:   "カード番号、有効期限、CVV、名義、住所を入力し、利用規約に同意してください。",
	}
}

// NewEmailTakenError はメールアドレスが既に登録されている場合のエラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "auth",
		Action:   "ログインするか、別のメールアドレスを使用してください。",
	}
}

// NewInvalidCredentialsError は認証情報が一致しない場合のエラーを生成する。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "ユーザー名またはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して、再度ログインしてください。",
	}
}

// NewInvalidRegistrationError は登録内容が不正な場合のエラーを生成する。
func NewInvalidRegistrationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRegistration,
		Message:  fmt.Sprintf("登録内容が不正です: %s", reason),
		Category: "validation",
		Action:   "すべての項目を入力し、パスワードは6文字以上で確認用と一致させてください。",
	}
}

// NewResultNotFoundError は検査結果未検出エラーを生成する。
func NewResultNotFoundError(resultID string) *APIError {
	return &APIError{
		Code:     ErrCodeResultNotFound,
		Message:  fmt.Sprintf("指定された検査結果が見つかりません: %s", resultID),
		Category: "clinical",
		Action:   "検査結果一覧から対象の結果を選択し直してください。",
	}
}

// NewMedicationNotFoundError は処方薬未検出エラーを生成する。
func NewMedicationNotFoundError(medicationID string) *APIError {
	return &APIError{
		Code:     ErrCodeMedicationNotFound,
		Message:  fmt.Sprintf("指定された処方薬が見つかりません: %s", medicationID),
		Category: "clinical",
		Action:   "処方薬一覧から対象の薬を選択し直してください。",
	}
}

// NewInvalidFilterError は無効なフィルタエラーを生成する。
// allowed には指定可能な値の説明を渡す。
func NewInvalidFilterError(filter, allowed string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidFilter,
		Message:  fmt.Sprintf("無効なフィルタです: %s", filter),
		Category: "validation",
		Action:   fmt.Sprintf("フィルタには %s のいずれかを指定してください。", allowed),
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}
