package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/careportal/internal/model"
)

func TestMapAPIErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{model.ErrCodeAppointmentNotFound, http.StatusNotFound},
		{model.ErrCodeMessageNotFound, http.StatusNotFound},
		{model.ErrCodeUserNotFound, http.StatusNotFound},
		{model.ErrCodeAppointmentNotCancellable, http.StatusConflict},
		{model.ErrCodeAppointmentNotReschedulable, http.StatusConflict},
		{model.ErrCodeBillAlreadyPaid, http.StatusConflict},
		{model.ErrCodeEmailTaken, http.StatusConflict},
		{model.ErrCodeInvalidTimeSlot, http.StatusBadRequest},
		{model.ErrCodeInvalidFilter, http.StatusBadRequest},
		{model.ErrCodeInvalidPayment, http.StatusUnprocessableEntity},
		{model.ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := mapAPIErrorToHTTPStatus(&model.APIError{Code: tt.code}); got != tt.want {
				t.Errorf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

// ラップされたAPIErrorもコードに応じたステータスになる
func TestHandleServiceError_WrappedAPIError(t *testing.T) {
	w := httptest.NewRecorder()
	handleServiceError(w, fmt.Errorf("pay: %w", model.NewBillNotFoundError("bill9")))
	assertErrorCode(t, w, http.StatusNotFound, model.ErrCodeBillNotFound)
}

func TestHandleServiceError_PlainErrorIsInternal(t *testing.T) {
	w := httptest.NewRecorder()
	handleServiceError(w, errors.New("redis: connection refused"))
	assertErrorCode(t, w, http.StatusInternalServerError, "INTERNAL_ERROR")
}
