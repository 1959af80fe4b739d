package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad bins")
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidInput, err.Code)
	}
	if err.Message != "bad bins" {
		t.Errorf("expected message 'bad bins', got %q", err.Message)
	}
	if err.Retryable {
		t.Error("INVALID_INPUT should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeIO, "read failed")
	if !err.Retryable {
		t.Error("IO_ERROR should be retryable")
	}
}

func TestAppError_MissingField_Success(t *testing.T) {
	err := MissingField("neuHadFrac", []string{"eta", "pt"})
	if err.Code != ErrCodeMissingField {
		t.Errorf("expected MISSING_FIELD, got %s", err.Code)
	}
	if err.Details["field"] != "neuHadFrac" {
		t.Errorf("expected field=neuHadFrac, got %v", err.Details["field"])
	}
	if !strings.Contains(err.Message, "eta, pt") {
		t.Errorf("expected available fields in message, got %q", err.Message)
	}
	if err.Retryable {
		t.Error("MissingField should not be retryable")
	}
}

func TestAppError_TypeMismatch_Success(t *testing.T) {
	err := TypeMismatch("Muon", "sequence", "scalar")
	if err.Code != ErrCodeTypeMismatch {
		t.Errorf("expected TYPE_MISMATCH, got %s", err.Code)
	}
	if err.Details["expected"] != "sequence" || err.Details["actual"] != "scalar" {
		t.Errorf("unexpected details %v", err.Details)
	}
}

func TestAppError_Decode_Success(t *testing.T) {
	cause := fmt.Errorf("unexpected EOF")
	err := Decode("events.jsons", 128, cause)
	if err.Code != ErrCodeDecode {
		t.Errorf("expected DECODE_ERROR, got %s", err.Code)
	}
	if err.Details["offset"] != int64(128) {
		t.Errorf("expected offset=128, got %v", err.Details["offset"])
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestAppError_IO_Retryable(t *testing.T) {
	err := IO("events.jsons", fmt.Errorf("disk gone"))
	if !err.Retryable {
		t.Error("IO should be retryable")
	}
}

func TestAppError_InvalidInput_Success(t *testing.T) {
	err := InvalidInput("edges", "must be ascending")
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", err.Code)
	}
	if err.Details["field"] != "edges" {
		t.Errorf("expected field=edges, got %v", err.Details["field"])
	}
}

func TestAppError_InvalidInput_NoField(t *testing.T) {
	err := InvalidInput("", "nope")
	if _, ok := err.Details["field"]; ok {
		t.Error("expected no 'field' key in details when field is empty")
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := InvalidConfig("bad").WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set via WithCause")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := MissingField("pt", nil).WithDetails(map[string]any{"partition": 3})
	if err.Details["partition"] != 3 {
		t.Errorf("expected partition=3 in details")
	}
	if err.Details["field"] != "pt" {
		t.Error("expected original details to be preserved")
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestAppError_Is_ByCode(t *testing.T) {
	wrapped := fmt.Errorf("jet 2: %w", MissingField("mva", nil))
	if !stderrors.Is(wrapped, &AppError{Code: ErrCodeMissingField}) {
		t.Error("expected errors.Is to match on code")
	}
	if stderrors.Is(wrapped, &AppError{Code: ErrCodeTypeMismatch}) {
		t.Error("expected errors.Is not to match a different code")
	}
}

func TestHasCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"direct", MissingField("x", nil), ErrCodeMissingField, true},
		{"wrapped", fmt.Errorf("ctx: %w", IO("f", nil)), ErrCodeIO, true},
		{"other code", Internal(nil), ErrCodeIO, false},
		{"plain error", fmt.Errorf("plain"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasCode(tc.err, tc.code); got != tc.want {
				t.Errorf("HasCode = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAsAppError(t *testing.T) {
	if _, ok := AsAppError(fmt.Errorf("plain")); ok {
		t.Error("plain error should not convert")
	}
	appErr, ok := AsAppError(fmt.Errorf("wrap: %w", UnsupportedShape("chan int")))
	if !ok {
		t.Fatal("expected wrapped AppError to convert")
	}
	if appErr.Code != ErrCodeUnsupportedShape {
		t.Errorf("expected UNSUPPORTED_SHAPE, got %s", appErr.Code)
	}
	if !IsAppError(appErr) {
		t.Error("IsAppError should be true")
	}
}
