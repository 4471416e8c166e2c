package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNotFound, "customer 42 not found")

	if err.Code != ErrCodeNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNotFound)
	}
	if err.Message != "customer 42 not found" {
		t.Errorf("Message = %v", err.Message)
	}
	if err.Underlying != nil {
		t.Error("Underlying should be nil for New error")
	}
	if len(err.Stack) == 0 {
		t.Error("Stack should be captured")
	}
	if err.Retryable {
		t.Error("Retryable should default to false")
	}
}

func TestWrap(t *testing.T) {
	underlying := errors.New("database is locked")
	err := Wrap(underlying, ErrCodeStorageWrite, "save customer")

	if err.Underlying != underlying {
		t.Error("Underlying should be preserved")
	}
	if !errors.Is(err, underlying) {
		t.Error("errors.Is should see the underlying error")
	}
	if !strings.Contains(err.Error(), "database is locked") {
		t.Error("Error string should include underlying error")
	}
	if !strings.Contains(err.Error(), "STORAGE_WRITE") {
		t.Error("Error string should include error code")
	}
}

func TestWrap_Nil(t *testing.T) {
	if err := Wrap(nil, ErrCodeInternal, "test"); err != nil {
		t.Error("Wrap of nil should return nil")
	}
}

func TestErrorContextIsSorted(t *testing.T) {
	err := New(ErrCodeFormInvalid, "bad field").
		WithContext("field", "email").
		WithContext("attempt", 2)

	want := "[FORM_INVALID] bad field {attempt: 2, field: email}"
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestIsCodeWalksChain(t *testing.T) {
	inner := New(ErrCodeNotFound, "missing")
	outer := Wrap(inner, ErrCodeFormLoad, "load form")
	wrapped := fmt.Errorf("controller: %w", outer)

	if !IsCode(wrapped, ErrCodeFormLoad) {
		t.Error("IsCode should find the outer code through fmt wrapping")
	}
	if !IsCode(wrapped, ErrCodeNotFound) {
		t.Error("IsCode should find the inner code")
	}
	if IsCode(wrapped, ErrCodeStorageRead) {
		t.Error("IsCode should not match an absent code")
	}
	if IsCode(nil, ErrCodeNotFound) {
		t.Error("IsCode should return false for nil")
	}
	if IsCode(errors.New("plain"), ErrCodeInternal) {
		t.Error("IsCode should return false for uncoded errors")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(Wrap(errors.New("x"), ErrCodeFormSave, "save")); got != ErrCodeFormSave {
		t.Errorf("GetCode = %v, want %v", got, ErrCodeFormSave)
	}
	if GetCode(nil) != "" {
		t.Error("GetCode should return empty string for nil")
	}
	if GetCode(errors.New("standard")) != ErrCodeInternal {
		t.Error("GetCode should return ErrCodeInternal for uncoded errors")
	}
}

func TestRetryable(t *testing.T) {
	busy := New(ErrCodeStorageWrite, "busy").WithRetryable(true)
	if !busy.IsRetryable() || !IsRetryable(fmt.Errorf("wrap: %w", busy)) {
		t.Error("retryable error should be reported through wrapping")
	}
	if IsRetryable(New(ErrCodeConfigInvalid, "bad config")) {
		t.Error("IsRetryable should return false for non-retryable error")
	}
	if IsRetryable(nil) || IsRetryable(errors.New("standard")) {
		t.Error("IsRetryable should return false for nil and uncoded errors")
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeFormSave, "write failed").
		WithUserMessage("Could not save the customer.").
		WithRemediation("check disk space", "retry")

	if got := UserMessage(err); got != "Could not save the customer." {
		t.Fatalf("UserMessage = %q", got)
	}
	if len(err.Remediation) != 2 {
		t.Fatalf("Remediation = %v", err.Remediation)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Fatalf("UserMessage fallback = %q", got)
	}
	if UserMessage(nil) != "" {
		t.Fatal("UserMessage(nil) should be empty")
	}
}

func TestStackTrace(t *testing.T) {
	err := New(ErrCodeInternal, "test error")
	trace := err.StackTrace()

	if !strings.Contains(trace, "Stack trace:") {
		t.Error("StackTrace should contain header")
	}
	found := false
	for _, frame := range err.Stack {
		if strings.Contains(frame.Function, "TestStackTrace") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("stack should start at the caller: %v", err.Stack)
	}
}

func TestRemediationWalksChain(t *testing.T) {
	inner := New(ErrCodeStorageOpen, "open").WithRemediation("check storage.path")
	outer := Wrap(fmt.Errorf("startup: %w", inner), ErrCodeInternal, "environment")

	tips := Remediation(outer)
	if len(tips) != 1 || tips[0] != "check storage.path" {
		t.Fatalf("Remediation() = %v", tips)
	}
	if Remediation(errors.New("plain")) != nil || Remediation(nil) != nil {
		t.Fatal("uncoded errors have no remediation")
	}
}
