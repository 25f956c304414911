package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad grid size: %d", -4)
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v", err.Code)
	}
	if want := "INVALID_INPUT: bad grid size: -4"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeStorage, cause, "save project %s", "p1")
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap should return cause")
	}
	if want := "STORAGE: save project p1: connection refused"; err.Error() != want {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeUnknownScreen, "x"), ErrCodeUnknownScreen, true},
		{"different code", New(ErrCodeUnknownScreen, "x"), ErrCodeNotFound, false},
		{"wrapped by fmt", fmt.Errorf("load: %w", New(ErrCodeProjectNotFound, "p1")), ErrCodeProjectNotFound, true},
		{"plain error", errors.New("x"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New(ErrCodeLocked, "element %s is locked", "logo"))
	if GetCode(err) != ErrCodeLocked {
		t.Errorf("GetCode = %q", GetCode(err))
	}
	if UserMessage(err) != "element logo is locked" {
		t.Errorf("UserMessage = %q", UserMessage(err))
	}
	if UserMessage(errors.New("plain")) != "plain" {
		t.Error("UserMessage should pass plain errors through")
	}
	if GetCode(errors.New("plain")) != "" {
		t.Error("GetCode of a plain error should be empty")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeUnknownScreen, http.StatusNotFound},
		{ErrCodeProjectNotFound, http.StatusNotFound},
		{ErrCodeLocked, http.StatusConflict},
		{ErrCodeStorage, http.StatusBadGateway},
		{ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(New(tt.code, "x")); got != tt.want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
	if HTTPStatus(errors.New("x")) != http.StatusInternalServerError {
		t.Error("uncoded errors should map to 500")
	}
}
