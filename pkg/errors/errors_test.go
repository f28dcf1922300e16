package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeUnknownWidget, "widget %q not found", "title")
	if err.Code != ErrCodeUnknownWidget {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeUnknownWidget)
	}
	want := `UNKNOWN_WIDGET: widget "title" not found`
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrCodeInvalidScene, cause, "decode scene.toml")
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	want := "INVALID_SCENE: decode scene.toml: unexpected EOF"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeInvalidInput, "x"), ErrCodeInvalidInput, true},
		{"other code", New(ErrCodeInvalidInput, "x"), ErrCodeUnresolved, false},
		{"outer code wins", Wrap(ErrCodeUnresolved, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeUnresolved, true},
		{"fmt wrapped", fmt.Errorf("solve: %w", New(ErrCodeUnresolved, "x")), ErrCodeUnresolved, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil", nil, ErrCodeInvalidInput, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeNotFound, "x")); got != ErrCodeNotFound {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeNotFound)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "width must be positive")); got != "width must be positive" {
		t.Errorf("UserMessage() = %v, want %v", got, "width must be positive")
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %v, want %v", got, "plain error")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeInvalidScene, "x"), http.StatusBadRequest},
		{New(ErrCodeUnknownWidget, "x"), http.StatusBadRequest},
		{New(ErrCodeUnresolved, "x"), http.StatusUnprocessableEntity},
		{New(ErrCodeNotFound, "x"), http.StatusNotFound},
		{New(ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestPrefix(t *testing.T) {
	err := Prefix(New(ErrCodeUnknownWidget, "unknown widget %q", "b"), "widget %q", "a")
	if !Is(err, ErrCodeUnknownWidget) {
		t.Errorf("GetCode() = %v, want %v", GetCode(err), ErrCodeUnknownWidget)
	}
	if got, want := UserMessage(err), `widget "a": unknown widget "b"`; got != want {
		t.Errorf("UserMessage() = %v, want %v", got, want)
	}

	plain := errors.New("boom")
	err = Prefix(plain, "solve")
	if !errors.Is(err, plain) || err.Error() != "solve: boom" {
		t.Errorf("Prefix(plain) = %v, want wrapped %v", err, plain)
	}
}
