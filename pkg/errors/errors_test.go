package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeUnknownModelType, "unknown model type: %s", "int")

	if err.Code != ErrCodeUnknownModelType {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeUnknownModelType)
	}
	if err.Message != "unknown model type: int" {
		t.Errorf("Message = %q", err.Message)
	}
	if !strings.Contains(err.Error(), "UNKNOWN_MODEL_TYPE") {
		t.Errorf("Error() = %q, want code prefix", err.Error())
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(ErrCodeInvalidManifest, cause, "parse %s", "schema.toml")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("Error() = %q, want cause included", err.Error())
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"Match", New(ErrCodeUnknownField, "nope"), ErrCodeUnknownField, true},
		{"Mismatch", New(ErrCodeUnknownField, "nope"), ErrCodeInvalidModel, false},
		{"WrappedMatch", fmt.Errorf("outer: %w", New(ErrCodeStringForwardRef, "ref")), ErrCodeStringForwardRef, true},
		{"PlainError", stderrors.New("plain"), ErrCodeInternal, false},
		{"Nil", nil, ErrCodeInternal, false},
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
	if got := GetCode(New(ErrCodeUnevaluatedForwardRef, "x")); got != ErrCodeUnevaluatedForwardRef {
		t.Errorf("GetCode = %q", got)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode on plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidFormat, "invalid format: tiff")
	if got := UserMessage(err); got != "invalid format: tiff" {
		t.Errorf("UserMessage = %q", got)
	}
	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage on plain error = %q", got)
	}
}
