package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad value %d", 7)
	if got, want := err.Error(), "INVALID_INPUT: bad value 7"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := Wrap(ErrCodeCodecCorrupt, stderrors.New("boom"), "decode failed")
	if got, want := wrapped.Error(), "CODEC_CORRUPT: decode failed: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("root cause")
	err := Wrap(ErrCodeInternal, cause, "while processing")

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeQueryEmpty, "empty")

	if !Is(err, ErrCodeQueryEmpty) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeQueryUnknownUser) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeQueryEmpty) {
		t.Error("Is should not match a plain error")
	}
	if Is(nil, ErrCodeQueryEmpty) {
		t.Error("Is should not match nil")
	}

	// Codes survive fmt wrapping.
	deep := fmt.Errorf("outer: %w", err)
	if !Is(deep, ErrCodeQueryEmpty) {
		t.Error("Is should unwrap through fmt.Errorf")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeFileNotFound, "gone")); got != ErrCodeFileNotFound {
		t.Errorf("GetCode = %s, want FILE_NOT_FOUND", got)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode for a plain error = %q, want empty", got)
	}
}

func TestClassifiers(t *testing.T) {
	tests := []struct {
		code  Code
		codec bool
		query bool
	}{
		{ErrCodeCodecEmpty, true, false},
		{ErrCodeCodecCorrupt, true, false},
		{ErrCodeCodecTooShort, true, false},
		{ErrCodeCodecVersion, true, false},
		{ErrCodeQueryEmpty, false, true},
		{ErrCodeQueryUnknownUser, false, true},
		{ErrCodeInvalidInput, false, false},
		{ErrCodeInternal, false, false},
	}

	for _, tt := range tests {
		err := New(tt.code, "x")
		if got := IsCodec(err); got != tt.codec {
			t.Errorf("IsCodec(%s) = %v, want %v", tt.code, got, tt.codec)
		}
		if got := IsQuery(err); got != tt.query {
			t.Errorf("IsQuery(%s) = %v, want %v", tt.code, got, tt.query)
		}
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidPath, "bad path")); got != "bad path" {
		t.Errorf("UserMessage = %q, want message without the code prefix", got)
	}
	if got := UserMessage(stderrors.New("plain failure")); got != "plain failure" {
		t.Errorf("UserMessage for a plain error = %q", got)
	}
}
