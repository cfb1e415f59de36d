package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestAsModelError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"deadline", fmt.Errorf("stream: %w", context.DeadlineExceeded), ErrorKindTimeout},
		{"canceled", context.Canceled, ErrorKindCanceled},
		{"plain", errors.New("boom"), ErrorKindGeneric},
		{"already classified", &ModelError{Kind: ErrorKindAuth, Message: "bad key"}, ErrorKindAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			me := AsModelError(tt.err)
			if me == nil {
				t.Fatal("expected a ModelError")
			}
			if me.Kind != tt.want {
				t.Errorf("Kind = %q, want %q", me.Kind, tt.want)
			}
		})
	}

	if me := AsModelError(nil); me != nil {
		t.Errorf("AsModelError(nil) = %v, want nil", me)
	}
}

func TestModelErrorUserMessage(t *testing.T) {
	auth := &ModelError{Kind: ErrorKindAuth}
	if !strings.Contains(auth.UserMessage(), "GOOGLE_API_KEY") {
		t.Errorf("auth message should name the key, got %q", auth.UserMessage())
	}

	timeout := &ModelError{Kind: ErrorKindTimeout, Timeout: 90 * time.Second}
	if got, want := timeout.UserMessage(), "The model did not respond within 1m30s."; got != want {
		t.Errorf("timeout message = %q, want %q", got, want)
	}

	generic := NewModelError(ErrorKindGeneric, errors.New("quota exhausted"))
	if got, want := generic.UserMessage(), "Error occurred while creating response: quota exhausted"; got != want {
		t.Errorf("generic message = %q, want %q", got, want)
	}
}

func TestModelErrorUnwrap(t *testing.T) {
	cause := errors.New("socket closed")
	me := NewModelError(ErrorKindUnavailable, cause)
	if !errors.Is(me, cause) {
		t.Error("ModelError should unwrap to its cause")
	}
}

func TestTurnClone(t *testing.T) {
	orig := Turn{Role: RoleAssistant, Chart: []byte{1, 2, 3}}
	c := orig.Clone()
	c.Chart[0] = 9
	if orig.Chart[0] != 1 {
		t.Error("Clone should copy the chart bytes")
	}
	if !orig.HasChart() {
		t.Error("HasChart() = false, want true")
	}
	if orig.HasImage() {
		t.Error("HasImage() = true, want false")
	}
}
