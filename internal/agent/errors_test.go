package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestWrapInvokeError_Timeout(t *testing.T) {
	err := fmt.Errorf("calling model: %w", context.DeadlineExceeded)
	ae := WrapInvokeError(err)
	if ae.Kind != KindTimeout {
		t.Errorf("Kind = %q, want %q", ae.Kind, KindTimeout)
	}
}

func TestWrapInvokeError_PassesThroughAdapterError(t *testing.T) {
	original := NewAdapterError(KindInvalidModel, errors.New("bad model"))
	ae := WrapInvokeError(fmt.Errorf("wrapped: %w", original))
	if ae != original {
		t.Errorf("expected the original *AdapterError to be returned, got %v", ae)
	}
}

func TestWrapInvokeError_DefaultsToUpstream(t *testing.T) {
	ae := WrapInvokeError(errors.New("connection refused"))
	if ae.Kind != KindUpstream {
		t.Errorf("Kind = %q, want %q", ae.Kind, KindUpstream)
	}
}

func TestAdapterError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	ae := NewAdapterError(KindUpstream, cause)
	if !errors.Is(ae, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}
}
