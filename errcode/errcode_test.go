package errcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodesAreStableStrings(t *testing.T) {
	cases := map[string]Code{
		"ok":             OK,
		"busy":           Busy,
		"unsupported":    Unsupported,
		"invalid_params": InvalidParams,
		"invalid_config": InvalidConfig,
		"timeout":        Timeout,
		"bus_error":      BusError,
		"error":          Error,
	}
	for want, c := range cases {
		if c.Error() != want {
			t.Fatalf("code %q mismatch: got %q", want, c.Error())
		}
	}
}

func TestOfUnwrapsChains(t *testing.T) {
	sentinel := New(InvalidConfig, "xtal", "super drive requires high drive")
	wrapped := fmt.Errorf("plan: %w", sentinel)

	if got := Of(nil); got != OK {
		t.Fatalf("Of(nil) = %q, want ok", got)
	}
	if got := Of(sentinel); got != InvalidConfig {
		t.Fatalf("Of(sentinel) = %q", got)
	}
	if got := Of(wrapped); got != InvalidConfig {
		t.Fatalf("Of(wrapped) = %q", got)
	}
	if !errors.Is(wrapped, sentinel) {
		t.Fatal("errors.Is lost the sentinel")
	}
	if got := Of(fmt.Errorf("x: %w", Timeout)); got != Timeout {
		t.Fatalf("Of(bare code) = %q", got)
	}
	if got := Of(errors.New("other")); got != Error {
		t.Fatalf("Of(plain) = %q, want error", got)
	}
}

func TestEErrorFormat(t *testing.T) {
	e := New(Timeout, "wait", "xtal not stable")
	if e.Error() != "wait: timeout: xtal not stable" {
		t.Fatalf("unexpected message %q", e.Error())
	}
	if (&E{C: Busy}).Error() != "busy" {
		t.Fatal("bare code message")
	}
}
