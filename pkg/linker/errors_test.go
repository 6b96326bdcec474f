package linker

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorIs(t *testing.T) {
	err := outOfRange(PhaseSizing, uint64(1<<20), "gp too big")

	if !errors.Is(err, ErrOutOfRange) {
		t.Error("kind sentinel did not match")
	}
	if !errors.Is(err, &Error{Kind: KindOutOfRange, Phase: PhaseSizing}) {
		t.Error("kind and phase did not match")
	}
	if errors.Is(err, &Error{Kind: KindOutOfRange, Phase: PhasePatching}) {
		t.Error("different phase matched")
	}
	if errors.Is(err, ErrBadModule) {
		t.Error("different kind matched")
	}

	wrapped := fmt.Errorf("load net.mod: %w", err)
	if !errors.Is(wrapped, ErrOutOfRange) {
		t.Error("wrapped error did not match")
	}
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("limit reached")
	err := AllocationFailed(PhaseSizing, 64, cause)

	msg := err.Error()
	for _, want := range []string{"[sizing]", "out_of_memory", "64 bytes", "limit reached"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q lacks %q", msg, want)
		}
	}
	if !errors.Is(err, cause) {
		t.Error("cause not unwrapped")
	}

	ni := NotImplemented(R_IA64_IMM64)
	if !strings.Contains(ni.Error(), "0x23") || ni.Value != R_IA64_IMM64 {
		t.Errorf("not implemented error %q value %v", ni.Error(), ni.Value)
	}
}

func TestRelocTypeString(t *testing.T) {
	if s := R_IA64_PCREL21B.String(); s != "R_IA64_PCREL21B" {
		t.Errorf("got %q", s)
	}
	if s := RelocType(0x99).String(); s != "R_IA64_0x99" {
		t.Errorf("got %q", s)
	}
}
