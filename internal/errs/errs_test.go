package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigErrorMatching(t *testing.T) {
	err := fmt.Errorf("voxelize: %w", Configf("main", "block #2", "unknown material %q", "Gold"))
	if !errors.Is(err, ErrConfig) {
		t.Fatal("wrapped ConfigError should match ErrConfig")
	}
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Grid != "main" || ce.Where != "block #2" {
		t.Fatalf("errors.As failed: %+v", ce)
	}
	want := `voxelize: grid "main", block #2: unknown material "Gold"`
	if err.Error() != want {
		t.Fatalf("got %q want %q", err.Error(), want)
	}
}

func TestInvariantPanics(t *testing.T) {
	defer func() {
		r := recover()
		v, ok := r.(Violation)
		if !ok || v.Msg != "length 0" {
			t.Fatalf("unexpected panic value %#v", r)
		}
	}()
	Invariant(true, "never")
	Invariant(false, "length %d", 0)
	t.Fatal("Invariant(false) did not panic")
}
