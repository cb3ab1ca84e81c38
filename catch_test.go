package pipeable

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func sampleFailure(cause error) *Failure {
	return &Failure{
		Err:       cause,
		InputData: "raw-input",
		Path:      []Name{"chain", "parse"},
		Timestamp: time.Now(),
		Duration:  5 * time.Millisecond,
	}
}

func TestCatch(t *testing.T) {
	cause := errors.New("parse failed")

	t.Run("Zero Value Ignores", func(t *testing.T) {
		var c Catch[int]
		v, ok, err := c.Handle(sampleFailure(cause))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok || v != 0 {
			t.Errorf("expected absent zero result, got %d (ok=%v)", v, ok)
		}
	})

	t.Run("Then Maps Failure To Result", func(t *testing.T) {
		c := Then(func(f *Failure) (string, error) {
			return fmt.Sprintf("recovered from %v", f.Unwrap()), nil
		})
		v, ok, err := c.Handle(sampleFailure(cause))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok || v != "recovered from parse failed" {
			t.Errorf("unexpected recovery %q (ok=%v)", v, ok)
		}
	})

	t.Run("Then May Rethrow As Different Error", func(t *testing.T) {
		replacement := errors.New("translated")
		c := Then(func(*Failure) (string, error) {
			return "", replacement
		})
		_, ok, err := c.Handle(sampleFailure(cause))
		if err != replacement {
			t.Errorf("expected translated error, got %v", err)
		}
		if ok {
			t.Error("result must be absent when the handler errors")
		}
	})

	t.Run("ThenReturn Is Constant", func(t *testing.T) {
		c := ThenReturn(42)
		for i := 0; i < 3; i++ {
			v, ok, err := c.Handle(sampleFailure(cause))
			if err != nil || !ok || v != 42 {
				t.Errorf("expected 42, got %d (ok=%v, err=%v)", v, ok, err)
			}
		}
	})

	t.Run("ThenGet Computes Fresh Values", func(t *testing.T) {
		n := 0
		c := ThenGet(func() int {
			n++
			return n
		})
		first, _, _ := c.Handle(sampleFailure(cause))
		second, _, _ := c.Handle(sampleFailure(cause))
		if first != 1 || second != 2 {
			t.Errorf("expected fresh values 1 and 2, got %d and %d", first, second)
		}
	})

	t.Run("ThenGet Nil Supplier Yields Absence", func(t *testing.T) {
		c := ThenGet[int](nil)
		v, ok, err := c.Handle(sampleFailure(cause))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok || v != 0 {
			t.Errorf("expected absence, got %d (ok=%v)", v, ok)
		}
	})

	t.Run("ThenRecover Sees The Failure", func(t *testing.T) {
		c := ThenRecover(func(f *Failure) string {
			return strings.Join(f.Path, "/")
		})
		v, ok, err := c.Handle(sampleFailure(cause))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok || v != "chain/parse" {
			t.Errorf("expected path string, got %q (ok=%v)", v, ok)
		}
	})

	t.Run("ThenRethrow Returns The Cause", func(t *testing.T) {
		c := ThenRethrow[int]()
		_, _, err := c.Handle(sampleFailure(cause))
		if err != cause {
			t.Errorf("expected the original cause, got %v", err)
		}
	})

	t.Run("ThenRethrow Without Cause Returns The Failure", func(t *testing.T) {
		f := &Failure{Path: []Name{"chain"}, Timestamp: time.Now()}
		c := ThenRethrow[int]()
		_, _, err := c.Handle(f)
		if err != error(f) {
			t.Errorf("expected the failure itself, got %v", err)
		}
	})

	t.Run("ThenIgnore Swallows Everything", func(t *testing.T) {
		c := ThenIgnore[string]()
		v, ok, err := c.Handle(sampleFailure(cause))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok || v != "" {
			t.Errorf("expected absence, got %q (ok=%v)", v, ok)
		}
	})

	t.Run("ThenPrintTo Writes Failure And Causes", func(t *testing.T) {
		inner := errors.New("root")
		wrapped := fmt.Errorf("mid: %w", inner)

		var buf bytes.Buffer
		c := ThenPrintTo[int](&buf)
		v, ok, err := c.Handle(sampleFailure(wrapped))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok || v != 0 {
			t.Errorf("expected absence, got %d (ok=%v)", v, ok)
		}

		out := buf.String()
		if !strings.Contains(out, "chain -> parse") {
			t.Errorf("expected failure path in output, got %q", out)
		}
		if !strings.Contains(out, "caused by: mid: root") {
			t.Errorf("expected wrapped cause in output, got %q", out)
		}
		if !strings.Contains(out, "caused by: root") {
			t.Errorf("expected root cause in output, got %q", out)
		}
	})
}
