package pipeable

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
)

func TestEval(t *testing.T) {
	length := Transform("length", func(_ context.Context, s string) int {
		return len(s)
	})

	t.Run("Single Operator", func(t *testing.T) {
		v, err := Eval(context.Background(), Of("Hello"), length)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != 5 {
			t.Errorf("expected 5, got %d", v)
		}
	})

	t.Run("Absent Source Yields Zero", func(t *testing.T) {
		calls := 0
		counted := Transform("counted", func(_ context.Context, s string) int {
			calls++
			return len(s)
		})

		v, err := Eval(context.Background(), Empty[string](), counted)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != 0 {
			t.Errorf("expected zero, got %d", v)
		}
		if calls != 0 {
			t.Errorf("operator must be skipped on absence, ran %d times", calls)
		}
	})

	t.Run("EvalPipe Preserves Absence", func(t *testing.T) {
		p, err := EvalPipe(context.Background(), Empty[string](), length)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := p.Value(); ok {
			t.Error("expected absent result")
		}

		p, err = EvalPipe(context.Background(), Of("ab"), length)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v, ok := p.Value(); !ok || v != 2 {
			t.Errorf("expected 2, got %d (ok=%v)", v, ok)
		}
	})

	t.Run("EvalCatch Recovers Chain Failures", func(t *testing.T) {
		parse := Apply("parse", func(_ context.Context, s string) (int, error) {
			return strconv.Atoi(s)
		})

		v, err := EvalCatch(context.Background(), Of("oops"), parse, ThenReturn(-1))
		if err != nil {
			t.Fatalf("expected recovery, got error: %v", err)
		}
		if v != -1 {
			t.Errorf("expected -1, got %d", v)
		}

		v, err = EvalCatch(context.Background(), Of("17"), parse, ThenReturn(-1))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != 17 {
			t.Errorf("expected 17, got %d", v)
		}
	})

	t.Run("EvalCatch Passes Handler Errors Through", func(t *testing.T) {
		boom := Apply("boom", func(_ context.Context, s string) (int, error) {
			return 0, errors.New("broken")
		})
		replacement := errors.New("translated")

		_, err := EvalCatch(context.Background(), Of("x"), boom, Then(func(*Failure) (int, error) {
			return 0, replacement
		}))
		if err != replacement {
			t.Errorf("expected translated error, got %v", err)
		}
	})
}

func TestJoin(t *testing.T) {
	trim := Transform("trim", func(_ context.Context, s string) string {
		return strings.TrimSpace(s)
	})
	length := Transform("length", func(_ context.Context, s string) int {
		return len(s)
	})
	double := Transform("double", func(_ context.Context, n int) int {
		return n * 2
	})
	itoa := Transform("itoa", func(_ context.Context, n int) string {
		return strconv.Itoa(n)
	})

	t.Run("Two Operators", func(t *testing.T) {
		op := Join("trim-length", trim, length)
		v, err := Eval(context.Background(), Of("  abc  "), op)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != 3 {
			t.Errorf("expected 3, got %d", v)
		}
	})

	t.Run("Three Operators", func(t *testing.T) {
		op := Join3("trim-length-double", trim, length, double)
		v, err := Eval(context.Background(), Of(" ab "), op)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != 4 {
			t.Errorf("expected 4, got %d", v)
		}
	})

	t.Run("Four Operators", func(t *testing.T) {
		op := Join4("full-chain", trim, length, double, itoa)
		v, err := Eval(context.Background(), Of(" abc "), op)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != "6" {
			t.Errorf("expected '6', got %q", v)
		}
	})

	t.Run("Joined Operators Compose Further", func(t *testing.T) {
		head := Join("head", trim, length)
		full := Join("full", head, double)
		v, err := Eval(context.Background(), Of(" abcd "), full)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != 8 {
			t.Errorf("expected 8, got %d", v)
		}
	})

	t.Run("Failure Inside A Join Names The Segment", func(t *testing.T) {
		parse := Apply("parse", func(_ context.Context, s string) (int, error) {
			return strconv.Atoi(s)
		})
		op := Join("trim-parse", trim, parse)

		_, err := Eval(context.Background(), Of(" nope "), op)
		if err == nil {
			t.Fatal("expected error")
		}
		var failure *Failure
		if !errors.As(err, &failure) {
			t.Fatalf("expected *Failure, got %T", err)
		}
		if len(failure.Path) != 2 || failure.Path[0] != "trim-parse" || failure.Path[1] != "parse" {
			t.Errorf("expected path [trim-parse parse], got %v", failure.Path)
		}
	})
}

type person struct {
	name *string
}

func TestNullShortCircuit(t *testing.T) {
	t.Run("Nil Field Threads Absence Through The Chain", func(t *testing.T) {
		upperCalls := 0
		upper := Transform("upper", func(_ context.Context, s string) string {
			upperCalls++
			return strings.ToUpper(s)
		})
		orUnknown := OrElse("or-unknown", "UNKNOWN")

		greet := Join("greet", upper, orUnknown)

		anonymous := person{}
		v, err := Eval(context.Background(), FromPtr(anonymous.name), greet)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != "UNKNOWN" {
			t.Errorf("expected 'UNKNOWN', got %q", v)
		}
		if upperCalls != 0 {
			t.Errorf("upper must be skipped on absent input, ran %d times", upperCalls)
		}

		n := "alice"
		named := person{name: &n}
		v, err = Eval(context.Background(), FromPtr(named.name), greet)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != "ALICE" {
			t.Errorf("expected 'ALICE', got %q", v)
		}
	})
}
