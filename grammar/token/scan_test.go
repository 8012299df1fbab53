package token

import (
	"errors"
	"testing"
)

func TestDecodeEscape(t *testing.T) {
	r, ok := DecodeEscape('t')
	if !ok || r != '\t' {
		t.Fatalf("DecodeEscape('t') = %q, %v", r, ok)
	}
	if _, ok := DecodeEscape('q'); ok {
		t.Fatal("DecodeEscape('q') should not be recognized")
	}
}

func TestUnescape(t *testing.T) {
	cases := map[string]string{
		`a\$b`:     "a$b",
		`a\{b\}`:   "a{b}",
		`a\tb`:     "a\tb",
		`plain`:    "plain",
		`a\qb`:     `a\qb`, // unrecognized escape is left as-is
		`trailing\`: `trailing\`,
	}
	for in, want := range cases {
		if got := Unescape(in); got != want {
			t.Errorf("Unescape(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIdentByte(t *testing.T) {
	for _, c := range []byte("abcXYZ019_-+/@~!%*") {
		if !IdentByte(c) {
			t.Errorf("IdentByte(%q) = false, want true", c)
		}
	}
	for _, c := range []byte(" ${}[]():,") {
		if IdentByte(c) {
			t.Errorf("IdentByte(%q) = true, want false", c)
		}
	}
}

func TestScanBalancedSimple(t *testing.T) {
	s := "${a.b}tail"
	end, err := ScanBalanced(s, 1, '{', '}')
	if err != nil {
		t.Fatalf("ScanBalanced: %v", err)
	}
	if s[:end] != "${a.b}" {
		t.Fatalf("ScanBalanced matched %q", s[:end])
	}
}

func TestScanBalancedNested(t *testing.T) {
	s := "${outer:${inner}}rest"
	end, err := ScanBalanced(s, 1, '{', '}')
	if err != nil {
		t.Fatalf("ScanBalanced: %v", err)
	}
	if s[:end] != "${outer:${inner}}" {
		t.Fatalf("ScanBalanced matched %q", s[:end])
	}
}

func TestScanBalancedIgnoresCloseInsideQuotes(t *testing.T) {
	s := `${f:"a}b"}rest`
	end, err := ScanBalanced(s, 1, '{', '}')
	if err != nil {
		t.Fatalf("ScanBalanced: %v", err)
	}
	if s[:end] != `${f:"a}b"}` {
		t.Fatalf("ScanBalanced matched %q", s[:end])
	}
}

func TestScanBalancedUnterminatedErrors(t *testing.T) {
	_, err := ScanBalanced("${a.b", 1, '{', '}')
	if err == nil {
		t.Fatal("expected an unbalanced-brackets error")
	}
	if !errors.Is(err, ErrUnbalanced) {
		t.Fatalf("errors.Is(err, ErrUnbalanced) = false, err = %v", err)
	}
}

func TestScanBalancedUnterminatedQuoteErrors(t *testing.T) {
	_, err := ScanBalanced(`${f:"a}`, 1, '{', '}')
	if err == nil {
		t.Fatal("expected an unterminated-quote error")
	}
	if !errors.Is(err, ErrUnterminated) {
		t.Fatalf("errors.Is(err, ErrUnterminated) = false, err = %v", err)
	}
}
