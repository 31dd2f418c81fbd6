package token

import (
	"testing"

	"github.com/gopostscript/postforge/internal/bytestream"
	"github.com/gopostscript/postforge/internal/object"
)

func scanAll(t *testing.T, src string) []Token {
	t.Helper()
	s := New(bytestream.NewBytes([]byte(src)))
	var toks []Token
	for {
		tok, err := s.Next()
		if err != nil {
			t.Fatalf("scan error: %v", err)
		}
		if tok.Kind == EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func TestScansIntegersRealsAndRadix(t *testing.T) {
	toks := scanAll(t, "123 -45 3.14 1.0e3 8#17")
	want := []object.Object{
		object.NewInt(123),
		object.NewInt(-45),
		object.NewReal(3.14),
		object.NewReal(1000),
		object.NewInt(15),
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, tok := range toks {
		if tok.Kind != Number {
			t.Fatalf("token %d: expected Number, got %v", i, tok.Kind)
		}
		if tok.Obj.Float64() != want[i].Float64() {
			t.Fatalf("token %d: got %v want %v", i, tok.Obj.Float64(), want[i].Float64())
		}
	}
}

func TestScansLiteralAndExecutableNames(t *testing.T) {
	toks := scanAll(t, "/foo bar")
	if len(toks) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(toks))
	}
	if !toks[0].Literal || toks[0].Text != "foo" {
		t.Fatalf("expected literal name foo, got %+v", toks[0])
	}
	if toks[1].Literal || toks[1].Text != "bar" {
		t.Fatalf("expected executable name bar, got %+v", toks[1])
	}
}

func TestLiteralStringEscapesAndNesting(t *testing.T) {
	toks := scanAll(t, `(a (nested) \n b)`)
	if len(toks) != 1 || toks[0].Kind != StringTok {
		t.Fatalf("expected one string token, got %+v", toks)
	}
	got := string(toks[0].Bytes)
	want := "a (nested) \n b"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestHexString(t *testing.T) {
	toks := scanAll(t, "<68656C6C6F>")
	if len(toks) != 1 || toks[0].Kind != StringTok {
		t.Fatalf("expected one string token, got %+v", toks)
	}
	if string(toks[0].Bytes) != "hello" {
		t.Fatalf("got %q", toks[0].Bytes)
	}
}

func TestStructuralDelimiters(t *testing.T) {
	toks := scanAll(t, "{ [ << >> ] }")
	wantKinds := []Kind{ProcStart, ArrayStart, DictStart, DictEnd, ArrayEnd, ProcEnd}
	if len(toks) != len(wantKinds) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(wantKinds))
	}
	for i, k := range wantKinds {
		if toks[i].Kind != k {
			t.Fatalf("token %d: got %v want %v", i, toks[i].Kind, k)
		}
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	toks := scanAll(t, "1 % a comment\n2")
	if len(toks) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(toks))
	}
}
