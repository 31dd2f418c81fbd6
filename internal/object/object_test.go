package object

import "testing"

func TestNumericCoercion(t *testing.T) {
	cases := []struct {
		aInt, bInt bool
		result     float64
		wantTag    Tag
	}{
		{true, true, 3, Int},
		{true, false, 3, Real},
		{true, true, 1 << 40, Real},
		{true, true, -1 << 40, Real},
	}
	for _, c := range cases {
		got := CoerceResult(c.aInt, c.bInt, c.result)
		if got.Tag != c.wantTag {
			t.Errorf("CoerceResult(%v,%v,%v) tag = %v, want %v", c.aInt, c.bInt, c.result, got.Tag, c.wantTag)
		}
	}
}

func TestAccessMonotone(t *testing.T) {
	o := Object{Tag: String}
	o = o.WithAccess(AccessReadOnly)
	if o.Attr.Access != AccessReadOnly {
		t.Fatalf("expected read-only, got %v", o.Attr.Access)
	}
	// noaccess lowers further
	o = o.WithAccess(AccessNone)
	if o.Attr.Access != AccessNone {
		t.Fatalf("expected none, got %v", o.Attr.Access)
	}
	// attempting to raise access back to unlimited must be a no-op
	o = o.WithAccess(AccessUnlimited)
	if o.Attr.Access != AccessNone {
		t.Fatalf("access was raised: %v", o.Attr.Access)
	}
}

func TestNameEquality(t *testing.T) {
	a := NameObject(7, true)
	b := NameObject(7, false)
	if !Equal(a, b) {
		t.Fatalf("same-id names with different executable flags should compare equal")
	}
}

func TestNumberEquality(t *testing.T) {
	if !Equal(NewInt(2), NewReal(2.0)) {
		t.Fatalf("2 and 2.0 should compare equal")
	}
}
