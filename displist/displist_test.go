package displist_test

import (
	"testing"

	"github.com/gopostscript/postforge/displist"
	"github.com/gopostscript/postforge/internal/inside"
	"github.com/gopostscript/postforge/internal/pathbuild"
)

func TestFillRecordsClonedPathNotLiveReference(t *testing.T) {
	l := displist.New()
	p := pathbuild.New()
	p.MoveTo(pathbuild.Point{X: 0, Y: 0})
	p.LineTo(pathbuild.Point{X: 10, Y: 0})

	l.Fill(p, inside.NonZero, 1, 0, 0)
	p.LineTo(pathbuild.Point{X: 20, Y: 20}) // mutate after recording

	recs := l.Records()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	got := recs[0]
	if got.Rule != inside.NonZero || got.Color.R != 1 {
		t.Fatalf("unexpected record %+v", got)
	}
	sp := got.Path.Subpaths[0]
	if len(sp.Segs) != 2 {
		t.Fatalf("recorded path must not see mutation after Fill, got %d segs", len(sp.Segs))
	}
}

func TestResetClearsAccumulatedRecords(t *testing.T) {
	l := displist.New()
	p := pathbuild.New()
	p.MoveTo(pathbuild.Point{X: 0, Y: 0})
	l.Fill(p, inside.EvenOdd, 0, 0, 1)
	if l.Len() != 1 {
		t.Fatalf("expected 1 record before reset, got %d", l.Len())
	}
	l.Reset()
	if l.Len() != 0 {
		t.Fatalf("expected 0 records after reset, got %d", l.Len())
	}
}
