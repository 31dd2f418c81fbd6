package ps_test

import (
	"testing"

	"github.com/gopostscript/postforge/ps"
)

func mustNew(t *testing.T) *ps.Interpreter {
	t.Helper()
	ip, err := ps.New()
	if err != nil {
		t.Fatal(err)
	}
	return ip
}

func TestArithmeticAndStackOperators(t *testing.T) {
	ip := mustNew(t)
	if err := ip.ExecString("2 3 add 4 mul"); err != nil {
		t.Fatal(err)
	}
	top, err := ip.Machine.Operand.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if top.Int64() != 20 {
		t.Fatalf("expected 20, got %v", top.Int64())
	}
}

func TestProcedureDeferredUntilExecuted(t *testing.T) {
	ip := mustNew(t)
	// `{ 1 add }` must not run while being scanned: only the outer `3`
	// executes immediately, then the procedure is left as a single executable array
	// pushed as data, then `exec` runs it against 3.
	if err := ip.ExecString("3 { 1 add } exec"); err != nil {
		t.Fatal(err)
	}
	top, err := ip.Machine.Operand.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if top.Int64() != 4 {
		t.Fatalf("expected 4, got %v", top.Int64())
	}
}

func TestIfElseBranching(t *testing.T) {
	ip := mustNew(t)
	if err := ip.ExecString("true { 1 } { 2 } ifelse"); err != nil {
		t.Fatal(err)
	}
	top, err := ip.Machine.Operand.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if top.Int64() != 1 {
		t.Fatalf("expected 1, got %v", top.Int64())
	}
}

func TestForLoopAccumulatesSum(t *testing.T) {
	ip := mustNew(t)
	if err := ip.ExecString("0 1 1 5 { add } for"); err != nil {
		t.Fatal(err)
	}
	top, err := ip.Machine.Operand.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if top.Int64() != 15 {
		t.Fatalf("expected 15 (1+2+3+4+5), got %v", top.Int64())
	}
}

func TestLiteralArrayBuiltImmediatelyAtTopLevel(t *testing.T) {
	ip := mustNew(t)
	if err := ip.ExecString("[ 1 2 3 ] length"); err != nil {
		t.Fatal(err)
	}
	top, err := ip.Machine.Operand.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if top.Int64() != 3 {
		t.Fatalf("expected length 3, got %v", top.Int64())
	}
}

func TestNestedArrayInsideDeferredProcedureStaysUnevaluated(t *testing.T) {
	ip := mustNew(t)
	// the `[ 1 2 ]` inside `{}` must not build an array while the outer
	// procedure is merely being scanned; only running it via `exec` does.
	if err := ip.ExecString("{ [ 1 2 ] length } exec"); err != nil {
		t.Fatal(err)
	}
	top, err := ip.Machine.Operand.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if top.Int64() != 2 {
		t.Fatalf("expected length 2, got %v", top.Int64())
	}
}

func TestDictLiteralConstruction(t *testing.T) {
	ip := mustNew(t)
	if err := ip.ExecString("<< /a 1 /b 2 >> /a get"); err != nil {
		t.Fatal(err)
	}
	top, err := ip.Machine.Operand.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if top.Int64() != 1 {
		t.Fatalf("expected 1, got %v", top.Int64())
	}
}

func TestDefAndUserdictLookup(t *testing.T) {
	ip := mustNew(t)
	if err := ip.ExecString("/x 42 def x"); err != nil {
		t.Fatal(err)
	}
	top, err := ip.Machine.Operand.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if top.Int64() != 42 {
		t.Fatalf("expected 42, got %v", top.Int64())
	}
}

func TestStoppedCatchesStopInsideLoop(t *testing.T) {
	ip := mustNew(t)
	if err := ip.ExecString("{ 1 2 3 { stop } loop } stopped"); err != nil {
		t.Fatal(err)
	}
	top, err := ip.Machine.Operand.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if !top.Bool() {
		t.Fatal("expected stopped to report true")
	}
}

func TestQuitStopsExecutionOfRemainingProgram(t *testing.T) {
	ip := mustNew(t)
	if err := ip.ExecString("1 quit 2"); err != nil {
		t.Fatal(err)
	}
	if ip.Machine.Operand.Len() != 1 {
		t.Fatalf("expected only the pre-quit push to have run, got %d operands", ip.Machine.Operand.Len())
	}
}

func TestUnhandledErrorAbortsAndIsReturned(t *testing.T) {
	ip := mustNew(t)
	err := ip.ExecString("1 0 div")
	if err == nil {
		t.Fatal("expected an error from dividing by zero with no errordict handler installed")
	}
}

func TestErrordictHandlerRecoversFromRangeCheck(t *testing.T) {
	ip := mustNew(t)
	// install a rangecheck handler that leaves a marker on the stack
	// instead of aborting, per spec.md §5 dynamic errordict dispatch.
	if err := ip.ExecString("errordict /rangecheck { pop pop 99 } put"); err != nil {
		t.Fatal(err)
	}
	if err := ip.ExecString("[ 1 2 3 ] 10 get"); err != nil {
		t.Fatal(err)
	}
	top, err := ip.Machine.Operand.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if top.Int64() != 99 {
		t.Fatalf("expected errordict's rangecheck handler to run and leave 99, got %v", top.Int64())
	}
}

func TestGsaveGrestoreRoundTripsLineWidth(t *testing.T) {
	ip := mustNew(t)
	if err := ip.ExecString("1 setlinewidth gsave 5 setlinewidth grestore currentlinewidth"); err != nil {
		t.Fatal(err)
	}
	top, err := ip.Machine.Operand.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if top.Float64() != 1 {
		t.Fatalf("expected linewidth restored to 1, got %v", top.Float64())
	}
}

func TestFillEmitsDisplayListRecord(t *testing.T) {
	ip := mustNew(t)
	if err := ip.ExecString("newpath 0 0 moveto 10 0 lineto 10 10 lineto closepath fill"); err != nil {
		t.Fatal(err)
	}
	if ip.DisplayList().Len() != 1 {
		t.Fatalf("expected 1 display-list record after fill, got %d", ip.DisplayList().Len())
	}
}

func TestSaveRestoreUndoesUserdictDefinition(t *testing.T) {
	ip := mustNew(t)
	if err := ip.ExecString("/x 1 def save /x 2 def"); err != nil {
		t.Fatal(err)
	}
	// restore is still on the operand stack from `save`'s result.
	if err := ip.ExecString("restore x"); err != nil {
		t.Fatal(err)
	}
	top, err := ip.Machine.Operand.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if top.Int64() != 1 {
		t.Fatalf("expected restore to undo x's redefinition back to 1, got %v", top.Int64())
	}
}
