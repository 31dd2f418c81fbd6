package ops

import (
	"github.com/gopostscript/postforge/internal/estack"
	"github.com/gopostscript/postforge/internal/object"
)

// RegisterControl binds the control-flow operators, per spec.md §4.3:
// these never drive a Go loop directly, instead pushing loop/proc records
// the shared evaluator picks up, so `exit` can unwind a single enclosing
// loop by popping frames.
func RegisterControl(r *Registry) {
	r.Add("exec", func(m *estack.Machine) error {
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		return m.ExecObject(v)
	})
	r.Add("if", func(m *estack.Machine) error {
		proc, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		cond, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		if cond.Tag != object.Bool {
			return typeErr("if")
		}
		if cond.Bool() {
			m.PushExec(proc)
		}
		return nil
	})
	r.Add("ifelse", func(m *estack.Machine) error {
		procFalse, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		procTrue, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		cond, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		if cond.Tag != object.Bool {
			return typeErr("ifelse")
		}
		if cond.Bool() {
			m.PushExec(procTrue)
		} else {
			m.PushExec(procFalse)
		}
		return nil
	})
	r.Add("for", func(m *estack.Machine) error {
		proc, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		limit, err := popNumber(m, "for")
		if err != nil {
			return err
		}
		inc, err := popNumber(m, "for")
		if err != nil {
			return err
		}
		init, err := popNumber(m, "for")
		if err != nil {
			return err
		}
		isInt := init.Tag == object.Int && inc.Tag == object.Int && limit.Tag == object.Int
		m.PushLoop(estack.Frame{
			LoopKind: estack.LoopFor,
			Cur:      init.Float64(),
			Limit:    limit.Float64(),
			Inc:      inc.Float64(),
			Body:     proc,
			IsInt:    isInt,
		})
		return nil
	})
	r.Add("repeat", func(m *estack.Machine) error {
		proc, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		n, err := popInt(m, "repeat")
		if err != nil {
			return err
		}
		if n < 0 {
			return rangeErr("repeat")
		}
		m.PushLoop(estack.Frame{LoopKind: estack.LoopRepeat, Remaining: int(n), Body: proc})
		return nil
	})
	r.Add("loop", func(m *estack.Machine) error {
		proc, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		m.PushLoop(estack.Frame{LoopKind: estack.LoopInfinite, Body: proc})
		return nil
	})
	r.Add("exit", func(m *estack.Machine) error { return estack.ErrExit })
	r.Add("stop", func(m *estack.Machine) error { return estack.ErrStop })
	r.Add("stopped", func(m *estack.Machine) error {
		proc, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		// Run starts its own drive() call for proc, so a `stop` anywhere
		// inside it -- however deeply nested through if/for/repeat/loop
		// frames sharing this same drive() -- surfaces as ErrStop right
		// here, with no marker frame needed to find it.
		runErr := m.Run(proc)
		if runErr == estack.ErrStop {
			m.Operand.Push(object.NewBool(true))
			return nil
		}
		if runErr != nil {
			return runErr
		}
		m.Operand.Push(object.NewBool(false))
		return nil
	})
}
