package ops

import (
	"github.com/gopostscript/postforge/internal/estack"
	"github.com/gopostscript/postforge/internal/object"
)

// RegisterVM binds the VM and job-control operators
// (original_source/postforge/operators/vm.py, job_control.py), per
// spec.md §4.0: save/restore mechanics live in internal/vmem, this file is
// only the operator surface over it plus the graphics-state stack
// internal/estack.Machine owns.
func RegisterVM(r *Registry) {
	r.Add("save", func(m *estack.Machine) error {
		m.Operand.Push(m.VM.Save())
		return nil
	})
	r.Add("restore", func(m *estack.Machine) error {
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		if v.Tag != object.Save {
			return typeErr("restore")
		}
		return m.VM.Restore(v)
	})
	r.Add("gsave", func(m *estack.Machine) error {
		m.GSave()
		return nil
	})
	r.Add("grestore", func(m *estack.Machine) error {
		return m.GRestore()
	})
	r.Add("grestoreall", func(m *estack.Machine) error {
		m.GRestoreAll()
		return nil
	})
	r.Add("initgraphics", func(m *estack.Machine) error {
		*m.CurrentGState() = *estack.NewGState()
		return nil
	})
	r.Add("setglobal", func(m *estack.Machine) error {
		v, err := m.Operand.Pop()
		if err != nil {
			return err
		}
		if v.Tag != object.Bool {
			return typeErr("setglobal")
		}
		m.SetGlobal(v.Bool())
		return nil
	})
	r.Add("currentglobal", func(m *estack.Machine) error {
		m.Operand.Push(object.NewBool(m.CurrentGlobal()))
		return nil
	})
	r.Add("startjob", func(m *estack.Machine) error {
		// Real `startjob` authenticates against a password and starts an
		// exclusive job context tied to a print-server's page boundary
		// model, which has no analogue without a device/spooler driver
		// (spec.md §1 Non-goal). This core always reports success with no
		// password check, a documented simplification (DESIGN.md).
		_, err := m.Operand.Pop() // password
		if err != nil {
			return err
		}
		_, err = m.Operand.Pop() // startjob bool
		if err != nil {
			return err
		}
		m.Operand.Push(object.NewBool(true))
		return nil
	})
	r.Add("exitserver", func(m *estack.Machine) error {
		_, err := m.Operand.Pop() // password
		return err
	})
	r.Add("vmstatus", func(m *estack.Machine) error {
		// level, used, maximum -- used/maximum are not meaningfully
		// trackable without a real allocator budget (spec.md §1 places
		// memory accounting out of scope beyond save/restore correctness),
		// so this reports the save-stack depth as `level` and zero for the
		// other two.
		m.Operand.Push(object.NewInt(int64(m.VM.SaveDepth())))
		m.Operand.Push(object.NewInt(0))
		m.Operand.Push(object.NewInt(0))
		return nil
	})
}
