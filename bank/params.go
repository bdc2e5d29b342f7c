package bank

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ccgrid/debug"
)

// ParamService applies edits to single parameters in the active bank.
// Every real change is persisted before the call returns, and every
// value-affecting change goes out as exactly one CC message reflecting
// the new state. Empty or unparseable input is a silent no-op.
type ParamService struct {
	state *State
	repo  Repository
	out   Sender
}

// NewParamService wires the service to its collaborators.
func NewParamService(state *State, repo Repository, out Sender) *ParamService {
	return &ParamService{state: state, repo: repo, out: out}
}

// SetValue parses raw input and sets the value at (row, col) in the
// active bank, clamped to 0-127.
func (ps *ParamService) SetValue(row, col int, raw string) error {
	n, ok := parseInt(raw)
	if !ok {
		return nil
	}
	p, err := ps.state.Param(ps.state.Active, row, col)
	if err != nil {
		return err
	}
	n = clamp(n, 0, MaxValue)
	if n == p.Value {
		return nil
	}
	p.Value = n
	return ps.commit(p)
}

// Adjust nudges the value by delta, clamping at the range ends. At a
// boundary nothing changes, so nothing is emitted or saved.
func (ps *ParamService) Adjust(row, col, delta int) error {
	p, err := ps.state.Param(ps.state.Active, row, col)
	if err != nil {
		return err
	}
	n := clamp(p.Value+delta, 0, MaxValue)
	if n == p.Value {
		return nil
	}
	p.Value = n
	return ps.commit(p)
}

// SetName replaces the display name. Empty input cancels. Renames are
// not value-affecting and never emit MIDI. Length is the display
// layer's concern, not ours.
func (ps *ParamService) SetName(row, col int, raw string) error {
	name := strings.TrimSpace(raw)
	if name == "" {
		return nil
	}
	p, err := ps.state.Param(ps.state.Active, row, col)
	if err != nil {
		return err
	}
	if name == p.Name {
		return nil
	}
	p.Name = name
	return ps.save()
}

// SetChannel parses raw input and sets the MIDI channel, clamped to
// 0-15. The change is echoed as a CC on the new channel.
func (ps *ParamService) SetChannel(row, col int, raw string) error {
	n, ok := parseInt(raw)
	if !ok {
		return nil
	}
	p, err := ps.state.Param(ps.state.Active, row, col)
	if err != nil {
		return err
	}
	n = clamp(n, 0, MaxChannel)
	if n == p.Channel {
		return nil
	}
	p.Channel = n
	return ps.commit(p)
}

// SetControl parses raw input and sets the CC number, clamped to 0-127.
// The change is echoed as a CC on the new controller.
func (ps *ParamService) SetControl(row, col int, raw string) error {
	n, ok := parseInt(raw)
	if !ok {
		return nil
	}
	p, err := ps.state.Param(ps.state.Active, row, col)
	if err != nil {
		return err
	}
	n = clamp(n, 0, MaxValue)
	if n == p.Control {
		return nil
	}
	p.Control = n
	return ps.commit(p)
}

// commit emits the parameter's current state and persists. Either side
// effect may fail without undoing the mutation; failures come back
// wrapped for the caller to show as warnings.
func (ps *ParamService) commit(p *Parameter) error {
	var errs []error
	if err := ps.out.SendControlChange(uint8(p.Channel), uint8(p.Control), uint8(p.Value)); err != nil {
		debug.Log("midi", "cc ch=%d cc=%d val=%d: %v", p.Channel, p.Control, p.Value, err)
		errs = append(errs, fmt.Errorf("%w: %v", ErrSendFailed, err))
	}
	if err := ps.save(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (ps *ParamService) save() error {
	if err := ps.repo.Save(ps.state); err != nil {
		debug.Log("store", "save: %v", err)
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	return nil
}

// parseInt trims and parses user input. ok is false for empty or
// malformed text, which callers treat as a cancelled edit.
func parseInt(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
