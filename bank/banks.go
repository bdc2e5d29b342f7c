package bank

import (
	"fmt"
	"strings"

	"ccgrid/debug"
)

// BankService manages the bank collection, the active-bank pointer and
// the cell selection. Like ParamService, every mutation is persisted
// through the injected repository before the call returns.
type BankService struct {
	state *State
	repo  Repository
}

// NewBankService wires the service to its collaborators.
func NewBankService(state *State, repo Repository) *BankService {
	return &BankService{state: state, repo: repo}
}

// Create appends a default-initialized bank and makes it active.
// An empty name gets the next positional label.
func (bs *BankService) Create(name string) (*Bank, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultBankName(len(bs.state.Banks))
	}
	b := NewBank(name)
	bs.state.Banks = append(bs.state.Banks, b)
	bs.state.Active = len(bs.state.Banks) - 1
	return b, bs.save()
}

// Switch sets the active bank. The cell selection is left alone; the
// grid size is fixed so it stays valid across banks.
func (bs *BankService) Switch(idx int) error {
	if idx < 0 || idx >= len(bs.state.Banks) {
		return fmt.Errorf("%w: %d of %d", ErrBadBank, idx, len(bs.state.Banks))
	}
	if idx == bs.state.Active {
		return nil
	}
	bs.state.Active = idx
	return bs.save()
}

// Reset reinitializes every parameter in the bank to defaults. The
// bank's own name is kept. There is no undo.
func (bs *BankService) Reset(idx int) error {
	if idx < 0 || idx >= len(bs.state.Banks) {
		return fmt.Errorf("%w: %d of %d", ErrBadBank, idx, len(bs.state.Banks))
	}
	bs.state.Banks[idx].Reset()
	return bs.save()
}

// Rename replaces a bank's display name. Empty input cancels.
func (bs *BankService) Rename(idx int, name string) error {
	if idx < 0 || idx >= len(bs.state.Banks) {
		return fmt.Errorf("%w: %d of %d", ErrBadBank, idx, len(bs.state.Banks))
	}
	name = strings.TrimSpace(name)
	if name == "" || name == bs.state.Banks[idx].Name {
		return nil
	}
	bs.state.Banks[idx].Name = name
	return bs.save()
}

// MoveCursor shifts the cell selection, clamped to the grid. The
// selection is part of the persisted state so sessions resume where
// they left off.
func (bs *BankService) MoveCursor(dRow, dCol int) error {
	row := clamp(bs.state.CursorRow+dRow, 0, GridSize-1)
	col := clamp(bs.state.CursorCol+dCol, 0, GridSize-1)
	if row == bs.state.CursorRow && col == bs.state.CursorCol {
		return nil
	}
	bs.state.CursorRow = row
	bs.state.CursorCol = col
	return bs.save()
}

// Save persists the current tree unconditionally (used on quit).
func (bs *BankService) Save() error {
	return bs.save()
}

func (bs *BankService) save() error {
	if err := bs.repo.Save(bs.state); err != nil {
		debug.Log("store", "save: %v", err)
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	return nil
}
