package bank

import "fmt"

// Grid dimensions. Banks are always exactly GridSize x GridSize.
const (
	GridSize  = 8
	NumParams = GridSize * GridSize
)

// MIDI ranges
const (
	MaxValue   = 127
	MaxChannel = 15
)

// Parameter is one addressable control slot in a bank's grid.
type Parameter struct {
	Name    string `json:"name"`
	Value   int    `json:"value"`
	Channel int    `json:"channel"`
	Control int    `json:"control"`
}

// Clamp forces all numeric fields back into MIDI range.
func (p *Parameter) Clamp() {
	p.Value = clamp(p.Value, 0, MaxValue)
	p.Channel = clamp(p.Channel, 0, MaxChannel)
	p.Control = clamp(p.Control, 0, MaxValue)
}

// DefaultName returns the positional label for a grid index.
func DefaultName(idx int) string {
	return fmt.Sprintf("P%02d", idx)
}

// DefaultParameter returns the default slot contents for a grid index:
// value 0, channel 0, control number = grid index.
func DefaultParameter(idx int) Parameter {
	return Parameter{
		Name:    DefaultName(idx),
		Control: idx,
	}
}

// Bank is a named 8x8 grid of parameters, stored row-major.
type Bank struct {
	Name   string               `json:"name"`
	Params [NumParams]Parameter `json:"params"`
}

// NewBank creates a bank with every parameter at defaults.
func NewBank(name string) *Bank {
	b := &Bank{Name: name}
	b.Reset()
	return b
}

// At returns the parameter at (row, col). Callers must bounds-check
// first; see State.Param.
func (b *Bank) At(row, col int) *Parameter {
	return &b.Params[row*GridSize+col]
}

// Reset puts every parameter back to defaults. The bank name is kept.
func (b *Bank) Reset() {
	for i := range b.Params {
		b.Params[i] = DefaultParameter(i)
	}
}

// DefaultBankName returns the label for an unnamed bank.
func DefaultBankName(idx int) string {
	return fmt.Sprintf("BANK %d", idx+1)
}

// State is the single source of truth: all banks plus the user's focus.
// One interactive session drives all mutations sequentially, so the
// tree itself needs no locking.
type State struct {
	Banks     []*Bank `json:"banks"`
	Active    int     `json:"activeBank"`
	CursorRow int     `json:"cursorRow"`
	CursorCol int     `json:"cursorCol"`
}

// NewState creates a state with a single default bank.
func NewState() *State {
	return &State{Banks: []*Bank{NewBank(DefaultBankName(0))}}
}

// ActiveBank returns the currently selected bank.
func (s *State) ActiveBank() *Bank {
	return s.Banks[s.Active]
}

// Param returns the parameter at (row, col) in the given bank.
// Invalid coordinates are a broken invariant between the presentation
// layer and the core, reported as ErrBadBank / ErrBadAddress.
func (s *State) Param(bankIdx, row, col int) (*Parameter, error) {
	if bankIdx < 0 || bankIdx >= len(s.Banks) {
		return nil, fmt.Errorf("%w: bank %d of %d", ErrBadBank, bankIdx, len(s.Banks))
	}
	if row < 0 || row >= GridSize || col < 0 || col >= GridSize {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrBadAddress, row, col)
	}
	return s.Banks[bankIdx].At(row, col), nil
}

// Normalize repairs a freshly decoded state: at least one bank, indices
// inside the grid, parameter names filled in and all numeric fields
// clamped. Older or hand-edited files with missing fields decode to
// zero values and come out valid here instead of failing the load.
func (s *State) Normalize() {
	if len(s.Banks) == 0 {
		s.Banks = []*Bank{NewBank(DefaultBankName(0))}
	}
	for bi, b := range s.Banks {
		if b == nil {
			s.Banks[bi] = NewBank(DefaultBankName(bi))
			continue
		}
		if b.Name == "" {
			b.Name = DefaultBankName(bi)
		}
		for i := range b.Params {
			if b.Params[i].Name == "" {
				b.Params[i].Name = DefaultName(i)
			}
			b.Params[i].Clamp()
		}
	}
	s.Active = clamp(s.Active, 0, len(s.Banks)-1)
	s.CursorRow = clamp(s.CursorRow, 0, GridSize-1)
	s.CursorCol = clamp(s.CursorCol, 0, GridSize-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
