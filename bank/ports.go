package bank

import "errors"

// Error taxonomy. Bad addresses mean the presentation layer handed the
// core coordinates it should never produce. Save and send failures are
// non-fatal: the in-memory state stays authoritative and editing
// continues.
var (
	ErrBadAddress = errors.New("grid address out of range")
	ErrBadBank    = errors.New("bank index out of range")
	ErrSaveFailed = errors.New("bank save failed")
	ErrSendFailed = errors.New("midi send failed")
)

// Repository persists the full state tree.
type Repository interface {
	Load() (*State, error)
	Save(*State) error
}

// Sender emits outbound MIDI control-change messages. Fire and forget:
// a failed send is reported but never rolls back a state change.
type Sender interface {
	SendControlChange(channel, control, value uint8) error
}
