// Package midi wraps the outbound MIDI connection. The core only needs
// one capability from it: send a control-change on a channel.
package midi

import (
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register MIDI driver
)

// Outputs returns the names of all available MIDI output ports.
func Outputs() []string {
	var names []string
	for _, port := range gomidi.GetOutPorts() {
		names = append(names, port.String())
	}
	return names
}

// Out is a single outbound MIDI port. Sends are best effort: with no
// port connected SendControlChange reports an error and the caller
// carries on, state unchanged on their side.
type Out struct {
	mu   sync.Mutex
	name string
	send func(gomidi.Message) error
}

// NewOut returns a disconnected output.
func NewOut() *Out {
	return &Out{}
}

// Connect opens the named output port, replacing any current connection.
func (o *Out) Connect(portName string) error {
	for _, port := range gomidi.GetOutPorts() {
		if port.String() != portName {
			continue
		}
		send, err := gomidi.SendTo(port)
		if err != nil {
			return fmt.Errorf("open %s: %w", portName, err)
		}
		o.mu.Lock()
		o.name = portName
		o.send = send
		o.mu.Unlock()
		return nil
	}
	return fmt.Errorf("no such output port: %s", portName)
}

// ConnectFirst connects to the first available output port.
func (o *Out) ConnectFirst() error {
	ports := gomidi.GetOutPorts()
	if len(ports) == 0 {
		return fmt.Errorf("no MIDI output ports available")
	}
	return o.Connect(ports[0].String())
}

// Connected reports whether a port is open.
func (o *Out) Connected() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.send != nil
}

// PortName returns the connected port's name, or "" when disconnected.
func (o *Out) PortName() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.name
}

// SendControlChange emits one CC message. MIDI has no ack; this returns
// as soon as the driver accepts the bytes.
func (o *Out) SendControlChange(channel, control, value uint8) error {
	o.mu.Lock()
	send := o.send
	o.mu.Unlock()
	if send == nil {
		return fmt.Errorf("no MIDI port connected")
	}
	return send(gomidi.ControlChange(channel, control, value))
}

// Close drops the connection and releases the MIDI driver.
func (o *Out) Close() {
	o.mu.Lock()
	o.name = ""
	o.send = nil
	o.mu.Unlock()
	gomidi.CloseDriver()
}
