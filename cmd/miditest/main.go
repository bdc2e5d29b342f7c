// miditest is a small smoke tool for checking MIDI output outside the
// TUI: list ports, or fire a single control-change at one.
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"ccgrid/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "cc":
		sendCC(os.Args[2:])
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI test tool")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                            - list MIDI output ports")
	fmt.Println("  cc <port> <channel> <cc> <val>  - send one control-change")
}

func listPorts() {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ch := make(chan []string, 1)
	go func() {
		ch <- midi.Outputs()
	}()

	select {
	case ports := <-ch:
		if len(ports) == 0 {
			fmt.Println("  (none)")
		}
		for i, p := range ports {
			fmt.Printf("  %d: %s\n", i, p)
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! MIDI backend is hung.")
	}
}

func sendCC(args []string) {
	if len(args) != 4 {
		usage()
		os.Exit(1)
	}

	channel, err1 := strconv.Atoi(args[1])
	control, err2 := strconv.Atoi(args[2])
	value, err3 := strconv.Atoi(args[3])
	if err1 != nil || err2 != nil || err3 != nil {
		usage()
		os.Exit(1)
	}

	out := midi.NewOut()
	defer out.Close()

	if err := out.Connect(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(1)
	}

	if err := out.SendControlChange(uint8(channel), uint8(control), uint8(value)); err != nil {
		fmt.Fprintf(os.Stderr, "send: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("sent cc ch=%d cc=%d val=%d to %s\n", channel, control, value, args[0])
}
