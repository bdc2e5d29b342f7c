package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"ccgrid/bank"
	"ccgrid/config"
	"ccgrid/debug"
	"ccgrid/midi"
	"ccgrid/store"
	"ccgrid/theme"
	"ccgrid/tui"
)

func main() {
	if os.Getenv("CCGRID_DEBUG") != "" {
		if err := debug.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}

	path, err := store.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "no home directory: %v\n", err)
		os.Exit(1)
	}
	repo := store.NewFileRepository(path)

	// A corrupt bank file surfaces as a warning and we start fresh;
	// the broken file is left in place until the first save replaces it.
	state, err := repo.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, starting with a fresh bank\n", err)
		debug.Log("store", "load: %v", err)
	}

	out := midi.NewOut()
	defer out.Close()
	connectOutput(out, cfg)

	params := bank.NewParamService(state, repo, out)
	banks := bank.NewBankService(state, repo)

	th := theme.New(theme.Heat())
	m := tui.NewModel(state, params, banks, out, cfg, th)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Final flush on the way out. Edits were already saved as they
	// happened; this catches the UI prefs and any last cursor move.
	if err := repo.Save(state); err != nil {
		fmt.Fprintf(os.Stderr, "warning: final save: %v\n", err)
	}
	if err := cfg.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: config save: %v\n", err)
	}
}

// connectOutput tries the preferred port first, then the first
// available one. Running without MIDI is fine; edits still persist.
func connectOutput(out *midi.Out, cfg *config.Config) {
	if cfg.PreferredPort != "" {
		if err := out.Connect(cfg.PreferredPort); err == nil {
			return
		}
		fmt.Fprintf(os.Stderr, "warning: preferred port %q unavailable\n", cfg.PreferredPort)
	}
	if err := out.ConnectFirst(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, MIDI output disabled\n", err)
	}
}
