package bank

import (
	"errors"
	"fmt"
	"testing"
)

// fakeRepo counts saves and can be made to fail.
type fakeRepo struct {
	saves int
	err   error
}

func (f *fakeRepo) Load() (*State, error) { return NewState(), f.err }
func (f *fakeRepo) Save(*State) error     { f.saves++; return f.err }

// fakeSender records emitted CC messages as (channel, control, value).
type fakeSender struct {
	sent [][3]uint8
	err  error
}

func (f *fakeSender) SendControlChange(ch, cc, val uint8) error {
	f.sent = append(f.sent, [3]uint8{ch, cc, val})
	return f.err
}

func newTestService() (*ParamService, *State, *fakeRepo, *fakeSender) {
	st := NewState()
	repo := &fakeRepo{}
	out := &fakeSender{}
	return NewParamService(st, repo, out), st, repo, out
}

func TestSetValueEmitsAndSaves(t *testing.T) {
	ps, st, repo, out := newTestService()

	if err := ps.SetValue(0, 0, "64"); err != nil {
		t.Fatal(err)
	}
	if got := st.ActiveBank().At(0, 0).Value; got != 64 {
		t.Errorf("value = %d, want 64", got)
	}
	if len(out.sent) != 1 || out.sent[0] != [3]uint8{0, 0, 64} {
		t.Errorf("sent = %v, want [[0 0 64]]", out.sent)
	}
	if repo.saves != 1 {
		t.Errorf("saves = %d, want 1", repo.saves)
	}
}

func TestSetValueClampsTotal(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"0", 0},
		{"127", 127},
		{"200", 127},
		{"99999", 127},
		{"-1", 0},
		{"-4000", 0},
		{" 42 ", 42},
	}
	for _, tt := range tests {
		ps, st, _, _ := newTestService()
		st.ActiveBank().At(0, 0).Value = 1 // so "0" and "-1" are real changes
		if err := ps.SetValue(0, 0, tt.raw); err != nil {
			t.Fatalf("%q: %v", tt.raw, err)
		}
		if got := st.ActiveBank().At(0, 0).Value; got != tt.want {
			t.Errorf("SetValue(%q) -> %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestSetOpsNoopOnBadInput(t *testing.T) {
	ps, st, repo, out := newTestService()
	p := st.ActiveBank().At(3, 4)
	p.Value = 50
	p.Channel = 5
	p.Control = 60
	p.Name = "CUT"
	before := *p

	for _, raw := range []string{"", "   ", "abc", "12x", "1.5"} {
		for _, op := range []func(int, int, string) error{ps.SetValue, ps.SetChannel, ps.SetControl} {
			if err := op(3, 4, raw); err != nil {
				t.Fatalf("input %q: %v", raw, err)
			}
		}
		if err := ps.SetName(3, 4, ""); err != nil {
			t.Fatal(err)
		}
		if *p != before {
			t.Fatalf("input %q mutated parameter: %+v", raw, *p)
		}
	}
	if len(out.sent) != 0 || repo.saves != 0 {
		t.Errorf("no-ops caused side effects: sent=%d saves=%d", len(out.sent), repo.saves)
	}
}

func TestSetValueSameValueIsNoop(t *testing.T) {
	ps, st, repo, out := newTestService()
	st.ActiveBank().At(0, 0).Value = 64

	if err := ps.SetValue(0, 0, "64"); err != nil {
		t.Fatal(err)
	}
	if len(out.sent) != 0 || repo.saves != 0 {
		t.Errorf("unchanged value caused side effects: sent=%d saves=%d", len(out.sent), repo.saves)
	}
}

func TestAdjustClampsAtBoundaries(t *testing.T) {
	ps, st, repo, out := newTestService()
	p := st.ActiveBank().At(0, 0)

	// At the lower boundary nothing happens
	if err := ps.Adjust(0, 0, -1); err != nil {
		t.Fatal(err)
	}
	if p.Value != 0 || len(out.sent) != 0 || repo.saves != 0 {
		t.Errorf("decrement at 0: value=%d sent=%d saves=%d", p.Value, len(out.sent), repo.saves)
	}

	if err := ps.Adjust(0, 0, 1); err != nil {
		t.Fatal(err)
	}
	if p.Value != 1 || len(out.sent) != 1 {
		t.Errorf("increment: value=%d sent=%d", p.Value, len(out.sent))
	}

	// A big delta clamps instead of wrapping
	if err := ps.Adjust(0, 0, 500); err != nil {
		t.Fatal(err)
	}
	if p.Value != 127 {
		t.Errorf("value = %d, want 127", p.Value)
	}

	// At the upper boundary nothing happens
	sent, saves := len(out.sent), repo.saves
	if err := ps.Adjust(0, 0, 1); err != nil {
		t.Fatal(err)
	}
	if p.Value != 127 || len(out.sent) != sent || repo.saves != saves {
		t.Errorf("increment at 127: value=%d sent=%d saves=%d", p.Value, len(out.sent), repo.saves)
	}
}

func TestSetNameNeverEmits(t *testing.T) {
	ps, st, repo, out := newTestService()

	if err := ps.SetName(0, 0, "Filter Cutoff (long name is fine)"); err != nil {
		t.Fatal(err)
	}
	if got := st.ActiveBank().At(0, 0).Name; got != "Filter Cutoff (long name is fine)" {
		t.Errorf("name = %q", got)
	}
	if len(out.sent) != 0 {
		t.Errorf("rename emitted MIDI: %v", out.sent)
	}
	if repo.saves != 1 {
		t.Errorf("saves = %d, want 1", repo.saves)
	}
}

func TestSetChannelEmitsNewState(t *testing.T) {
	ps, st, _, out := newTestService()
	p := st.ActiveBank().At(2, 1)
	p.Value = 100

	if err := ps.SetChannel(2, 1, "20"); err != nil {
		t.Fatal(err)
	}
	if p.Channel != 15 {
		t.Errorf("channel = %d, want 15 (clamped)", p.Channel)
	}
	want := [3]uint8{15, uint8(p.Control), 100}
	if len(out.sent) != 1 || out.sent[0] != want {
		t.Errorf("sent = %v, want [%v]", out.sent, want)
	}
}

func TestSetControlEmitsNewState(t *testing.T) {
	ps, st, _, out := newTestService()
	p := st.ActiveBank().At(0, 5)
	p.Value = 33

	if err := ps.SetControl(0, 5, "74"); err != nil {
		t.Fatal(err)
	}
	if p.Control != 74 {
		t.Errorf("control = %d, want 74", p.Control)
	}
	want := [3]uint8{0, 74, 33}
	if len(out.sent) != 1 || out.sent[0] != want {
		t.Errorf("sent = %v, want [%v]", out.sent, want)
	}
}

func TestBadAddressFails(t *testing.T) {
	ps, _, repo, out := newTestService()

	for _, addr := range [][2]int{{8, 0}, {0, 8}, {-1, 0}, {0, -1}} {
		err := ps.SetValue(addr[0], addr[1], "10")
		if !errors.Is(err, ErrBadAddress) {
			t.Errorf("SetValue(%d,%d): err = %v, want ErrBadAddress", addr[0], addr[1], err)
		}
	}
	if len(out.sent) != 0 || repo.saves != 0 {
		t.Errorf("bad address caused side effects")
	}
}

func TestSaveFailureDoesNotRollBack(t *testing.T) {
	ps, st, repo, out := newTestService()
	repo.err = fmt.Errorf("disk full")

	err := ps.SetValue(0, 0, "64")
	if !errors.Is(err, ErrSaveFailed) {
		t.Fatalf("err = %v, want ErrSaveFailed", err)
	}
	if got := st.ActiveBank().At(0, 0).Value; got != 64 {
		t.Errorf("value = %d, want 64 (state stays authoritative)", got)
	}
	if len(out.sent) != 1 {
		t.Errorf("emission skipped on save failure")
	}
}

func TestSendFailureDoesNotRollBack(t *testing.T) {
	ps, st, repo, out := newTestService()
	out.err = fmt.Errorf("port gone")

	err := ps.SetValue(0, 0, "64")
	if !errors.Is(err, ErrSendFailed) {
		t.Fatalf("err = %v, want ErrSendFailed", err)
	}
	if got := st.ActiveBank().At(0, 0).Value; got != 64 {
		t.Errorf("value = %d, want 64", got)
	}
	if repo.saves != 1 {
		t.Errorf("save skipped on send failure")
	}
}

// The full first-session walkthrough: fresh state, edit, nudge, clamp,
// then a new bank.
func TestFreshSessionScenario(t *testing.T) {
	st := NewState()
	repo := &fakeRepo{}
	out := &fakeSender{}
	ps := NewParamService(st, repo, out)
	bs := NewBankService(st, repo)

	if len(st.Banks) != 1 || len(st.Banks[0].Params) != NumParams {
		t.Fatalf("fresh state: %d banks", len(st.Banks))
	}

	if err := ps.SetValue(0, 0, "64"); err != nil {
		t.Fatal(err)
	}
	if err := ps.Adjust(0, 0, 1); err != nil {
		t.Fatal(err)
	}
	if err := ps.SetValue(0, 0, "200"); err != nil {
		t.Fatal(err)
	}

	want := [][3]uint8{{0, 0, 64}, {0, 0, 65}, {0, 0, 127}}
	if len(out.sent) != len(want) {
		t.Fatalf("sent %d messages, want %d: %v", len(out.sent), len(want), out.sent)
	}
	for i := range want {
		if out.sent[i] != want[i] {
			t.Errorf("message %d = %v, want %v", i, out.sent[i], want[i])
		}
	}
	if repo.saves != 3 {
		t.Errorf("saves = %d, want 3", repo.saves)
	}

	if _, err := bs.Create("Lead"); err != nil {
		t.Fatal(err)
	}
	if len(st.Banks) != 2 || st.Active != 1 {
		t.Fatalf("after create: %d banks, active %d", len(st.Banks), st.Active)
	}
	for i, p := range st.ActiveBank().Params {
		if p != DefaultParameter(i) {
			t.Fatalf("new bank param %d not default: %+v", i, p)
		}
	}
}
