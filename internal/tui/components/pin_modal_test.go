package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/hoard/internal/pin"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeDigits feeds keys one at a time and returns the first result
func typeDigits(t *testing.T, m PinModal, digits string) (PinModal, *PinResult) {
	t.Helper()
	for _, r := range digits {
		var res *PinResult
		m, _, res = m.Update(runes(string(r)))
		if res != nil {
			return m, res
		}
	}
	return m, nil
}

func TestPinModal_UnlockAccepted(t *testing.T) {
	m := NewPinModal()
	m.Show(PinPurposeUnlock, pin.PlainSecret("1234"), false)

	m, res := typeDigits(t, m, "1234")
	if res == nil {
		t.Fatal("no result after matching pin")
	}
	if !res.OK || res.Pin != "1234" || res.Purpose != PinPurposeUnlock {
		t.Errorf("result = %+v, want accepted unlock with 1234", *res)
	}
	if m.IsVisible() {
		t.Error("modal still visible after accept")
	}
}

func TestPinModal_IncorrectClearsInput(t *testing.T) {
	m := NewPinModal()
	m.Show(PinPurposeUnlock, pin.PlainSecret("1234"), false)

	m, res := typeDigits(t, m, "9999")
	if res != nil {
		t.Fatalf("result after mismatch = %+v, want none", *res)
	}
	if m.Error() != pin.ErrorIncorrect {
		t.Errorf("Error() = %q, want %q", m.Error(), pin.ErrorIncorrect)
	}
	if m.input.Value() != "" {
		t.Errorf("input = %q, want cleared", m.input.Value())
	}
	if !m.IsVisible() {
		t.Error("modal closed after mismatch")
	}
}

func TestPinModal_IgnoresNonDigits(t *testing.T) {
	m := NewPinModal()
	m.Show(PinPurposeSet, nil, true)

	m, _, _ = m.Update(runes("a"))
	m, _, _ = m.Update(runes("1"))
	if m.input.Value() != "1" {
		t.Errorf("input = %q, want 1", m.input.Value())
	}
}

func TestPinModal_SetRequiresSubmit(t *testing.T) {
	m := NewPinModal()
	m.Show(PinPurposeSet, nil, true)

	m, res := typeDigits(t, m, "12")
	if res != nil {
		t.Fatal("result before submit")
	}
	m, _, res = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if res != nil {
		t.Fatal("short pin submitted")
	}
	if m.Error() != pin.ErrorTooShort {
		t.Errorf("Error() = %q, want %q", m.Error(), pin.ErrorTooShort)
	}

	m, res = typeDigits(t, m, "34")
	if res != nil {
		t.Fatal("creating mode closed without submit")
	}
	m, _, res = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if res == nil || !res.OK || res.Pin != "1234" {
		t.Fatalf("result = %+v, want accepted 1234", res)
	}
	if m.IsVisible() {
		t.Error("modal still visible after submit")
	}
}

func TestPinModal_Cancel(t *testing.T) {
	m := NewPinModal()
	m.Show(PinPurposeVerify, pin.PlainSecret("1234"), true)

	m, _, res := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if res == nil {
		t.Fatal("no result after esc")
	}
	if res.OK || res.Purpose != PinPurposeVerify {
		t.Errorf("result = %+v, want cancelled verify", *res)
	}
	if m.IsVisible() {
		t.Error("modal still visible after cancel")
	}

	if _, _, res := m.Update(tea.KeyMsg{Type: tea.KeyEsc}); res != nil {
		t.Error("hidden modal reported a second result")
	}
}
