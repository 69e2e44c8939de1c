// Package pin implements the PIN entry flow independent of any widget.
// A widget feeds every text change into Dialog.Change and renders the result.
package pin

// Mode is fixed when the dialog opens
type Mode int

const (
	ModeNoPin     Mode = iota // No PIN exists and none is being set
	ModeVerifying             // A PIN exists and must be matched
	ModeCreating              // Editing an account without a PIN; any 4 digits are accepted
)

func (m Mode) String() string {
	switch m {
	case ModeNoPin:
		return "no-pin"
	case ModeVerifying:
		return "verifying"
	case ModeCreating:
		return "creating"
	}
	return "unknown"
}

// Event is the outcome of a text change
type Event int

const (
	EventNone      Event = iota // Waiting for more input
	EventTooShort               // Creating mode and fewer than 4 digits
	EventIncorrect              // Did not match; input was cleared
	EventValid                  // 4 digits entered, waiting for explicit submit
	EventAccepted               // Matched; dialog is closed
)

// Inline error texts
const (
	ErrorTooShort  = "PIN must be 4 digits"
	ErrorIncorrect = "Incorrect PIN"
)

// Result receives the outcome exactly once: the accepted PIN and true,
// or "" and false when the dialog was cancelled.
type Result func(pin string, ok bool)

// Dialog tracks one PIN entry session.
type Dialog struct {
	secret   Secret
	mode     Mode
	editing  bool
	text     string
	errText  string
	valid    bool
	done     bool
	callback Result
}

// NewDialog opens a PIN dialog. secret is nil when no PIN exists;
// edit is true when the account is being edited rather than unlocked.
func NewDialog(secret Secret, edit bool, callback Result) *Dialog {
	mode := ModeNoPin
	switch {
	case secret != nil:
		mode = ModeVerifying
	case edit:
		mode = ModeCreating
	}
	return &Dialog{
		secret:   secret,
		mode:     mode,
		editing:  edit,
		callback: callback,
	}
}

func (d *Dialog) Mode() Mode { return d.mode }

// Title returns the dialog title for the current mode
func (d *Dialog) Title() string {
	if d.editing && d.secret != nil {
		return "Enter current PIN"
	}
	return "Enter PIN"
}

// Text returns the current input (empty after an incorrect attempt)
func (d *Dialog) Text() string { return d.text }

// Error returns the inline error, or "" when none is shown
func (d *Dialog) Error() string { return d.errText }

// Valid returns true when an explicit submit would be accepted
func (d *Dialog) Valid() bool { return d.valid }

// Done returns true once the callback has fired
func (d *Dialog) Done() bool { return d.done }

// Change processes a text change.
func (d *Dialog) Change(text string) Event {
	if d.done {
		return EventNone
	}
	d.text = text

	if !isComplete(text) {
		d.valid = false
		if d.mode == ModeCreating {
			d.errText = ErrorTooShort
			return EventTooShort
		}
		return EventNone
	}

	if d.secret != nil {
		if !d.secret.Matches(text) {
			d.errText = ErrorIncorrect
			d.text = ""
			d.valid = false
			return EventIncorrect
		}
		d.errText = ""
		d.valid = true
		d.finish(text, true)
		return EventAccepted
	}

	d.errText = ""
	d.valid = true
	return EventValid
}

// Submit accepts the current input if it is valid. Returns false (and does
// nothing) otherwise.
func (d *Dialog) Submit() bool {
	if d.done || !d.valid {
		return false
	}
	d.finish(d.text, true)
	return true
}

// Cancel closes the dialog without a PIN. No-op once the callback has fired.
func (d *Dialog) Cancel() {
	if d.done {
		return
	}
	d.finish("", false)
}

func (d *Dialog) finish(pin string, ok bool) {
	d.done = true
	if d.callback != nil {
		d.callback(pin, ok)
	}
}
