package domain

// Account is a local profile that may be locked behind a PIN
type Account struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	PinHash string `json:"pinHash,omitempty"` // bcrypt hash, empty when no PIN is set
}

// HasPin returns true if the account is locked behind a PIN
func (a Account) HasPin() bool {
	return a.PinHash != ""
}
