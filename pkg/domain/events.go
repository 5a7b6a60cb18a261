package domain

// EventType defines the category of the event.
type EventType string

const (
	EventStep    EventType = "rotor_step"
	EventEncrypt EventType = "encrypt"
)

// StepEvent reports a rotor advancing by one position.
type StepEvent struct {
	Type     EventType `json:"type"`
	Index    int       `json:"index"`    // Position in the chain, 0 is the rightmost rotor
	RotorID  int       `json:"rotor_id"` // Identity of the rotor (1..5)
	Position rune      `json:"position"` // Letter shown after the step
	Carry    bool      `json:"carry"`    // The rotor reached its notch
}

// EncryptEvent reports one processed character.
type EncryptEvent struct {
	Type    EventType `json:"type"`
	Input   rune      `json:"input"`
	Output  rune      `json:"output,omitempty"`
	Dropped bool      `json:"dropped,omitempty"` // Non-letter removed from the output
	Bypass  bool      `json:"bypass,omitempty"`  // Non-letter passed through unchanged
}

// Hooks defines callbacks for machine observability.
// Callbacks run synchronously on the encrypting goroutine and must not call back into the machine.
type Hooks struct {
	OnStep    func(*StepEvent)
	OnEncrypt func(*EncryptEvent)
}

// Merge returns hooks calling h first and then other.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnStep:    chain(h.OnStep, other.OnStep),
		OnEncrypt: chain(h.OnEncrypt, other.OnEncrypt),
	}
}

func chain[E any](a, b func(*E)) func(*E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e *E) {
		a(e)
		b(e)
	}
}
