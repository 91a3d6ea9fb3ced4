package alert

// PasscodeLength is the fixed number of symbols in a passcode.
const PasscodeLength = 5

// Symbol is one passcode character, entered with the up, select or down
// button.
type Symbol uint8

const (
	// SymbolNone fills unused slots of an Entry. It is never compared.
	SymbolNone   Symbol = 0
	SymbolUp     Symbol = 1
	SymbolSelect Symbol = 2
	SymbolDown   Symbol = 3
)

// Valid reports whether s is one of the three enterable symbols.
func (s Symbol) Valid() bool {
	return s >= SymbolUp && s <= SymbolDown
}

// Char returns the digit character used for s in passcode strings.
func (s Symbol) Char() byte {
	if !s.Valid() {
		return ' '
	}
	return '0' + byte(s)
}

// Entry is the passcode entry buffer. The zero value is empty.
type Entry struct {
	symbols [PasscodeLength]Symbol
	n       int
}

// Reset empties the buffer.
func (e *Entry) Reset() {
	e.symbols = [PasscodeLength]Symbol{}
	e.n = 0
}

// Append adds s at the current position. Input beyond PasscodeLength and
// invalid symbols are ignored; the return value reports whether s was
// stored.
func (e *Entry) Append(s Symbol) bool {
	if !s.Valid() || e.n >= PasscodeLength {
		return false
	}
	e.symbols[e.n] = s
	e.n++
	return true
}

// Len returns the number of symbols entered.
func (e *Entry) Len() int {
	return e.n
}

// IsComplete reports whether PasscodeLength symbols have been entered.
func (e *Entry) IsComplete() bool {
	return e.n == PasscodeLength
}

// Matches reports whether the complete entry equals the configured
// passcode. An incomplete entry never matches.
func (e *Entry) Matches(configured string) bool {
	if !e.IsComplete() {
		return false
	}
	return e.String() == configured
}

// Symbols returns the buffer contents; slots past Len are SymbolNone.
func (e *Entry) Symbols() [PasscodeLength]Symbol {
	return e.symbols
}

// String returns the entered symbols as digits.
func (e *Entry) String() string {
	b := make([]byte, e.n)
	for i := 0; i < e.n; i++ {
		b[i] = e.symbols[i].Char()
	}
	return string(b)
}
