package cpu

// Flags is the flag register set.
type Flags struct {
	Halt     bool // Execution stops. Never cleared once set.
	Zero     bool // Last compare was equal, or a subtract reached zero.
	Overflow bool // An arithmetic result did not fit in a word.
}

// Reset clears all flags.
func (fl *Flags) Reset() {
	*fl = Flags{}
}

// String returns the flags as a compact "hzo" summary, upper case when set.
func (fl Flags) String() string {
	text := []byte("hzo")
	if fl.Halt {
		text[0] = 'H'
	}
	if fl.Zero {
		text[1] = 'Z'
	}
	if fl.Overflow {
		text[2] = 'O'
	}
	return string(text)
}
