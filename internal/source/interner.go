package source

import (
	"fmt"

	"fortio.org/safecast"
)

type StringID uint32

// NoStringID is the id of the empty string.
const NoStringID StringID = 0

// Interner maps identifier text to dense ids.
type Interner struct {
	strs []string
	ids  map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{strs: []string{""}, ids: map[string]StringID{"": NoStringID}}
}

func (in *Interner) Intern(s string) StringID {
	if id, ok := in.ids[s]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(in.strs))
	if err != nil {
		panic(fmt.Errorf("interner overflow: %w", err))
	}
	s = string([]byte(s)) // detach from the caller's buffer
	in.strs = append(in.strs, s)
	in.ids[s] = StringID(n)
	return StringID(n)
}

// Lookup reports false for ids this interner never issued.
func (in *Interner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(in.strs) {
		return "", false
	}
	return in.strs[id], true
}

// Len includes the empty string.
func (in *Interner) Len() int { return len(in.strs) }
