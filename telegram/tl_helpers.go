// Copyright (c) 2025 @AmarnathCJD

package telegram

import (
	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
)

// Layer is the API layer the types of this package follow.
const Layer = 166

// flags is a TL flags:# field.
type flags uint32

func (f flags) has(bit uint) bool {
	return f&(1<<bit) != 0
}

func (f *flags) set(bit uint, on bool) {
	if on {
		*f |= 1 << bit
	} else {
		*f &^= 1 << bit
	}
}

// presence bits are recomputed from the fields on every encode, the rest of
// a stored flags value is kept as is.
func (f flags) without(bits ...uint) flags {
	for _, b := range bits {
		f.set(b, false)
	}
	return f
}

func putOptObject(e *tl.Encoder, o tl.Object) {
	if o != nil {
		e.PutObject(o)
	}
}
