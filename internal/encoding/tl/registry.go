// Copyright (c) 2025 @AmarnathCJD

package tl

import (
	"fmt"
	"sync"
)

// Registry maps constructor ids to constructors. A client builds one at
// startup and hands it to every session and decoder it creates.
type Registry struct {
	mu    sync.RWMutex
	ctors map[uint32]func() Object
}

func NewRegistry() *Registry {
	return &Registry{ctors: make(map[uint32]func() Object)}
}

// Register adds constructors. Registering a second type under an id that is
// already taken panics, ids must be unique.
func (r *Registry) Register(ctors ...func() Object) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ctor := range ctors {
		obj := ctor()
		crc := obj.CRC()
		if prev, ok := r.ctors[crc]; ok {
			if fmt.Sprintf("%T", prev()) != fmt.Sprintf("%T", obj) {
				panic(fmt.Sprintf("tl: constructor 0x%08x registered for both %T and %T", crc, prev(), obj))
			}
		}
		r.ctors[crc] = ctor
	}
}

func (r *Registry) Lookup(crc uint32) (func() Object, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ctor, ok := r.ctors[crc]
	return ctor, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.ctors)
}

func (r *Registry) NewDecoder(data []byte) *Decoder {
	return &Decoder{buf: data, reg: r}
}

// Decode reads one boxed object from data.
func (r *Registry) Decode(data []byte) (Object, error) {
	return r.DecodeHinted(data, HintNone)
}

// DecodeHinted reads one result from data the way h describes.
func (r *Registry) DecodeHinted(data []byte, h Hint) (Object, error) {
	d := r.NewDecoder(data)
	obj := d.PopHinted(h)
	if d.err != nil {
		return nil, d.err
	}
	return obj, nil
}
