// Copyright (c) 2025 @AmarnathCJD

package tl

import (
	"fmt"
)

// Object is anything with a constructor id.
type Object interface {
	CRC() uint32
}

// Marshaler writes the fields of an object, without its constructor id.
type Marshaler interface {
	MarshalTL(*Encoder) error
}

// Unmarshaler reads the fields of an object, after its constructor id was consumed.
type Unmarshaler interface {
	UnmarshalTL(*Decoder) error
}

// Int128 and Int256 are kept as raw wire bytes, nonces never need arithmetic.
type (
	Int128 [Int128Len]byte
	Int256 [Int256Len]byte
)

//==========================================================================================================//
// Next types are specific structs for handling bool types, slice and null as object.                       //
//==========================================================================================================//

// PseudoTrue is a support struct which is required to get native
type PseudoTrue struct{}

func (*PseudoTrue) CRC() uint32 {
	return CrcTrue
}

func (*PseudoTrue) MarshalTL(*Encoder) error { return nil }

// PseudoFalse is a support struct which is required to get native
type PseudoFalse struct{}

func (*PseudoFalse) CRC() uint32 {
	return CrcFalse
}

func (*PseudoFalse) MarshalTL(*Encoder) error { return nil }

type PseudoNil struct{}

func (*PseudoNil) CRC() uint32 {
	return CrcNull
}

func (*PseudoNil) MarshalTL(*Encoder) error { return nil }

// Vector is a vector whose element type was not known while decoding.
// Elements are int32, int64 or Object; when encoding, string, []byte,
// bool and float64 are accepted too.
type Vector []any

func (Vector) CRC() uint32 {
	return CrcVector
}

func (v Vector) MarshalTL(e *Encoder) error {
	e.PutUint(uint32(len(v)))
	for i, item := range v {
		switch val := item.(type) {
		case int32:
			e.PutInt(val)
		case int64:
			e.PutLong(val)
		case uint32:
			e.PutUint(val)
		case float64:
			e.PutDouble(val)
		case bool:
			e.PutBool(val)
		case string:
			e.PutString(val)
		case []byte:
			e.PutMessage(val)
		case Object:
			e.PutObject(val)
		default:
			return fmt.Errorf("vector element %d: unsupported type %T", i, item)
		}
	}
	return e.CheckErr()
}

// Ints returns the elements as int32, false if any element is not one.
func (v Vector) Ints() ([]int32, bool) {
	out := make([]int32, 0, len(v))
	for _, item := range v {
		i, ok := item.(int32)
		if !ok {
			return nil, false
		}
		out = append(out, i)
	}
	return out, true
}

// Longs returns the elements as int64, false if any element is not one.
func (v Vector) Longs() ([]int64, bool) {
	out := make([]int64, 0, len(v))
	for _, item := range v {
		i, ok := item.(int64)
		if !ok {
			return nil, false
		}
		out = append(out, i)
	}
	return out, true
}

// RawObject is an object kept undecoded, see HintRaw.
type RawObject struct {
	Constructor uint32
	Body        []byte
}

func (r *RawObject) CRC() uint32 {
	return r.Constructor
}

func (r *RawObject) MarshalTL(e *Encoder) error {
	e.PutRawBytes(r.Body)
	return e.CheckErr()
}

// Decode decodes the kept bytes with reg.
func (r *RawObject) Decode(reg *Registry) (Object, error) {
	d := reg.NewDecoder(r.Body)
	obj := d.popObjectWithCRC(r.Constructor)
	return obj, d.Err()
}

func UnwrapNativeTypes(in Object) any {
	switch i := in.(type) {
	case *PseudoTrue:
		return true
	case *PseudoFalse:
		return false
	case *PseudoNil:
		return nil
	case Vector:
		return []any(i)
	default:
		return in
	}
}

// Hint tells the decoder how a result of a request should be read.
type Hint uint8

const (
	// HintNone decodes a boxed object; vectors infer their element width.
	HintNone Hint = iota
	// HintRaw keeps the result undecoded as a *RawObject.
	HintRaw
	// HintInts reads a Vector<int>.
	HintInts
	// HintLongs reads a Vector<long>.
	HintLongs
	// HintObjects reads a Vector of boxed objects.
	HintObjects
)

// HintedRequest is implemented by requests whose result needs a Hint.
type HintedRequest interface {
	ResultHint() Hint
}

// HintOf returns the result hint of req.
func HintOf(req Object) Hint {
	if h, ok := req.(HintedRequest); ok {
		return h.ResultHint()
	}
	return HintNone
}
