// Copyright (c) 2024 RoseLoverX

package tl

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// A Decoder reads and decodes TL values from a byte slice.
// The first error sticks: every later Pop returns a zero value.
type Decoder struct {
	buf []byte
	pos int
	err error
	reg *Registry
}

// NewDecoder returns a decoder without a registry, it can read primitives
// and known objects only.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{buf: data}
}

func (d *Decoder) Err() error {
	return d.err
}

// SetErr records err unless an earlier error is already recorded.
func (d *Decoder) SetErr(err error) {
	if d.err == nil {
		d.err = err
	}
}

// Len returns the number of unread bytes.
func (d *Decoder) Len() int {
	return len(d.buf) - d.pos
}

func (d *Decoder) Registry() *Registry {
	return d.reg
}

func (d *Decoder) read(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || d.Len() < n {
		d.err = errors.Wrapf(ErrUnexpectedEOF, "want %v bytes, got %v", n, d.Len())
		return nil
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b
}

func (d *Decoder) PopLong() int64 {
	val := d.read(LongLen)
	if d.err != nil {
		return 0
	}

	return int64(binary.LittleEndian.Uint64(val))
}

func (d *Decoder) PopDouble() float64 {
	val := d.read(DoubleLen)
	if d.err != nil {
		return 0
	}

	return math.Float64frombits(binary.LittleEndian.Uint64(val))
}

func (d *Decoder) PopUint() uint32 {
	val := d.read(WordLen)
	if d.err != nil {
		return 0
	}

	return binary.LittleEndian.Uint32(val)
}

func (d *Decoder) PopRawBytes(size int) []byte {
	val := d.read(size)
	if d.err != nil {
		return nil
	}

	return append([]byte(nil), val...)
}

func (d *Decoder) PopInt128() (v Int128) {
	copy(v[:], d.read(Int128Len))
	return v
}

func (d *Decoder) PopInt256() (v Int256) {
	copy(v[:], d.read(Int256Len))
	return v
}

func (d *Decoder) PopBool() bool {
	crc := d.PopUint()
	if d.err != nil {
		return false
	}

	switch crc {
	case CrcTrue:
		return true
	case CrcFalse:
		return false
	default:
		d.err = fmt.Errorf("not a bool value, actually: %#v", crc)
		return false
	}
}

func (d *Decoder) PopCRC() uint32 {
	return d.PopUint()
}

// ExpectCRC reads a constructor id and fails unless it equals want.
func (d *Decoder) ExpectCRC(want uint32) {
	got := d.PopCRC()
	if d.err == nil && got != want {
		d.err = &ErrUnexpectedCRC{Got: got, Want: want}
	}
}

func (d *Decoder) PopInt() int32 {
	return int32(d.PopUint())
}

// GetRestOfMessage consumes every unread byte.
func (d *Decoder) GetRestOfMessage() []byte {
	return d.PopRawBytes(d.Len())
}

func (d *Decoder) PopMessage() []byte {
	val := d.read(1)
	if d.err != nil {
		return nil
	}

	var realSize int
	var lenNumberSize int

	if val[0] != MagicNumber {
		realSize = int(val[0])
		lenNumberSize = 1
	} else {
		val = d.read(WordLen - 1)
		if d.err != nil {
			d.err = errors.Wrapf(d.err, "reading last %v bytes of message size", WordLen-1)
			return nil
		}

		realSize = int(val[0]) | int(val[1])<<8 | int(val[2])<<16
		lenNumberSize = WordLen
	}

	buf := d.PopRawBytes(realSize)
	if d.err != nil {
		d.err = errors.Wrapf(d.err, "reading message data with len of %v", realSize)
		return nil
	}

	if pad := padding4(lenNumberSize + realSize); pad > 0 {
		d.read(pad)
		if d.err != nil {
			d.err = errors.Wrapf(d.err, "reading %v last void bytes", pad)
			return nil
		}
	}

	return buf
}

func (d *Decoder) PopString() string {
	return string(d.PopMessage())
}

// popCount reads a vector length and checks that count elements of at least
// minSize bytes fit in what is left.
func (d *Decoder) popCount(minSize int) int {
	count := d.PopUint()
	if d.err != nil {
		return 0
	}
	if uint64(count)*uint64(minSize) > uint64(d.Len()) {
		d.err = &ErrCountMismatch{Count: count, Remaining: d.Len()}
		return 0
	}
	return int(count)
}

func (d *Decoder) PopVectorInt() []int32 {
	return PopBareVector(d, WordLen, (*Decoder).PopInt)
}

func (d *Decoder) PopVectorLong() []int64 {
	return PopBareVector(d, LongLen, (*Decoder).PopLong)
}

func (d *Decoder) PopVectorString() []string {
	return PopBareVector(d, WordLen, (*Decoder).PopString)
}

func (d *Decoder) PopVectorBytes() [][]byte {
	return PopBareVector(d, WordLen, (*Decoder).PopMessage)
}

// PopBareVector reads a boxed Vector whose elements are read by pop. minSize
// is the smallest encoded size of one element.
func PopBareVector[T any](d *Decoder, minSize int, pop func(*Decoder) T) []T {
	d.ExpectCRC(CrcVector)
	count := d.popCount(minSize)
	if d.err != nil {
		return nil
	}

	res := make([]T, 0, count)
	for i := 0; i < count; i++ {
		item := pop(d)
		if d.err != nil {
			return nil
		}
		res = append(res, item)
	}
	return res
}

// PopVector reads a Vector of boxed objects of type T.
func PopVector[T Object](d *Decoder) []T {
	return PopBareVector(d, WordLen, func(d *Decoder) T {
		var zero T
		obj := d.PopObject()
		if d.err != nil {
			return zero
		}
		v, ok := obj.(T)
		if !ok {
			d.err = fmt.Errorf("vector element: got %T, want %T", obj, zero)
			return zero
		}
		return v
	})
}

// PopObjectAs reads a boxed object and asserts it to T.
func PopObjectAs[T any](d *Decoder) T {
	var zero T
	obj := d.PopObject()
	if d.err != nil {
		return zero
	}
	v, ok := obj.(T)
	if !ok {
		d.err = fmt.Errorf("got %T, want %T", obj, zero)
		return zero
	}
	return v
}

// PopObject reads a boxed object of any registered type.
func (d *Decoder) PopObject() Object {
	crc := d.PopCRC()
	if d.err != nil {
		return nil
	}
	return d.popObjectWithCRC(crc)
}

func (d *Decoder) popObjectWithCRC(crc uint32) Object {
	switch crc {
	case CrcTrue:
		return &PseudoTrue{}
	case CrcFalse:
		return &PseudoFalse{}
	case CrcNull:
		return &PseudoNil{}
	case CrcVector:
		return d.popInferredVector()
	}

	var ctor func() Object
	if d.reg != nil {
		ctor, _ = d.reg.Lookup(crc)
	}
	if ctor == nil {
		d.err = &ErrRegisteredObjectNotFound{Crc: crc, Data: append([]byte(nil), d.buf[d.pos:]...)}
		return nil
	}

	obj := ctor()
	if u, ok := obj.(Unmarshaler); ok {
		if err := u.UnmarshalTL(d); err != nil {
			d.SetErr(err)
		}
	}
	if d.err != nil {
		d.err = errors.Wrapf(d.err, "decoding %T", obj)
		return nil
	}
	return obj
}

// popInferredVector reads the body of a Vector whose element type is not known.
// When the bytes left are exactly count ints or count longs the elements are
// read bare; anything else is read as boxed objects.
func (d *Decoder) popInferredVector() Vector {
	count := d.popCount(WordLen)
	if d.err != nil {
		return nil
	}
	if count == 0 {
		return Vector{}
	}

	switch d.Len() {
	case count * WordLen:
		return d.popVectorBody(count, HintInts)
	case count * LongLen:
		return d.popVectorBody(count, HintLongs)
	default:
		return d.popVectorBody(count, HintObjects)
	}
}

func (d *Decoder) popVectorBody(count int, h Hint) Vector {
	res := make(Vector, 0, count)
	for i := 0; i < count; i++ {
		var item any
		switch h {
		case HintInts:
			item = d.PopInt()
		case HintLongs:
			item = d.PopLong()
		default:
			item = d.PopObject()
		}
		if d.err != nil {
			return nil
		}
		res = append(res, item)
	}
	return res
}

// PopHinted reads a result the way h describes.
func (d *Decoder) PopHinted(h Hint) Object {
	switch h {
	case HintRaw:
		crc := d.PopCRC()
		if d.err != nil {
			return nil
		}
		return &RawObject{Constructor: crc, Body: d.GetRestOfMessage()}
	case HintInts, HintLongs, HintObjects:
		d.ExpectCRC(CrcVector)
		minSize := WordLen
		if h == HintLongs {
			minSize = LongLen
		}
		count := d.popCount(minSize)
		if d.err != nil {
			return nil
		}
		return d.popVectorBody(count, h)
	default:
		return d.PopObject()
	}
}
