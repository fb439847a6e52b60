// Copyright (c) 2025 @AmarnathCJD

package tl

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

type Encoder struct {
	w io.Writer
	// this error is last unsuccessful write into w. if this err != nil,
	// write() method will not write anything more.
	err error
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Marshal encodes a boxed object: its constructor id followed by its fields.
func Marshal(o Object) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	enc := NewEncoder(buf)
	enc.PutObject(o)
	if err := enc.CheckErr(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Encoder) write(b []byte) {
	if e.err != nil {
		return
	}

	n, err := e.w.Write(b)
	if err != nil {
		e.err = err
		return
	}

	if n != len(b) {
		e.err = &ErrorPartialWrite{Has: n, Want: len(b)}
	}
}

// CheckErr must be called after encoding has been finished. If this function returns a non-nil value,
// the encoding has failed, and the resulting data should not be used.
func (e *Encoder) CheckErr() error {
	return e.err
}

// PutBool is a very specific type. Since there are separate constructors for true and false,
// they can be considered as two CRC constants.
func (e *Encoder) PutBool(v bool) {
	crc := CrcFalse
	if v {
		crc = CrcTrue
	}

	e.PutUint(crc)
}

func (e *Encoder) putUint8(v uint8) {
	tmp := [1]byte{v}
	e.write(tmp[:])
}

func (e *Encoder) PutUint(v uint32) {
	var buf [WordLen]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	e.write(buf[:])
}

// PutCRC is an alias for Encoder.PutUint. It is used for better code readability and self-documentation.
func (e *Encoder) PutCRC(v uint32) {
	e.PutUint(v)
}

func (e *Encoder) PutInt(v int32) {
	e.PutUint(uint32(v))
}

func (e *Encoder) PutLong(v int64) {
	var buf [LongLen]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	e.write(buf[:])
}

func (e *Encoder) PutDouble(v float64) {
	var buf [DoubleLen]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	e.write(buf[:])
}

func (e *Encoder) PutInt128(v Int128) {
	e.write(v[:])
}

func (e *Encoder) PutInt256(v Int256) {
	e.write(v[:])
}

func (e *Encoder) PutMessage(b []byte) {
	size := len(b)
	pad := 0

	if size >= maxMessageLen {
		e.err = fmt.Errorf("message entity too large: expect less than %v, got %v", maxMessageLen, size)
		return
	}

	switch {
	case size < MagicNumber:
		pad = padding4(size + 1)
		e.putUint8(uint8(size))
	default:
		pad = padding4(size)
		e.PutUint(uint32(size)<<8 | MagicNumber)
	}

	e.write(b)

	if pad > 0 {
		var zero [4]byte
		e.write(zero[:pad])
	}
}

func (e *Encoder) PutString(msg string) {
	e.PutMessage([]byte(msg))
}

func (e *Encoder) PutRawBytes(b []byte) {
	e.write(b)
}

// PutObject writes a boxed object. Objects without fields need no MarshalTL.
func (e *Encoder) PutObject(o Object) {
	if e.err != nil {
		return
	}
	if o == nil {
		e.err = fmt.Errorf("can't encode nil object")
		return
	}
	e.PutCRC(o.CRC())
	if m, ok := o.(Marshaler); ok {
		if err := m.MarshalTL(e); err != nil && e.err == nil {
			e.err = err
		}
	}
}

func (e *Encoder) PutVectorInt(v []int32) {
	e.PutCRC(CrcVector)
	e.PutUint(uint32(len(v)))
	for _, item := range v {
		e.PutInt(item)
	}
}

func (e *Encoder) PutVectorLong(v []int64) {
	e.PutCRC(CrcVector)
	e.PutUint(uint32(len(v)))
	for _, item := range v {
		e.PutLong(item)
	}
}

func (e *Encoder) PutVectorString(v []string) {
	e.PutCRC(CrcVector)
	e.PutUint(uint32(len(v)))
	for _, item := range v {
		e.PutString(item)
	}
}

func (e *Encoder) PutVectorBytes(v [][]byte) {
	e.PutCRC(CrcVector)
	e.PutUint(uint32(len(v)))
	for _, item := range v {
		e.PutMessage(item)
	}
}

// PutVector writes a Vector of boxed objects.
func PutVector[T Object](e *Encoder, v []T) {
	e.PutCRC(CrcVector)
	e.PutUint(uint32(len(v)))
	for _, item := range v {
		e.PutObject(item)
	}
}

// PutBareVector writes a Vector whose elements are written by put, without
// their own constructor ids.
func PutBareVector[T any](e *Encoder, v []T, put func(*Encoder, T)) {
	e.PutCRC(CrcVector)
	e.PutUint(uint32(len(v)))
	for _, item := range v {
		put(e, item)
	}
}
