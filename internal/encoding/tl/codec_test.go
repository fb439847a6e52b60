// Copyright (c) 2022 RoseLoverX

package tl_test

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
)

type pollAnswer struct {
	Text   string
	Option []byte
}

func (*pollAnswer) CRC() uint32 { return 0x6ca9c2e9 }

func (p *pollAnswer) MarshalTL(e *tl.Encoder) error {
	e.PutString(p.Text)
	e.PutMessage(p.Option)
	return e.CheckErr()
}

func (p *pollAnswer) UnmarshalTL(d *tl.Decoder) error {
	p.Text = d.PopString()
	p.Option = d.PopMessage()
	return d.Err()
}

type poll struct {
	ID       int64
	Closed   bool
	Question string
	Answers  []*pollAnswer
	Voters   []int64
	Rating   float64
}

func (*poll) CRC() uint32 { return 0x86e18161 }

func (p *poll) MarshalTL(e *tl.Encoder) error {
	var flags uint32
	if p.Closed {
		flags |= 1 << 0
	}
	e.PutLong(p.ID)
	e.PutUint(flags)
	e.PutString(p.Question)
	tl.PutVector(e, p.Answers)
	e.PutVectorLong(p.Voters)
	e.PutDouble(p.Rating)
	return e.CheckErr()
}

func (p *poll) UnmarshalTL(d *tl.Decoder) error {
	p.ID = d.PopLong()
	flags := d.PopUint()
	p.Closed = flags&(1<<0) != 0
	p.Question = d.PopString()
	p.Answers = tl.PopVector[*pollAnswer](d)
	p.Voters = d.PopVectorLong()
	p.Rating = d.PopDouble()
	return d.Err()
}

func newRegistry() *tl.Registry {
	reg := tl.NewRegistry()
	reg.Register(
		func() tl.Object { return &poll{} },
		func() tl.Object { return &pollAnswer{} },
	)
	return reg
}

func Hexed(in string) []byte {
	res, err := hex.DecodeString(strings.ReplaceAll(in, " ", ""))
	if err != nil {
		panic(err)
	}
	return res
}

func TestBareIntVector(t *testing.T) {
	data, err := tl.Marshal(tl.Vector{int32(1), int32(2), int32(3)})
	require.NoError(t, err)
	assert.Equal(t, Hexed("15C4B51C 03000000 01000000 02000000 03000000"), data)

	obj, err := newRegistry().Decode(data)
	require.NoError(t, err)
	ints, ok := obj.(tl.Vector).Ints()
	require.True(t, ok)
	assert.Equal(t, []int32{1, 2, 3}, ints)
}

func TestInferredLongVector(t *testing.T) {
	data, err := tl.Marshal(tl.Vector{int64(1) << 40, int64(-5)})
	require.NoError(t, err)

	obj, err := newRegistry().Decode(data)
	require.NoError(t, err)
	longs, ok := obj.(tl.Vector).Longs()
	require.True(t, ok)
	assert.Equal(t, []int64{1 << 40, -5}, longs)
}

func TestInferredVectorNeedsExactWidth(t *testing.T) {
	// five boxed elements in 24 bytes: four boolTrue and an empty vector
	data := Hexed("15C4B51C 05000000 B5757299 B5757299 B5757299 B5757299 15C4B51C 00000000")

	obj, err := newRegistry().Decode(data)
	require.NoError(t, err)
	v := obj.(tl.Vector)
	require.Len(t, v, 5)
	for _, item := range v[:4] {
		assert.IsType(t, &tl.PseudoTrue{}, item)
	}
	assert.Equal(t, tl.Vector{}, v[4])
	_, ok := v.Ints()
	assert.False(t, ok)
}

func TestVectorLaw(t *testing.T) {
	for n := 0; n < 40; n++ {
		in := make([]int32, n)
		strs := make([]string, n)
		for i := range in {
			in[i] = int32(i*7 - 3)
			strs[i] = strings.Repeat("x", i*13)
		}

		buf := bytes.NewBuffer(nil)
		enc := tl.NewEncoder(buf)
		enc.PutVectorInt(in)
		enc.PutVectorString(strs)
		require.NoError(t, enc.CheckErr())

		d := tl.NewDecoder(buf.Bytes())
		gotInts := d.PopVectorInt()
		gotStrs := d.PopVectorString()
		require.NoError(t, d.Err())
		assert.Equal(t, in, gotInts)
		assert.Equal(t, strs, gotStrs)
		assert.Zero(t, d.Len())
	}
}

func TestPrimitivesRoundTrip(t *testing.T) {
	var nonce tl.Int128
	var newNonce tl.Int256
	for i := range nonce {
		nonce[i] = byte(i)
	}
	for i := range newNonce {
		newNonce[i] = byte(255 - i)
	}
	long := bytes.Repeat([]byte{0xab}, 300)

	buf := bytes.NewBuffer(nil)
	enc := tl.NewEncoder(buf)
	enc.PutInt(-42)
	enc.PutLong(-1 << 50)
	enc.PutDouble(3.25)
	enc.PutBool(true)
	enc.PutBool(false)
	enc.PutInt128(nonce)
	enc.PutInt256(newNonce)
	enc.PutMessage(nil)
	enc.PutString("abc")
	enc.PutMessage(long)
	require.NoError(t, enc.CheckErr())
	assert.Zero(t, buf.Len()%tl.WordLen)

	d := tl.NewDecoder(buf.Bytes())
	assert.Equal(t, int32(-42), d.PopInt())
	assert.Equal(t, int64(-1<<50), d.PopLong())
	assert.Equal(t, 3.25, d.PopDouble())
	assert.True(t, d.PopBool())
	assert.False(t, d.PopBool())
	assert.Equal(t, nonce, d.PopInt128())
	assert.Equal(t, newNonce, d.PopInt256())
	assert.Empty(t, d.PopMessage())
	assert.Equal(t, "abc", d.PopString())
	assert.Equal(t, long, d.PopMessage())
	require.NoError(t, d.Err())
	assert.Zero(t, d.Len())
}

func TestLongMessagePrefix(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	tl.NewEncoder(buf).PutMessage(bytes.Repeat([]byte{1}, 254))
	assert.Equal(t, []byte{0xfe, 0xfe, 0x00, 0x00}, buf.Bytes()[:4])
	assert.Equal(t, 4+254+2, buf.Len())
}

func TestObjectRoundTrip(t *testing.T) {
	in := &poll{
		ID:       77,
		Closed:   true,
		Question: "tabs or spaces?",
		Answers:  []*pollAnswer{{Text: "tabs", Option: []byte{0}}, {Text: "spaces", Option: []byte{1}}},
		Voters:   []int64{10, 20},
		Rating:   0.5,
	}
	data, err := tl.Marshal(in)
	require.NoError(t, err)

	out, err := newRegistry().Decode(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestVectorOfObjectsInferred(t *testing.T) {
	in := tl.Vector{&pollAnswer{Text: "a", Option: []byte{1}}, &pollAnswer{Text: "bcdefgh", Option: []byte{2}}}
	data, err := tl.Marshal(in)
	require.NoError(t, err)

	out, err := newRegistry().Decode(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestHints(t *testing.T) {
	reg := newRegistry()

	data, err := tl.Marshal(tl.Vector{int64(5)})
	require.NoError(t, err)
	obj, err := reg.DecodeHinted(data, tl.HintObjects)
	assert.Error(t, err, "a long is not a boxed object")
	assert.Nil(t, obj)

	obj, err = reg.DecodeHinted(data, tl.HintLongs)
	require.NoError(t, err)
	assert.Equal(t, tl.Vector{int64(5)}, obj)

	answer := &pollAnswer{Text: "raw"}
	data, err = tl.Marshal(answer)
	require.NoError(t, err)
	obj, err = reg.DecodeHinted(data, tl.HintRaw)
	require.NoError(t, err)
	raw, ok := obj.(*tl.RawObject)
	require.True(t, ok)
	assert.Equal(t, answer.CRC(), raw.CRC())

	again, err := tl.Marshal(raw)
	require.NoError(t, err)
	assert.Equal(t, data, again)

	decoded, err := raw.Decode(reg)
	require.NoError(t, err)
	assert.Equal(t, &pollAnswer{Text: "raw"}, decoded)
}

func TestNativeTypes(t *testing.T) {
	reg := newRegistry()
	for _, tt := range []struct {
		obj  tl.Object
		want any
	}{
		{&tl.PseudoTrue{}, true},
		{&tl.PseudoFalse{}, false},
		{&tl.PseudoNil{}, nil},
	} {
		data, err := tl.Marshal(tt.obj)
		require.NoError(t, err)
		assert.Len(t, data, tl.WordLen)

		obj, err := reg.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, tt.want, tl.UnwrapNativeTypes(obj))
	}
}

func TestDecodeErrors(t *testing.T) {
	reg := newRegistry()

	_, err := reg.Decode(Hexed("01020304 00000000"))
	var notFound *tl.ErrRegisteredObjectNotFound
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, uint32(0x04030201), notFound.Crc)

	data, err := tl.Marshal(&poll{ID: 1, Question: "cut"})
	require.NoError(t, err)
	_, err = reg.Decode(data[:len(data)-3])
	assert.True(t, errors.Is(err, tl.ErrUnexpectedEOF))

	_, err = reg.Decode(Hexed("15C4B51C FFFFFF00 01000000"))
	var mismatch *tl.ErrCountMismatch
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, uint32(0x00ffffff), mismatch.Count)

	d := tl.NewDecoder(Hexed("00000000"))
	d.PopBool()
	assert.Error(t, d.Err())
}

func TestRegistryDuplicate(t *testing.T) {
	reg := newRegistry()
	assert.Equal(t, 2, reg.Len())
	assert.NotPanics(t, func() {
		reg.Register(func() tl.Object { return &poll{} })
	})
	assert.Panics(t, func() {
		reg.Register(func() tl.Object { return &fakePoll{} })
	})
}

type fakePoll struct{}

func (*fakePoll) CRC() uint32 { return 0x86e18161 }
