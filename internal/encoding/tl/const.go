// Copyright (c) 2025 @AmarnathCJD

package tl

const (
	WordLen   = 4           // Size of a word in TL (32 bits)
	LongLen   = WordLen * 2 // int64 occupies 8 bytes
	DoubleLen = WordLen * 2 // float64 occupies 8 bytes
	Int128Len = WordLen * 4 // int128 occupies 16 bytes
	Int256Len = WordLen * 8 // int256 occupies 32 bytes

	// MagicNumber marks a byte string whose length does not fit in one byte.
	MagicNumber = 0xfe // 254

	// maxMessageLen is the largest byte string a 3 byte length prefix can describe.
	maxMessageLen = 1 << 24

	// https://core.telegram.org/schema/mtproto
	CrcVector uint32 = 0x1cb5c415
	CrcFalse  uint32 = 0xbc799737
	CrcTrue   uint32 = 0x997275b5
	CrcNull   uint32 = 0x56730bcc
)

func padding4(n int) int {
	if n%WordLen == 0 {
		return 0
	}
	return WordLen - n%WordLen
}
