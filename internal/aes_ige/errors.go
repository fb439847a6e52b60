// Copyright (c) 2024 RoseLoverX

package ige

import (
	"fmt"
)

var (
	ErrDataTooSmall     = fmt.Errorf("AES256IGE: data too small")
	ErrDataNotDivisible = fmt.Errorf("AES256IGE: data not divisible by block size")
	ErrOutputTooSmall   = fmt.Errorf("AES256IGE: output shorter than input")
	ErrIVSize           = fmt.Errorf("AES256IGE: iv must be 32 bytes")
	ErrMsgKeyMismatch   = fmt.Errorf("msg_key mismatch")
	ErrAuthKeySize      = fmt.Errorf("auth key must be 256 bytes")
	ErrPoolClosed       = fmt.Errorf("crypto pool is closed")
)
