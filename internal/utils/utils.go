// Copyright (c) 2024 RoseLoverX

package utils

import (
	cr "crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"sync"
	"time"
)

// ------------------ Telegram Data Center Configs ------------------

// DcList holds the production addresses of each datacenter, IPv4 first.
var DcList = map[int][]DC{
	1: {{"149.154.175.53:443", false}, {"[2001:b28:f23d:f001::a]:443", true}},
	2: {{"149.154.167.51:443", false}, {"[2001:67c:4e8:f002::a]:443", true}},
	3: {{"149.154.175.100:443", false}, {"[2001:b28:f23d:f003::a]:443", true}},
	4: {{"149.154.167.91:443", false}, {"[2001:67c:4e8:f004::a]:443", true}},
	5: {{"91.108.56.130:443", false}, {"[2001:b28:f23f:f005::a]:443", true}},
	// cdn
	203: {{"91.105.192.100:443", false}},
}

var TestDataCenters = map[int]string{
	1: "149.154.175.10:80",
	2: "149.154.167.40:80",
	3: "149.154.175.117:80",
}

type DC struct {
	Addr string
	V    bool // ipv6
}

// GetHostIp returns the address of dc, preferring the requested IP family
// and falling back to whatever the datacenter has. Unknown ids give "".
func GetHostIp(dc int, test bool, ipv6 bool) string {
	if test {
		if addr, ok := TestDataCenters[dc]; ok {
			return addr
		}
	}

	addrs := DcList[dc]
	if len(addrs) == 0 {
		return ""
	}
	for _, a := range addrs {
		if a.V == ipv6 {
			return a.Addr
		}
	}
	return addrs[0].Addr
}

// NewMsgIDGenerator returns a generator of client message ids: unix time in
// the upper 32 bits, divisible by 4, strictly increasing.
func NewMsgIDGenerator() func(timeOffset int64) int64 {
	var (
		mu        sync.Mutex
		lastMsgID int64
	)
	return func(timeOffset int64) int64 {
		mu.Lock()
		defer mu.Unlock()

		now := time.Now().Add(time.Duration(timeOffset) * time.Second).UnixNano()

		nowSec := now / int64(time.Second)
		nowNano := (now % int64(time.Second)) & -4 // mod 4

		msgID := (nowSec << 32) | nowNano
		if msgID <= lastMsgID {
			msgID = lastMsgID + 4
		}

		lastMsgID = msgID
		return msgID
	}
}

func AuthKeyHash(key []byte) []byte {
	return Sha1Byte(key)[12:20]
}

func GenerateSessionID() int64 {
	return RandomInt64()
}

func RandomInt64() int64 {
	return int64(binary.LittleEndian.Uint64(RandomBytes(8)))
}

func Sha1Byte(input []byte) []byte {
	r := sha1.Sum(input)
	return r[:]
}

func Sha256(input []byte) []byte {
	r := sha256.Sum256(input)
	return r[:]
}

func RandomBytes(size int) []byte {
	b := make([]byte, size)
	_, _ = cr.Read(b)
	return b
}
