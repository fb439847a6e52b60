package utils_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/amarnathcjd/mtproto/internal/utils"
)

func TestMsgIdGenerator(t *testing.T) {
	generateMsgId := utils.NewMsgIDGenerator()

	msgIds := make([]int64, 10000)
	for i := range msgIds {
		msgIds[i] = generateMsgId(0)
	}

	seen := make(map[int64]struct{}, len(msgIds))
	for i, msgId := range msgIds {
		require.Zero(t, msgId%4, "msgId at index %d is not divisible by 4", i)
		if i > 0 {
			require.Greater(t, msgId, msgIds[i-1], "msgId at index %d is not increasing", i)
		}
		_, dup := seen[msgId]
		require.False(t, dup)
		seen[msgId] = struct{}{}
	}

	shifted := utils.NewMsgIDGenerator()(3600)
	assert.Greater(t, shifted>>32, msgIds[0]>>32)
}

func TestGetHostIp(t *testing.T) {
	assert.Equal(t, "149.154.167.51:443", utils.GetHostIp(2, false, false))
	assert.Equal(t, "[2001:67c:4e8:f002::a]:443", utils.GetHostIp(2, false, true))
	assert.Equal(t, "149.154.167.40:80", utils.GetHostIp(2, true, false))
	assert.Empty(t, utils.GetHostIp(42, false, false))
	assert.Equal(t, "91.105.192.100:443", utils.GetHostIp(203, false, true), "falls back to the only address")
}

func TestSyncMapPopOnce(t *testing.T) {
	m := utils.NewSyncMap[int64, string]()
	m.Add(1, "one")
	m.Add(2, "two")
	assert.Equal(t, 2, m.Len())

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		hits int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := m.Pop(1); ok {
				mu.Lock()
				hits++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, hits)

	rest := m.Drain()
	assert.Equal(t, map[int64]string{2: "two"}, rest)
	assert.Zero(t, m.Len())
}

func TestSyncSetDrain(t *testing.T) {
	s := utils.NewSyncSet[int64]()
	assert.True(t, s.Add(5))
	assert.False(t, s.Add(5))
	s.Add(7)

	assert.ElementsMatch(t, []int64{5, 7}, s.Drain())
	assert.Zero(t, s.Len())
}

func TestLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := utils.NewLoggerWithConfig(&utils.LoggerConfig{
		Level:  utils.WarnLevel,
		Prefix: "mtproto[dc2]",
		Zap:    zap.New(core),
	})

	log.Info("dropped %d", 1)
	log.Warn("kept %d", 2)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept 2", entry.Message)
	assert.Equal(t, "mtproto[dc2]", entry.LoggerName)

	log.SetLevel(utils.DebugLevel)
	log.WithPrefix("child").Debug("now visible")
	assert.Equal(t, 2, logs.Len())

	lvl, err := utils.ParseLevel("WARNING")
	require.NoError(t, err)
	assert.Equal(t, utils.WarnLevel, lvl)
	_, err = utils.ParseLevel("loud")
	assert.Error(t, err)
}
