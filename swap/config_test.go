package swap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := &Config{Warehouse: WarehouseConfig{PageSize: 25}}
	cfg.ApplyDefaults()

	assert.Equal(t, Backend, cfg.BaseURL)
	assert.Equal(t, 25, cfg.Warehouse.PageSize)
	assert.Equal(t, DefaultMinPickerSoC, cfg.Warehouse.MinPickerSoC)
	assert.Equal(t, DefaultPillarTTL, cfg.PillarTTL())
	assert.Equal(t, DefaultWatchInterval, cfg.WatchInterval())
	assert.Equal(t, DefaultRequestsPerSecond, cfg.RequestsPerSecond)
}

func TestConfig_Durations(t *testing.T) {
	cfg := &Config{
		Cache: CacheConfig{PillarTTLSeconds: 60},
		Watch: WatchConfig{IntervalSeconds: 10},
	}
	assert.Equal(t, time.Minute, cfg.PillarTTL())
	assert.Equal(t, 10*time.Second, cfg.WatchInterval())
}
