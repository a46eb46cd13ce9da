package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/room-allocation-api/pkg/config"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "room-allocation:lock:allocation", Key("lock", "allocation"))
	assert.Equal(t, "room-allocation", Key())
}

func TestAddr(t *testing.T) {
	assert.Equal(t, "cache:6380", Addr(config.RedisConfig{Host: "cache", Port: 6380}))
}
