package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	c, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, []int{7, 14, 30, 60, 90}, c.Prediction.Horizons)
	assert.Equal(t, 7, c.Prediction.DefaultDays)
	assert.Equal(t, "UTC", c.Prediction.Timezone)
	assert.Equal(t, "memory", c.Cache.Backend)
	assert.Equal(t, time.Hour, c.Cache.TTL)
	assert.Equal(t, "prediction.requests", c.Kafka.RequestTopic)
	assert.Equal(t, "prediction.results", c.Kafka.ReplyTopic)
	assert.Equal(t, "0 5 0 * * *", c.Warmup.Schedule)
	assert.Zero(t, c.Prediction.UnknownRejectRate)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":            "server: [",
		"port":                "server: {port: 70000}",
		"default not offered": "prediction: {horizons: [7, 14], default_days: 30}",
		"negative horizon":    "prediction: {horizons: [-7], default_days: -7}",
		"reject rate":         "prediction: {unknown_reject_rate: 1.5}",
		"timezone":            "prediction: {timezone: Mars/Olympus}",
		"backend":             "cache: {backend: disk}",
		"redis addr":          "cache: {backend: redis}",
		"ratelimit":           "ratelimit: {enabled: true}",
		"brokers":             "kafka: {enabled: true}",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad_ShippedConfig(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "config", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, c.Prediction.SimulatedDelay)
	assert.Equal(t, 0.2, c.Prediction.UnknownRejectRate)
	assert.Equal(t, "prediction.requests.dlq", c.Kafka.Consumer.DLQTopic)
}

func TestLoadWithEnv_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("kafka: {enabled: true, brokers: [a:9092]}\n"), 0o600))

	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("STOCKCAST_REJECT_RATE", "0.5")

	c, err := LoadWithEnv(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, 0.5, c.Prediction.UnknownRejectRate)

	t.Setenv("STOCKCAST_REJECT_RATE", "2")
	_, err = LoadWithEnv(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
