package config

import (
	"encoding/json"
	"time"

	"github.com/go-graphite/chartkit/cache"
	"github.com/lomik/zapwriter"
)

var DefaultLoggerConfig = zapwriter.Config{
	Logger:           "",
	File:             "stdout",
	Level:            "info",
	Encoding:         "console",
	EncodingTime:     "iso8601",
	EncodingDuration: "seconds",
}

type CacheConfig struct {
	Type              string   `mapstructure:"type"`
	Size              int      `mapstructure:"size_mb"`
	MemcachedServers  []string `mapstructure:"memcachedServers"`
	DefaultTimeoutSec int32    `mapstructure:"defaultTimeoutSec"`
}

// PictureConfig is the default canvas size for render requests that don't
// pass width/height explicitly.
type PictureConfig struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

type ConfigType struct {
	Logger         []zapwriter.Config `mapstructure:"logger"`
	Listen         string             `mapstructure:"listen"`
	Buckets        int                `mapstructure:"buckets"`
	DataDir        string             `mapstructure:"dataDir"`
	Cache          CacheConfig        `mapstructure:"cache"`
	Picture        PictureConfig      `mapstructure:"picture"`
	MaxDataPoints  int                `mapstructure:"maxDataPoints"`
	TimezoneString string             `mapstructure:"tz"`
	Cpus           int                `mapstructure:"cpus"`

	ResponseCache cache.BytesCache `mapstructure:"-" json:"-"`

	DefaultTimeZone *time.Location `mapstructure:"-" json:"-"`
}

// skipcq: CRT-P0003
func (c ConfigType) String() string {
	data, err := json.Marshal(c)
	if err != nil {
		return "Failed to marshal config: " + err.Error()
	} else {
		return string(data)
	}
}

var Config = ConfigType{
	Listen:  "[::]:8080",
	Buckets: 10,
	DataDir: "data",
	Cache: CacheConfig{
		Type:              "mem",
		DefaultTimeoutSec: 60,
	},
	Picture: PictureConfig{
		Width:  600,
		Height: 300,
	},
	MaxDataPoints:  0,
	TimezoneString: "",
	Cpus:           0,

	ResponseCache: cache.NullCache{},

	DefaultTimeZone: time.Local,
	Logger:          []zapwriter.Config{DefaultLoggerConfig},
}
