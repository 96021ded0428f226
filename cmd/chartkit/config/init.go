package config

import (
	"bytes"
	"expvar"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/ansel1/merry"
	"github.com/go-graphite/chartkit/cache"
	"github.com/lomik/zapwriter"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func SetUpConfig(logger *zap.Logger, BuildVersion string) {
	Config.Cache.MemcachedServers = viper.GetStringSlice("cache.memcachedServers")
	if n := viper.GetString("logger.logger"); n != "" {
		Config.Logger[0].Logger = n
	}
	if n := viper.GetString("logger.file"); n != "" {
		Config.Logger[0].File = n
	}
	if n := viper.GetString("logger.level"); n != "" {
		Config.Logger[0].Level = n
	}
	if n := viper.GetString("logger.encoding"); n != "" {
		Config.Logger[0].Encoding = n
	}
	if n := viper.GetString("logger.encodingtime"); n != "" {
		Config.Logger[0].EncodingTime = n
	}
	if n := viper.GetString("logger.encodingduration"); n != "" {
		Config.Logger[0].EncodingDuration = n
	}
	err := zapwriter.ApplyConfig(Config.Logger)
	if err != nil {
		logger.Fatal("failed to initialize logger with requested configuration",
			zap.Any("configuration", Config.Logger),
			zap.Error(err),
		)
	}

	needStackTrace := false
	for _, l := range Config.Logger {
		if strings.ToLower(l.Level) == "debug" {
			needStackTrace = true
			break
		}
	}
	merry.SetStackCaptureEnabled(needStackTrace)

	expvar.NewString("GoVersion").Set(runtime.Version())
	expvar.NewString("BuildVersion").Set(BuildVersion)
	expvar.Publish("config", expvar.Func(func() interface{} { return Config }))

	switch Config.Cache.Type {
	case "memcache":
		if len(Config.Cache.MemcachedServers) == 0 {
			logger.Fatal("memcache cache requested but no memcache servers provided")
		}

		logger.Info("memcached configured",
			zap.Strings("servers", Config.Cache.MemcachedServers),
		)
		Config.ResponseCache = cache.NewMemcached("chartkit", Config.Cache.MemcachedServers...)
	case "mem":
		Config.ResponseCache = cache.NewExpireCache(uint64(Config.Cache.Size * 1024 * 1024))
	case "null":
		// defaults
		Config.ResponseCache = cache.NullCache{}
	default:
		logger.Error("unknown cache type",
			zap.String("cache_type", Config.Cache.Type),
			zap.Strings("known_cache_types", []string{"null", "mem", "memcache"}),
		)
	}

	if Config.TimezoneString != "" {
		fields := strings.Split(Config.TimezoneString, ",")

		if len(fields) != 2 {
			logger.Fatal("unexpected amount of fields in tz",
				zap.String("timezone_string", Config.TimezoneString),
				zap.Int("fields_got", len(fields)),
				zap.Int("fields_expected", 2),
			)
		}

		offs, err := strconv.Atoi(fields[1])
		if err != nil {
			logger.Fatal("unable to parse seconds",
				zap.String("field[1]", fields[1]),
				zap.Error(err),
			)
		}

		Config.DefaultTimeZone = time.FixedZone(fields[0], offs)
		logger.Info("using fixed timezone",
			zap.String("timezone", Config.DefaultTimeZone.String()),
			zap.Int("offset", offs),
		)
	}

	if Config.Cpus != 0 {
		runtime.GOMAXPROCS(Config.Cpus)
	}

	if stat, err := os.Stat(Config.DataDir); err != nil || !stat.IsDir() {
		logger.Warn("data directory is not accessible",
			zap.String("data_dir", Config.DataDir),
			zap.Error(err),
		)
	}

	logger.Info("starting chartkit",
		zap.String("build_version", BuildVersion),
		zap.Any("config", Config),
	)
}

func SetUpViper(logger *zap.Logger, configPath *string, viperPrefix string) {
	if *configPath != "" {
		b, err := os.ReadFile(*configPath)
		if err != nil {
			logger.Fatal("error reading config file",
				zap.String("config_path", *configPath),
				zap.Error(err),
			)
		}

		if strings.HasSuffix(*configPath, ".toml") {
			logger.Info("will parse config as toml",
				zap.String("config_file", *configPath),
			)
			viper.SetConfigType("TOML")
		} else {
			logger.Info("will parse config as yaml",
				zap.String("config_file", *configPath),
			)
			viper.SetConfigType("YAML")
		}
		err = viper.ReadConfig(bytes.NewBuffer(b))
		if err != nil {
			logger.Fatal("failed to parse config",
				zap.String("config_path", *configPath),
				zap.Error(err),
			)
		}
	}

	if viperPrefix != "" {
		viper.SetEnvPrefix(viperPrefix)
	}
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.BindEnv("tz", "chartkit_tz")
	viper.SetDefault("listen", "localhost:8080")
	viper.SetDefault("buckets", 10)
	viper.SetDefault("dataDir", "data")
	viper.SetDefault("cache.type", "mem")
	viper.SetDefault("cache.size_mb", 0)
	viper.SetDefault("cache.defaultTimeoutSec", 60)
	viper.SetDefault("cache.memcachedServers", []string{})
	viper.SetDefault("picture.width", 600)
	viper.SetDefault("picture.height", 300)
	viper.SetDefault("maxDataPoints", 0)
	viper.SetDefault("cpus", 0)
	viper.SetDefault("tz", "")
	viper.SetDefault("logger", map[string]string{})
	viper.AutomaticEnv()

	err := viper.Unmarshal(&Config)
	if err != nil {
		logger.Fatal("failed to parse config",
			zap.Error(err),
		)
	}
}
