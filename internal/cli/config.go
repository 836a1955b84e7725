package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/kstrandberg/uncouple/pkg/errors"
	"github.com/kstrandberg/uncouple/pkg/reconnect"
	"github.com/kstrandberg/uncouple/pkg/report"
)

// defaultConfigFile is looked up in the working directory when --config is
// not given.
const defaultConfigFile = "uncouple.toml"

// Config is the TOML configuration file layout:
//
//	[thresholds]
//	true_trim = 10.0
//	extend_both = 5.0
//	connector = 2.0
//	extend = 5.0
//	segment = 3.0
//	reattach = 1.0
//	proximity = 1.0
//
//	[server]
//	addr = ":8080"
//
//	[server.redis]
//	addr = "localhost:6379"
//
//	[server.mongo]
//	uri = "mongodb://localhost:27017"
type Config struct {
	Thresholds reconnect.Thresholds `toml:"thresholds"`
	Server     ServerConfig         `toml:"server"`
}

// ServerConfig configures the serve command. At most one of Redis and Mongo
// should be set; when neither is, runs are kept in memory.
type ServerConfig struct {
	Addr  string       `toml:"addr"`
	Redis *RedisConfig `toml:"redis"`
	Mongo *MongoConfig `toml:"mongo"`
}

// RedisConfig mirrors report.RedisConfig in TOML form.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig mirrors report.MongoConfig in TOML form.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// loadConfig reads the configuration file at path. An empty path falls back
// to uncouple.toml in the working directory; if that is absent too, defaults
// are returned. Thresholds left at zero in the file get their default values
// before validation, so a config file may override only some gates.
func loadConfig(path string) (Config, error) {
	cfg := Config{Thresholds: reconnect.DefaultThresholds()}

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}

	applyThresholdDefaults(&cfg.Thresholds)
	if err := cfg.Thresholds.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyThresholdDefaults(th *reconnect.Thresholds) {
	def := reconnect.DefaultThresholds()
	if th.TrueTrim == 0 {
		th.TrueTrim = def.TrueTrim
	}
	if th.ExtendBoth == 0 {
		th.ExtendBoth = def.ExtendBoth
	}
	if th.Connector == 0 {
		th.Connector = def.Connector
	}
	if th.Extend == 0 {
		th.Extend = def.Extend
	}
	if th.Segment == 0 {
		th.Segment = def.Segment
	}
	if th.Reattach == 0 {
		th.Reattach = def.Reattach
	}
	if th.Proximity == 0 {
		th.Proximity = def.Proximity
	}
}

// reportConfig converts the TOML server section into report store configs.
func (c ServerConfig) redisConfig() report.RedisConfig {
	return report.RedisConfig{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	}
}

func (c ServerConfig) mongoConfig() report.MongoConfig {
	return report.MongoConfig{
		URI:        c.Mongo.URI,
		Database:   c.Mongo.Database,
		Collection: c.Mongo.Collection,
	}
}
