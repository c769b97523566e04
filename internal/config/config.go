package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProductionBaseURL = "https://api.bokun.io"
	SandboxBaseURL    = "https://api.bokuntest.com"

	defaultConfigFile = "config.local.json"
)

type Config struct {
	AppPort           string
	AppEnv            string
	StaticDir         string
	CORSOrigin        string
	InternalSecretKey string

	Bokun   BokunConfig
	Tracing TracingConfig
}

type BokunConfig struct {
	BaseURL            string
	AccessKey          string
	SecretKey          string
	OctoToken          string
	UseSandbox         bool
	Timeout            time.Duration
	RateLimit          float64
	RateBurst          int
	BreakerMaxFailures uint32
	BreakerTimeout     time.Duration
}

type TracingConfig struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	SamplingRatio    float64
}

// LoadConfig reads .env, then an optional JSON file (CONFIG_FILE, default
// config.local.json), then the environment. Later sources win.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := os.Getenv("CONFIG_FILE")
	if file == "" {
		file = defaultConfigFile
	}
	v.SetConfigFile(file)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading config file %s: %w", file, err)
	}

	cfg := &Config{
		AppPort:           v.GetString("app.port"),
		AppEnv:            v.GetString("app.env"),
		StaticDir:         v.GetString("static.dir"),
		CORSOrigin:        v.GetString("cors.origin"),
		InternalSecretKey: v.GetString("internal.secret_key"),
		Bokun: BokunConfig{
			BaseURL:            strings.TrimSpace(v.GetString("bokun.base_url")),
			AccessKey:          strings.TrimSpace(v.GetString("bokun.access_key")),
			SecretKey:          strings.TrimSpace(v.GetString("bokun.secret_key")),
			OctoToken:          strings.TrimSpace(v.GetString("bokun.octo_token")),
			UseSandbox:         v.GetBool("bokun.use_sandbox"),
			Timeout:            v.GetDuration("bokun.timeout"),
			RateLimit:          v.GetFloat64("bokun.rate_limit"),
			RateBurst:          v.GetInt("bokun.rate_burst"),
			BreakerMaxFailures: v.GetUint32("bokun.breaker_max_failures"),
			BreakerTimeout:     v.GetDuration("bokun.breaker_timeout"),
		},
		Tracing: TracingConfig{
			Enabled:          v.GetBool("otel.enabled"),
			ExporterEndpoint: v.GetString("otel.exporter_endpoint"),
			ExporterProtocol: v.GetString("otel.exporter_protocol"),
			SamplingRatio:    v.GetFloat64("otel.sampling_ratio"),
		},
	}

	if cfg.Bokun.BaseURL == "" {
		cfg.Bokun.BaseURL = ProductionBaseURL
		if cfg.Bokun.UseSandbox {
			cfg.Bokun.BaseURL = SandboxBaseURL
		}
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("static.dir", "")
	v.SetDefault("cors.origin", "")
	v.SetDefault("internal.secret_key", "")

	v.SetDefault("bokun.base_url", "")
	v.SetDefault("bokun.access_key", "")
	v.SetDefault("bokun.secret_key", "")
	v.SetDefault("bokun.octo_token", "")
	v.SetDefault("bokun.use_sandbox", true)
	v.SetDefault("bokun.timeout", 30*time.Second)
	v.SetDefault("bokun.rate_limit", 0)
	v.SetDefault("bokun.rate_burst", 5)
	v.SetDefault("bokun.breaker_max_failures", 0)
	v.SetDefault("bokun.breaker_timeout", 30*time.Second)

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.exporter_endpoint", "")
	v.SetDefault("otel.exporter_protocol", "grpc")
	v.SetDefault("otel.sampling_ratio", 0.1)
}
