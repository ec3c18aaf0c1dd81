package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	DB      DBConfig      `mapstructure:"db"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Storage StorageConfig `mapstructure:"storage"`
	SMTP    SMTPConfig    `mapstructure:"smtp"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
	// PublicBaseURL is the externally reachable prefix used when
	// constructing file view/download URLs.
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type DBConfig struct {
	Source string `mapstructure:"source"`
}

type AuthConfig struct {
	TokenSecret string        `mapstructure:"token_secret"`
	SessionTTL  time.Duration `mapstructure:"session_ttl"`
	OTPTTL      time.Duration `mapstructure:"otp_ttl"`
}

type StorageConfig struct {
	// Backend selects the object store: "local" or "s3".
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`

	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

func Load() (*Config, error) {
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/configs")
	viper.SetConfigName("settings")
	viper.SetConfigType("yml")

	viper.SetDefault("http.addr", ":8080")
	viper.SetDefault("http.public_base_url", "http://localhost:8080")
	viper.SetDefault("auth.session_ttl", "720h")
	viper.SetDefault("auth.otp_ttl", "10m")
	viper.SetDefault("storage.backend", "local")
	viper.SetDefault("storage.path", "./data")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
