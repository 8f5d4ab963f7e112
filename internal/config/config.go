package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bsg-ground/datastore-stressor/internal/logger"
	"github.com/bsg-ground/datastore-stressor/internal/validator"
)

type LoggingConfig struct {
	Level   int  `mapstructure:"level"`
	UseOTLP bool `mapstructure:"use_otlp"`
}

// See stressor.yaml for an example config
type Config struct {
	Serial      string        `mapstructure:"serial"       validate:"required"`
	DataType    string        `mapstructure:"data_type"    validate:"required"`
	PushURL     string        `mapstructure:"push_url"     validate:"required,url"`
	PullURL     string        `mapstructure:"pull_url"     validate:"required,url"`
	DataFile    string        `mapstructure:"data_file"    validate:"required"`
	WaitTime    time.Duration `mapstructure:"wait_time"    validate:"required"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout" validate:"required"`
	Logging     LoggingConfig `mapstructure:"logging"`
}

const (
	AppLogLevel string = "logging.level"
	DataFile    string = "data_file"
	DataType    string = "data_type"
	EnvPrefix   string = "stressor"
	HTTPTimeout string = "http_timeout"
	PullURL     string = "pull_url"
	PushURL     string = "push_url"
	Serial      string = "serial"
	UseOTLP     string = "logging.use_otlp"
	WaitTime    string = "wait_time"
)

var config Config
var configReady = false

func GetConfig() (*Config, error) {
	if configReady {
		logger.Logger.Debug("returning already-loaded config")
		return &config, nil
	}
	logger.Logger.Info("loading config")

	v := viper.New()

	v.SetConfigName("stressor")

	v.AddConfigPath("/etc/stressor/")
	v.AddConfigPath(".")

	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.AutomaticEnv()

	v.SetDefault(Serial, "M000000000000")
	v.SetDefault(DataType, "inquire.network")
	v.SetDefault(PushURL, "https://services.bsg.stage.gogoair.com/datastore/v1/item")
	v.SetDefault(PullURL, "https://services.bsg.stage.gogoair.com/datastore/v1/item/data/all")
	v.SetDefault(DataFile, "./data.txt")
	v.SetDefault(WaitTime, 2*time.Second)
	v.SetDefault(HTTPTimeout, 60*time.Second)
	v.SetDefault(AppLogLevel, 0)
	v.SetDefault(UseOTLP, false)

	// config file is optional, defaults cover every field
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		logger.Logger.Debug("no config file found, using defaults")
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	validate := validator.Create()
	if err := validate.Validate(config); err != nil {
		return nil, err
	}

	configReady = true
	return &config, nil
}
