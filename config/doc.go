// Package config loads service configuration from a config.yml file, a .env
// file and the process environment.
//
// Viper reads the YAML file and binds one environment variable per
// mapstructure key of the target (logging.format reads LOGGING_FORMAT), then
// unmarshals the result. When the target implements Defaulter or Validator,
// ApplyDefaults and then Validate run after unmarshalling.
//
// # Usage
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    HTTP httpclient.Config `yaml:"http" mapstructure:"http"`
//	}
//
//	var cfg Config
//	err := config.LoadConfig("errprobe", &cfg, config.WithConfigFile(path))
package config
