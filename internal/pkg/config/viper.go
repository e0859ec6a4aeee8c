package config

import (
	"bytes"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. TWOFA_STORE_PATH.
const EnvPrefix = "TWOFA"

// Viper is a Config implementation backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

// NewViper builds a Config from Defaults, TWOFA_* environment variables and,
// when pathFile is not empty, the given config file.
//
// The config file type is inferred by Viper from the filename extension.
func NewViper(pathFile string) (*Viper, error) {
	v := newBase()

	if pathFile != "" {
		filename := path.Base(pathFile)
		configName := filename[:len(filename)-len(path.Ext(filename))]

		v.AddConfigPath(path.Dir(pathFile))
		v.SetConfigName(configName)
		if ext := strings.TrimPrefix(path.Ext(filename), "."); ext != "" {
			v.SetConfigType(ext)
		}

		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	return &Viper{v: v}, nil
}

// NewViperFromBytes loads configuration from memory on top of Defaults.
// configType should be a format supported by Viper (e.g. "yaml", "json", "toml").
func NewViperFromBytes(configType string, data []byte) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, errors.New("config type is required")
	}

	v := newBase()
	v.SetConfigType(configType)

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return &Viper{v: v}, nil
}

func newBase() *viper.Viper {
	v := viper.New()
	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// BindFlag makes an explicitly set command line flag override key.
func (vc *Viper) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return errors.New("config: flag is nil")
	}

	return vc.v.BindPFlag(key, flag)
}

// Set overrides key for the lifetime of this Config.
func (vc *Viper) Set(key string, value any) {
	vc.v.Set(key, value)
}

// GetBool returns the value for key as bool.
func (vc *Viper) GetBool(key string) bool {
	return vc.v.GetBool(key)
}

// GetString returns the value for key as string.
func (vc *Viper) GetString(key string) string {
	return vc.v.GetString(key)
}

// GetInt returns the value for key as int.
func (vc *Viper) GetInt(key string) int {
	return vc.v.GetInt(key)
}

// GetUint64 returns the value for key as uint64.
func (vc *Viper) GetUint64(key string) uint64 {
	return vc.v.GetUint64(key)
}

// GetFloat64 returns the value for key as float64.
func (vc *Viper) GetFloat64(key string) float64 {
	return vc.v.GetFloat64(key)
}

// GetSecond returns the value for key as seconds.
func (vc *Viper) GetSecond(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Second
}

// GetArray returns the value for key as a list, splitting plain strings by commas.
func (vc *Viper) GetArray(key string) []string {
	var raw []string
	if s, ok := vc.v.Get(key).(string); ok {
		raw = strings.Split(s, ",")
	} else {
		raw = vc.v.GetStringSlice(key)
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}

// Close implements io.Closer for interface compatibility.
func (vc *Viper) Close() error {
	// No resources to close for Viper; this is just for interface completeness.
	return nil
}
