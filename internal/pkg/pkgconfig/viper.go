package pkgconfig

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces the environment variables that override config values.
const EnvPrefix = "BULKIMPORT"

// Viper is a Config implementation backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

// NewViper returns a Viper-backed Config seeded with defaults and overlaid
// with the given config file, if it exists, and BULKIMPORT_* environment
// variables (dots in keys become underscores).
//
// The config file type is inferred by Viper from the filename extension. A
// file that does not exist is ignored; any other read failure is returned.
func NewViper(pathFile string, defaults map[string]any) (*Viper, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if pathFile != "" {
		v.SetConfigFile(pathFile)

		err := v.ReadInConfig()
		switch {
		case err == nil:
			v.WatchConfig()
		case errors.Is(err, fs.ErrNotExist):
		default:
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	return &Viper{v: v}, nil
}

// GetInt returns the value for key as int64.
func (vc *Viper) GetInt(key string) int64 {
	return vc.v.GetInt64(key)
}

// GetFloat returns the value for key as float64.
func (vc *Viper) GetFloat(key string) float64 {
	return vc.v.GetFloat64(key)
}

// GetString returns the value for key as string.
func (vc *Viper) GetString(key string) string {
	return vc.v.GetString(key)
}

// GetDuration returns the value for key as a time.Duration.
func (vc *Viper) GetDuration(key string) time.Duration {
	return vc.v.GetDuration(key)
}

// GetArray returns the value for key split by commas.
func (vc *Viper) GetArray(key string) []string {
	return strings.Split(vc.v.GetString(key), ",")
}

// Close implements io.Closer for interface compatibility.
func (vc *Viper) Close() error {
	// No resources to close for the Viper backend; this is just for interface completeness.
	return nil
}
