package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

const envPrefix = "JSON2EPUB"

var Opts *Options

// GetConfig resets Opts to the defaults, then applies JSON2EPUB_* environment
// variables.
func GetConfig() (*Options, error) {
	GetDefaultOptions()

	v := newViper()
	if err := v.Unmarshal(Opts); err != nil {
		return nil, errors.Wrap(err, "unable to decode configuration")
	}
	if err := Opts.Validate(); err != nil {
		return nil, err
	}
	return Opts, nil
}

// ParseFile loads a toml or yaml configuration file on top of the defaults.
func ParseFile(file string) (*Options, error) {
	// Check if file exists
	if _, err := os.Stat(file); err != nil {
		return nil, errors.Wrapf(err, "unable to access config file %s", file)
	}
	if Opts == nil {
		GetDefaultOptions()
	}

	v := newViper()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "unable to read config file %s", file)
	}
	if err := v.Unmarshal(Opts); err != nil {
		return nil, errors.Wrapf(err, "unable to decode config file %s", file)
	}
	if err := Opts.Validate(); err != nil {
		return nil, err
	}
	return Opts, nil
}

// Load builds Opts from the defaults, an optional config file, the
// environment and the command line flags, in increasing order of precedence.
// Flag names map to keys with dashes replaced by underscores.
func Load(file string, flags *pflag.FlagSet) (*Options, error) {
	GetDefaultOptions()

	v := newViper()
	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return nil, errors.Wrap(bindErr, "unable to bind flags")
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "unable to read config file %s", file)
		}
	}
	if err := v.Unmarshal(Opts); err != nil {
		return nil, errors.Wrap(err, "unable to decode configuration")
	}
	if err := Opts.Validate(); err != nil {
		return nil, err
	}
	return Opts, nil
}

// newViper returns a viper instance seeded with the current options, so that
// values missing from the file or the environment keep their defaults.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_file", Opts.LogFile)
	v.SetDefault("log_level", Opts.LogLevel)
	v.SetDefault("log_file_max_size", Opts.LogFileMaxSize)
	v.SetDefault("log_file_max_backups", Opts.LogFileMaxBackups)
	v.SetDefault("log_file_max_age", Opts.LogFileMaxAge)
	v.SetDefault("log_compress", Opts.LogCompress)
	v.SetDefault("port", Opts.Port)
	v.SetDefault("host", Opts.Host)
	v.SetDefault("template_dir", Opts.TemplateDir)
	v.SetDefault("default_language", Opts.DefaultLanguage)
	v.SetDefault("packager", Opts.Packager)
	v.SetDefault("worker_pool_size", Opts.WorkerPoolSize)
	v.SetDefault("max_upload_size", Opts.MaxUploadSize)
	v.SetDefault("rate_limit", Opts.RateLimit)
	v.SetDefault("rate_burst", Opts.RateBurst)
	v.SetDefault("output_file", Opts.OutputFile)
	v.SetDefault("metrics_collector", Opts.MetricsCollector)
	return v
}

// Validate checks values that would otherwise fail later in a confusing way.
// DefaultLanguage is normalised to its canonical form.
func (o *Options) Validate() error {
	switch o.Packager {
	case PackagerNative, PackagerGoEpub:
	default:
		return fmt.Errorf("unknown packager %q, expected %q or %q", o.Packager, PackagerNative, PackagerGoEpub)
	}
	if o.WorkerPoolSize < 1 {
		return fmt.Errorf("worker_pool_size must be at least 1, got %d", o.WorkerPoolSize)
	}
	tag, err := language.Parse(o.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("default_language %q is not a language tag: %v", o.DefaultLanguage, err)
	}
	o.DefaultLanguage = tag.String()
	if o.MaxUploadSize < 1 {
		return fmt.Errorf("max_upload_size must be at least 1 MiB, got %d", o.MaxUploadSize)
	}
	return nil
}

// MaxUploadBytes is MaxUploadSize in bytes.
func (o *Options) MaxUploadBytes() int64 {
	return o.MaxUploadSize << 20
}
