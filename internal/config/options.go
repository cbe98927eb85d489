package config

const (
	defaultLogFile           = "json2epub.log"
	defaultLogLevel          = "info"
	defaultLogFileMaxSize    = 20
	defaultLogFileMaxBackups = 3
	defaultLogFileMaxAge     = 28
	defaultLogCompress       = false
	defaultPort              = 8080
	defaultHost              = "0.0.0.0"
	defaultTemplateDir       = ""
	defaultLanguage          = "en"
	defaultPackager          = PackagerNative
	defaultWorkerPoolSize    = 4
	defaultMaxUploadSize     = 32
	defaultRateLimit         = 2.0
	defaultRateBurst         = 10
	defaultMetricsCollector  = false
	defaultOutputFile        = "output.epub"
)

// Packager backends.
const (
	PackagerNative = "native"
	PackagerGoEpub = "go-epub"
)

// Options are decoded by viper, which reads mapstructure tags, so json tags
// would not be recognised here.
type Options struct {
	// LogFile is the file to write logs to, empty to log to the console only
	LogFile string `mapstructure:"log_file"`
	// LogLevel is the level of logging to show
	LogLevel string `mapstructure:"log_level"`
	// LogFileMaxSize is the maximum size in megabytes of the log file before it is rotated
	LogFileMaxSize int `mapstructure:"log_file_max_size"`
	// LogFileMaxBackups is the maximum number of rotated log files to keep
	LogFileMaxBackups int `mapstructure:"log_file_max_backups"`
	// LogFileMaxAge is the maximum number of days to keep a log file
	LogFileMaxAge int `mapstructure:"log_file_max_age"`
	// LogCompress is whether or not to compress the rotated log files
	LogCompress bool `mapstructure:"log_compress"`
	// Port is the port to listen on
	Port int `mapstructure:"port"`
	// Host is the host to listen on
	Host string `mapstructure:"host"`
	// TemplateDir overrides the built-in templates slot by slot
	TemplateDir string `mapstructure:"template_dir"`
	// DefaultLanguage is the language tag used when a book has none
	DefaultLanguage string `mapstructure:"default_language"`
	// Packager selects the archive writer, "native" or "go-epub"
	Packager       string `mapstructure:"packager"`
	WorkerPoolSize int    `mapstructure:"worker_pool_size"`
	// MaxUploadSize is the maximum size of a book document, in MiB
	MaxUploadSize int64 `mapstructure:"max_upload_size"`
	// RateLimit is the number of conversions per second allowed per client
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
	// OutputFile is the archive written by convert when none is given
	OutputFile       string `mapstructure:"output_file"`
	MetricsCollector bool   `mapstructure:"metrics_collector"`
}

func GetDefaultOptions() *Options {
	Opts = &Options{
		LogFile:           defaultLogFile,
		LogLevel:          defaultLogLevel,
		LogFileMaxSize:    defaultLogFileMaxSize,
		LogFileMaxBackups: defaultLogFileMaxBackups,
		LogFileMaxAge:     defaultLogFileMaxAge,
		LogCompress:       defaultLogCompress,
		Port:              defaultPort,
		Host:              defaultHost,
		TemplateDir:       defaultTemplateDir,
		DefaultLanguage:   defaultLanguage,
		Packager:          defaultPackager,
		WorkerPoolSize:    defaultWorkerPoolSize,
		MaxUploadSize:     defaultMaxUploadSize,
		RateLimit:         defaultRateLimit,
		RateBurst:         defaultRateBurst,
		OutputFile:        defaultOutputFile,
		MetricsCollector:  defaultMetricsCollector,
	}
	return Opts
}
