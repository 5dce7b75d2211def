package logger

// Console holds console sink settings, used mainly for docker and dev.
type Console struct {
	Enabled          bool `toml:"enabled"`
	UseConsoleWriter bool
}

// LogFile holds rolling file sink settings for non-docker environments.
type LogFile struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`

	AccessLog        string `toml:"access"`
	AccessMaxSize    int    `toml:"accessMaxSize"`
	AccessMaxBackups int    `toml:"accessMaxBackups"`
	AccessMaxAge     int    `toml:"accessMaxAge"`

	InfoLog        string `toml:"info"`
	InfoMaxSize    int    `toml:"infoMaxSize"`
	InfoMaxBackups int    `toml:"infoMaxBackups"`
	InfoMaxAge     int    `toml:"infoMaxAge"`

	ErrorLog        string `toml:"error"`
	ErrorMaxSize    int    `toml:"errorMaxSize"`
	ErrorMaxBackups int    `toml:"errorMaxBackups"`
	ErrorMaxAge     int    `toml:"errorMaxAge"`
}

// Log holds the logger config.
type Log struct {
	LogLevel     string // trace, debug, info, warn, error
	ServiceName  string
	ReportCaller bool

	// EnableAccessLogToConsole mirrors http access logs to the console.
	// Console.Enabled still gates all console output.
	EnableAccessLogToConsole bool

	// DisableCheckAlive suppresses access log lines for /checkalive.
	DisableCheckAlive bool

	Console Console
	File    LogFile `toml:"file"`
}
