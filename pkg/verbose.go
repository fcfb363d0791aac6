package blockdupes

import (
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var globalVerboseLevel int
var debugFlags map[string]bool

var (
	loggerMu sync.RWMutex
	logger   = newConsoleLogger(os.Stderr)
)

func newConsoleLogger(w io.Writer) zerolog.Logger {
	console := zerolog.ConsoleWriter{
		Out:        zerolog.SyncWriter(w),
		NoColor:    true,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(console).With().Timestamp().Logger()
}

// SetLogOutput redirects log output to w in human-readable console form
func SetLogOutput(w io.Writer) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = newConsoleLogger(w)
}

// SetJSONLogOutput redirects log output to w as one JSON object per line
func SetJSONLogOutput(w io.Writer) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = zerolog.New(zerolog.SyncWriter(w)).With().Timestamp().Logger()
}

// Logger returns the current package logger
func Logger() *zerolog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	l := logger
	return &l
}

// SetVerboseLevel sets the global verbose level
func SetVerboseLevel(level int) {
	globalVerboseLevel = level
	// zerolog drops trace events unless the global level allows them
	zerolog.SetGlobalLevel(min(zerologLevel(level), zerolog.DebugLevel))
}

// GetVerboseLevel returns the current verbose level
func GetVerboseLevel() int {
	return globalVerboseLevel
}

// zerologLevel maps a verbose level onto a zerolog level
func zerologLevel(level int) zerolog.Level {
	switch {
	case level <= 0:
		return zerolog.WarnLevel
	case level == 1:
		return zerolog.InfoLevel
	case level == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// VerboseEnter logs function entry at level 3+ and returns a defer function for exit logging
func VerboseEnter() func() {
	if globalVerboseLevel < 3 {
		return func() {} // No-op
	}

	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return func() {}
	}

	funcName := runtime.FuncForPC(pc).Name()
	if idx := strings.LastIndex(funcName, "."); idx != -1 {
		funcName = funcName[idx+1:]
	}

	Logger().Trace().Str("func", funcName).Msg("enter")

	return func() {
		Logger().Trace().Str("func", funcName).Msg("exit")
	}
}

// VerboseLog logs a message at the specified verbose level
func VerboseLog(level int, format string, args ...interface{}) {
	if globalVerboseLevel >= level {
		Logger().WithLevel(zerologLevel(level)).Msgf(strings.TrimSuffix(format, "\n"), args...)
	}
}

// logFileWarning reports a file dropped from comparison. Always emitted.
func logFileWarning(fw FileWarning) {
	Logger().Warn().
		Str("path", fw.Path).
		Str("op", fw.Op).
		Err(fw.Err).
		Msg("file excluded from duplicate detection")
}

// SetDebugFlags sets the debug flags from a comma-separated string
// Supports both simple flags ("round,reader") and key:value format ("round:true,reader:false")
func SetDebugFlags(flagsStr string) {
	debugFlags = make(map[string]bool)
	if flagsStr == "" {
		return
	}

	flags := strings.Split(flagsStr, ",")
	for _, flag := range flags {
		flag = strings.TrimSpace(flag)
		if flag == "" {
			continue
		}

		parts := strings.SplitN(flag, ":", 2)
		flagName := strings.ToLower(parts[0])
		flagValue := true

		if len(parts) > 1 {
			switch strings.ToLower(parts[1]) {
			case "false", "0", "no", "off":
				flagValue = false
			}
		}

		debugFlags[flagName] = flagValue
	}
}

// IsDebugEnabled returns true if the specified debug flag is enabled
func IsDebugEnabled(flag string) bool {
	if debugFlags == nil {
		return false
	}
	return debugFlags[strings.ToLower(flag)]
}
