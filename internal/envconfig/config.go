// Package envconfig reads process configuration from TENSORVIEW_*
// environment variables. Getters are evaluated on every call so tests and
// long-running hosts see changes.
package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Var returns an environment variable stripped of leading and trailing
// quotes and spaces.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// BoolWithDefault returns a getter for a boolean variable. Unparsable
// non-empty values count as true.
func BoolWithDefault(k string) func(defaultValue bool) bool {
	return func(defaultValue bool) bool {
		if s := Var(k); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return defaultValue
	}
}

// Bool returns a getter for a boolean variable defaulting to false.
func Bool(k string) func() bool {
	withDefault := BoolWithDefault(k)
	return func() bool {
		return withDefault(false)
	}
}

// String returns a getter for a string variable.
func String(s string) func() string {
	return func() string {
		return Var(s)
	}
}

// Uint returns a getter for an unsigned variable. Invalid values log a
// warning and fall back to defaultValue.
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

var (
	// NoParallel disables the CPU executor's worker pool.
	NoParallel = Bool("TENSORVIEW_NOPARALLEL")
	// NumParallel limits how many blocks are rendered concurrently. Zero
	// means one per CPU.
	NumParallel = Uint("TENSORVIEW_NUM_PARALLEL", 0)
	// Zoom is the default nearest-neighbour magnification of written images.
	Zoom = Uint("TENSORVIEW_ZOOM", 1)
)

// LogLevel returns the log level selected by TENSORVIEW_DEBUG: unset or
// false is INFO, true is DEBUG, and an integer n is slog.Level(-4*n).
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("TENSORVIEW_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}
	return level
}

// Backend names accepted by TENSORVIEW_BACKEND.
const (
	BackendAuto   = "auto"
	BackendCPU    = "cpu"
	BackendWebGPU = "webgpu"
)

// Backend returns the kernel executor to use. Unknown values log a warning
// and select BackendAuto.
func Backend() string {
	s := strings.ToLower(Var("TENSORVIEW_BACKEND"))
	switch s {
	case "":
		return BackendAuto
	case BackendAuto, BackendCPU, BackendWebGPU:
		return s
	default:
		slog.Warn("invalid environment variable, using default", "key", "TENSORVIEW_BACKEND", "value", s, "default", BackendAuto)
		return BackendAuto
	}
}

// EnvVar describes one configuration variable.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap returns every configuration variable with its current value.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"TENSORVIEW_DEBUG":        {"TENSORVIEW_DEBUG", LogLevel(), "Show additional debug information (e.g. TENSORVIEW_DEBUG=1)"},
		"TENSORVIEW_BACKEND":      {"TENSORVIEW_BACKEND", Backend(), "Kernel executor: cpu, webgpu or auto (default: auto)"},
		"TENSORVIEW_NUM_PARALLEL": {"TENSORVIEW_NUM_PARALLEL", NumParallel(), "Maximum number of blocks rendered concurrently (default: one per CPU)"},
		"TENSORVIEW_ZOOM":         {"TENSORVIEW_ZOOM", Zoom(), "Default magnification of written images (default: 1)"},
		"TENSORVIEW_NOPARALLEL":   {"TENSORVIEW_NOPARALLEL", NoParallel(), "Paint each texture on a single goroutine"},
	}
}

// Values returns every configuration value formatted as a string.
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}
