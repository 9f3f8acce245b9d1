package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

type logLevel int

const (
	logLevelDebug logLevel = iota
	logLevelInfo
	logLevelWarn
	logLevelError
)

// Fields are the defaults stamped onto every log line.
type Fields struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Component string `json:"component"`
	RunID     string `json:"run_id"`
}

type StructuredLogger struct {
	w        io.Writer
	minLevel logLevel
	defaults Fields
}

// NewStructuredLogger returns a logger that writes structured JSON lines to w.
// A nil writer yields a logger that discards everything, so callers never
// have to guard their log sites.
func NewStructuredLogger(w io.Writer, minLevel string, defaults Fields) *StructuredLogger {
	return &StructuredLogger{w: w, minLevel: parseLevelOrDefault(minLevel), defaults: populateDefaults(defaults)}
}

// Log writes a single structured JSON line when level passes the configured
// threshold.
func (l *StructuredLogger) Log(level string, fields map[string]interface{}) error {
	if l == nil || l.w == nil {
		return nil
	}

	entryLevel := normalizeLogLevel(level)
	severity, ok := parseLogLevel(entryLevel)
	if !ok {
		return fmt.Errorf("invalid log level %q", level)
	}
	if severity < l.minLevel {
		return nil
	}

	entry := map[string]interface{}{}
	for key, value := range fields {
		entry[key] = value
	}
	entry["level"] = entryLevel
	entry["component"] = chooseField(entry["component"], l.defaults.Component)
	entry["run_id"] = chooseField(entry["run_id"], l.defaults.RunID)

	if ts, ok := entry["timestamp"].(string); !ok || strings.TrimSpace(ts) == "" {
		entry["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = l.w.Write(append(payload, '\n'))
	return err
}

// Debug is a convenience wrapper for the drop-with-a-trace policy on unknown
// events: never fails the caller.
func (l *StructuredLogger) Debug(message string, fields map[string]interface{}) {
	if l == nil {
		return
	}
	merged := map[string]interface{}{"message": message}
	for key, value := range fields {
		merged[key] = value
	}
	_ = l.Log("debug", merged)
}

func populateDefaults(fields Fields) Fields {
	if fields.Timestamp == "" {
		fields.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	if strings.TrimSpace(fields.Level) == "" {
		fields.Level = "info"
	}
	if strings.TrimSpace(fields.Component) == "" {
		fields.Component = "cowork"
	}
	return fields
}

func parseLevelOrDefault(raw string) logLevel {
	parsed, ok := parseLogLevel(normalizeLogLevel(raw))
	if !ok {
		return logLevelInfo
	}
	return parsed
}

func normalizeLogLevel(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func parseLogLevel(raw string) (logLevel, bool) {
	switch raw {
	case "debug":
		return logLevelDebug, true
	case "info":
		return logLevelInfo, true
	case "warn", "warning":
		return logLevelWarn, true
	case "error":
		return logLevelError, true
	default:
		return 0, false
	}
}

func chooseField(raw interface{}, fallback string) string {
	value, ok := raw.(string)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
