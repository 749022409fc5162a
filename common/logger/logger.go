package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents log level
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

var levelColors = map[Level]string{
	DEBUG: "\033[36m",
	INFO:  "\033[32m",
	WARN:  "\033[33m",
	ERROR: "\033[31m",
	FATAL: "\033[35m",
}

const colorReset = "\033[0m"

// ContextKey is the type of the values this package reads from a context
type ContextKey string

const (
	RequestIDKey ContextKey = "requestID"
	UserIDKey    ContextKey = "userID"
)

// Config holds logger configuration
type Config struct {
	Level       Level
	Output      io.Writer
	JSONFormat  bool
	EnableColor bool
	ShowCaller  bool
	TimeFormat  string
	ServiceName string
}

// DefaultConfig returns the configuration described by LOG_LEVEL, LOG_FORMAT, LOG_COLOR and SERVICE_NAME.
// Lambda output goes to CloudWatch, so color is off unless LOG_COLOR=true.
func DefaultConfig() *Config {
	level := INFO
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		level = ParseLevel(lvl)
	}

	return &Config{
		Level:       level,
		Output:      os.Stdout,
		JSONFormat:  os.Getenv("LOG_FORMAT") == "json",
		EnableColor: os.Getenv("LOG_COLOR") == "true",
		ShowCaller:  true,
		TimeFormat:  "2006-01-02T15:04:05.000Z07:00",
		ServiceName: os.Getenv("SERVICE_NAME"),
	}
}

// Logger represents a structured logger
type Logger struct {
	config *Config
	fields map[string]interface{}
	mu     sync.RWMutex
}

// LogEntry represents a structured log entry
type LogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Service   string                 `json:"service,omitempty"`
	Caller    string                 `json:"caller,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

var (
	defaultLogger *Logger
	defaultMu     sync.Mutex
)

// New creates a new logger with given config
func New(config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}
	return &Logger{
		config: config,
		fields: make(map[string]interface{}),
	}
}

// Default returns the process-wide logger
func Default() *Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New(nil)
	}
	return defaultLogger
}

// SetDefault replaces the process-wide logger
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

func (l *Logger) clone(extra int) *Logger {
	newLogger := &Logger{
		config: l.config,
		fields: make(map[string]interface{}, len(l.fields)+extra),
	}
	l.mu.RLock()
	for k, v := range l.fields {
		newLogger.fields[k] = v
	}
	l.mu.RUnlock()
	return newLogger
}

// With creates a child logger with an additional field
func (l *Logger) With(key string, value interface{}) *Logger {
	newLogger := l.clone(1)
	newLogger.fields[key] = value
	return newLogger
}

// WithFields creates a child logger with multiple additional fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	newLogger := l.clone(len(fields))
	for k, v := range fields {
		newLogger.fields[k] = v
	}
	return newLogger
}

// WithError adds error field to logger
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.With("error", err.Error())
}

// WithContext copies request_id and user_id from ctx
func (l *Logger) WithContext(ctx context.Context) *Logger {
	newLogger := l.clone(2)
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		newLogger.fields["request_id"] = requestID
	}
	if userID, ok := ctx.Value(UserIDKey).(string); ok && userID != "" {
		newLogger.fields["user_id"] = userID
	}
	return newLogger
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.log(DEBUG, msg, args...)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.log(INFO, msg, args...)
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.log(WARN, msg, args...)
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.log(ERROR, msg, args...)
}

func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.log(FATAL, msg, args...)
	os.Exit(1)
}

func (l *Logger) log(level Level, msg string, args ...interface{}) {
	if level < l.config.Level {
		return
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	entry := LogEntry{
		Timestamp: time.Now().Format(l.config.TimeFormat),
		Level:     levelNames[level],
		Message:   msg,
		Service:   l.config.ServiceName,
	}

	if l.config.ShowCaller {
		// log <- Info/Warn/... <- caller; package-level helpers add one more frame
		if _, file, line, ok := runtime.Caller(2); ok {
			entry.Caller = fmt.Sprintf("%s:%d", shortenPath(file), line)
		}
	}

	l.mu.RLock()
	if len(l.fields) > 0 {
		entry.Fields = make(map[string]interface{}, len(l.fields))
		for k, v := range l.fields {
			entry.Fields[k] = v
		}
	}
	l.mu.RUnlock()

	if l.config.JSONFormat {
		l.outputJSON(entry)
	} else {
		l.outputText(level, entry)
	}
}

func (l *Logger) outputJSON(entry LogEntry) {
	data, _ := json.Marshal(entry)
	fmt.Fprintln(l.config.Output, string(data))
}

func (l *Logger) outputText(level Level, entry LogEntry) {
	var sb strings.Builder

	if l.config.EnableColor {
		sb.WriteString(levelColors[level])
	}
	sb.WriteString(entry.Timestamp)
	sb.WriteString(" ")
	sb.WriteString(fmt.Sprintf("[%-5s]", entry.Level))
	sb.WriteString(" ")
	if l.config.EnableColor {
		sb.WriteString(colorReset)
	}

	if entry.Caller != "" {
		sb.WriteString(fmt.Sprintf("[%s] ", entry.Caller))
	}

	sb.WriteString(entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString(" |")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf(" %s=%v", k, entry.Fields[k]))
		}
	}

	fmt.Fprintln(l.config.Output, sb.String())
}

// ============================================================
// Request Logger - HTTP request/response logging
// ============================================================

// RequestLog represents an HTTP request log
type RequestLog struct {
	Method    string
	Path      string
	Status    int
	Duration  time.Duration
	ClientIP  string
	UserAgent string
	RequestID string
}

// LogRequest logs an HTTP request; 4xx logs at WARN and 5xx at ERROR
func (l *Logger) LogRequest(req RequestLog) {
	level := INFO
	if req.Status >= 500 {
		level = ERROR
	} else if req.Status >= 400 {
		level = WARN
	}

	msg := fmt.Sprintf("%s %s -> %d (%s)", req.Method, req.Path, req.Status, req.Duration)

	l.WithFields(map[string]interface{}{
		"method":      req.Method,
		"path":        req.Path,
		"status":      req.Status,
		"duration_ms": req.Duration.Milliseconds(),
		"client_ip":   req.ClientIP,
		"user_agent":  req.UserAgent,
		"request_id":  req.RequestID,
	}).log(level, msg)
}

// ============================================================
// Database Logger - SQL query logging
// ============================================================

// QueryLog represents a database query log
type QueryLog struct {
	Query    string
	Duration time.Duration
	Rows     int64
	Error    string
}

// LogQuery logs a database query at DEBUG, slow queries at WARN and failures at ERROR
func (l *Logger) LogQuery(query QueryLog) {
	level := DEBUG
	if query.Error != "" {
		level = ERROR
	} else if query.Duration > 1*time.Second {
		level = WARN
	}

	msg := fmt.Sprintf("SQL (%s): %s", query.Duration, truncate(compactSQL(query.Query), 200))

	fields := map[string]interface{}{
		"duration_ms": query.Duration.Milliseconds(),
	}
	if query.Rows > 0 {
		fields["rows"] = query.Rows
	}
	if query.Error != "" {
		fields["error"] = query.Error
	}

	l.WithFields(fields).log(level, msg)
}

// ============================================================
// Business Event Logger
// ============================================================

// EventLog represents a business event log
type EventLog struct {
	Event    string
	UserID   string
	EntityID string
	Entity   string
	Action   string
	Success  bool
	Metadata map[string]interface{}
	Error    string
}

// LogEvent logs a business event
func (l *Logger) LogEvent(evt EventLog) {
	level := INFO
	if !evt.Success {
		level = ERROR
	}

	msg := fmt.Sprintf("[%s] %s %s (ID: %s)", evt.Event, evt.Action, evt.Entity, evt.EntityID)

	fields := map[string]interface{}{
		"event":     evt.Event,
		"action":    evt.Action,
		"entity":    evt.Entity,
		"entity_id": evt.EntityID,
		"success":   evt.Success,
	}
	if evt.UserID != "" {
		fields["user_id"] = evt.UserID
	}
	for k, v := range evt.Metadata {
		fields[k] = v
	}
	if evt.Error != "" {
		fields["error"] = evt.Error
	}

	l.WithFields(fields).log(level, msg)
}

// ============================================================
// Helper functions
// ============================================================

// ParseLevel maps a level name to a Level, defaulting to INFO
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return INFO
	}
}

func shortenPath(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) > 2 {
		return strings.Join(parts[len(parts)-2:], "/")
	}
	return path
}

func compactSQL(q string) string {
	return strings.Join(strings.Fields(q), " ")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// ============================================================
// Package-level convenience functions
// ============================================================

func Debug(msg string, args ...interface{}) { Default().Debug(msg, args...) }
func Info(msg string, args ...interface{})  { Default().Info(msg, args...) }
func Warn(msg string, args ...interface{})  { Default().Warn(msg, args...) }
func Error(msg string, args ...interface{}) { Default().Error(msg, args...) }
func Fatal(msg string, args ...interface{}) { Default().Fatal(msg, args...) }

func With(key string, value interface{}) *Logger       { return Default().With(key, value) }
func WithFields(fields map[string]interface{}) *Logger { return Default().WithFields(fields) }
func WithError(err error) *Logger                      { return Default().WithError(err) }
func WithContext(ctx context.Context) *Logger          { return Default().WithContext(ctx) }
