// Package logging provides structured logging channels for Praxis operations
// with per-channel levels and performance correlation.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Channel represents a logical logging channel for different system components
type Channel string

const (
	// System channels
	ChannelSystem   Channel = "system"   // General system operations
	ChannelStartup  Channel = "startup"  // Application startup and initialization
	ChannelShutdown Channel = "shutdown" // Application shutdown and cleanup

	// Business logic channels
	ChannelAuth      Channel = "auth"      // Sign-in, sign-out and route gating
	ChannelLeads     Channel = "leads"     // Contact submissions and admin triage
	ChannelProfiling Channel = "profiling" // Visitor profiling and ROI calculator

	// Infrastructure channels
	ChannelDatabase Channel = "database" // Database operations and queries
	ChannelRealtime Channel = "realtime" // Admin websocket feed

	// Performance channels
	ChannelPerf      Channel = "performance" // Performance monitoring
	ChannelSlowQuery Channel = "slow-query"  // Slow database queries
)

// AllChannels lists every channel created by NewChanneledLogger.
var AllChannels = []Channel{
	ChannelSystem, ChannelStartup, ChannelShutdown,
	ChannelAuth, ChannelLeads, ChannelProfiling,
	ChannelDatabase, ChannelRealtime,
	ChannelPerf, ChannelSlowQuery,
}

// ChanneledLogger provides structured logging with multiple channels
type ChanneledLogger struct {
	channels map[Channel]*slog.Logger
	config   *LoggerConfig
	files    []*os.File
	mu       sync.RWMutex
}

// LoggerConfig contains configuration options for the channeled logger
type LoggerConfig struct {
	OutputToFile    bool      `json:"outputToFile"`
	OutputToConsole bool      `json:"outputToConsole"`
	LogDirectory    string    `json:"logDirectory"`
	JSONFormat      bool      `json:"jsonFormat"`
	IncludeSource   bool      `json:"includeSource"`
	Writer          io.Writer `json:"-"` // overrides console output, used by tests

	DefaultLevel  slog.Level             `json:"defaultLevel"`
	ChannelLevels map[Channel]slog.Level `json:"channelLevels"`
}

// DefaultLoggerConfig returns a sensible default configuration
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: true,
		LogDirectory:    "logs",
		JSONFormat:      true,
		IncludeSource:   false,
		DefaultLevel:    slog.LevelInfo,
		ChannelLevels:   make(map[Channel]slog.Level),
	}
}

// ParseLevel maps a textual level onto slog; unknown values fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "fatal":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ConfigFromEnv builds a logger configuration from the process settings.
// Per-channel overrides are read from LOG_LEVEL_<CHANNEL>, e.g. LOG_LEVEL_SLOW_QUERY=debug.
func ConfigFromEnv(dir, format, level string, toFile bool) *LoggerConfig {
	cfg := DefaultLoggerConfig()
	cfg.LogDirectory = dir
	cfg.OutputToFile = toFile
	cfg.JSONFormat = format != "text"
	cfg.DefaultLevel = ParseLevel(level)
	for _, channel := range AllChannels {
		key := "LOG_LEVEL_" + strings.ToUpper(strings.ReplaceAll(string(channel), "-", "_"))
		if v := os.Getenv(key); v != "" {
			cfg.ChannelLevels[channel] = ParseLevel(v)
		}
	}
	return cfg
}

// NewChanneledLogger creates a new channeled logger with the given configuration
func NewChanneledLogger(config *LoggerConfig) (*ChanneledLogger, error) {
	if config == nil {
		config = DefaultLoggerConfig()
	}
	if config.ChannelLevels == nil {
		config.ChannelLevels = make(map[Channel]slog.Level)
	}

	logger := &ChanneledLogger{
		channels: make(map[Channel]*slog.Logger),
		config:   config,
	}

	if config.OutputToFile {
		if err := os.MkdirAll(config.LogDirectory, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	for _, channel := range AllChannels {
		channelLogger, err := logger.createChannelLogger(channel)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger for channel %s: %w", channel, err)
		}
		logger.channels[channel] = channelLogger
	}

	return logger, nil
}

// NewDiscardLogger returns a logger that drops every record.
func NewDiscardLogger() *ChanneledLogger {
	cfg := DefaultLoggerConfig()
	cfg.Writer = io.Discard
	l, _ := NewChanneledLogger(cfg)
	return l
}

// createChannelLogger creates a slog.Logger for a specific channel
func (cl *ChanneledLogger) createChannelLogger(channel Channel) (*slog.Logger, error) {
	level := cl.config.DefaultLevel
	if channelLevel, exists := cl.config.ChannelLevels[channel]; exists {
		level = channelLevel
	}

	var writers []io.Writer

	switch {
	case cl.config.Writer != nil:
		writers = append(writers, cl.config.Writer)
	case cl.config.OutputToConsole:
		writers = append(writers, os.Stdout)
	}

	if cl.config.OutputToFile {
		path := filepath.Join(cl.config.LogDirectory, string(channel)+".log")
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
		}
		cl.files = append(cl.files, file)
		writers = append(writers, file)
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = io.Discard
	case 1:
		writer = writers[0]
	default:
		writer = io.MultiWriter(writers...)
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cl.config.IncludeSource,
	}

	var handler slog.Handler
	if cl.config.JSONFormat {
		handler = slog.NewJSONHandler(writer, handlerOpts)
	} else {
		handler = slog.NewTextHandler(writer, handlerOpts)
	}

	return slog.New(handler).With(slog.String("channel", string(channel))), nil
}

func (cl *ChanneledLogger) System() *slog.Logger    { return cl.GetChannel(ChannelSystem) }
func (cl *ChanneledLogger) Startup() *slog.Logger   { return cl.GetChannel(ChannelStartup) }
func (cl *ChanneledLogger) Shutdown() *slog.Logger  { return cl.GetChannel(ChannelShutdown) }
func (cl *ChanneledLogger) Auth() *slog.Logger      { return cl.GetChannel(ChannelAuth) }
func (cl *ChanneledLogger) Leads() *slog.Logger     { return cl.GetChannel(ChannelLeads) }
func (cl *ChanneledLogger) Profiling() *slog.Logger { return cl.GetChannel(ChannelProfiling) }
func (cl *ChanneledLogger) Database() *slog.Logger  { return cl.GetChannel(ChannelDatabase) }
func (cl *ChanneledLogger) Realtime() *slog.Logger  { return cl.GetChannel(ChannelRealtime) }
func (cl *ChanneledLogger) Perf() *slog.Logger      { return cl.GetChannel(ChannelPerf) }
func (cl *ChanneledLogger) SlowQuery() *slog.Logger { return cl.GetChannel(ChannelSlowQuery) }

// GetChannel returns a logger for a specific channel
func (cl *ChanneledLogger) GetChannel(channel Channel) *slog.Logger {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	if logger, exists := cl.channels[channel]; exists {
		return logger
	}
	return cl.channels[ChannelSystem]
}

// LogOperation reports a completed operation on the performance channel.
// Failures and slow operations are warnings; the rest is debug noise.
func (cl *ChanneledLogger) LogOperation(operation, scope string, duration time.Duration, errMsg string, slow bool) {
	logger := cl.Perf().With(
		slog.String("operation", operation),
		slog.String("scope", scope),
		slog.Duration("duration", duration),
	)
	switch {
	case errMsg != "":
		logger.Warn("Operation failed", slog.String("error", errMsg))
	case slow:
		logger.Warn("Slow operation")
	default:
		logger.Debug("Operation completed")
	}
}

// LogSlowQuery logs a slow database query
func (cl *ChanneledLogger) LogSlowQuery(query string, duration time.Duration) {
	cl.SlowQuery().Warn("Slow query detected",
		slog.String("query", sanitizeQuery(query)),
		slog.Duration("duration", duration),
	)
}

// LogAuthOperation logs authentication operations with the subject masked
func (cl *ChanneledLogger) LogAuthOperation(operation, subject string, success bool, metadata map[string]any) {
	logger := cl.Auth().With(
		slog.String("operation", operation),
		slog.String("subject", MaskEmail(subject)),
		slog.Bool("success", success),
	)

	for key, value := range metadata {
		logger = logger.With(slog.Any(key, value))
	}

	if success {
		logger.Info("Authentication operation completed")
	} else {
		logger.Warn("Authentication operation failed")
	}
}

// LogStartupPhase logs application startup phases
func (cl *ChanneledLogger) LogStartupPhase(phase string, duration time.Duration, success bool) {
	logger := cl.Startup().With(
		slog.String("phase", phase),
		slog.Duration("duration", duration),
		slog.Bool("success", success),
	)
	if success {
		logger.Info("Startup phase completed")
	} else {
		logger.Error("Startup phase failed")
	}
}

// sanitizeQuery flattens and truncates SQL for logging
func sanitizeQuery(query string) string {
	query = strings.ReplaceAll(query, "\n", " ")
	query = strings.ReplaceAll(query, "\t", " ")
	query = strings.Join(strings.Fields(query), " ")
	if len(query) > 500 {
		query = query[:500] + "..."
	}
	return query
}

// MaskEmail keeps the first character of the local part and the domain.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return MaskID(email)
	}
	return email[:1] + "***" + email[at:]
}

// MaskID partially masks session and user identifiers
func MaskID(id string) string {
	if len(id) <= 8 {
		return "********"
	}
	return id[:4] + "****" + id[len(id)-4:]
}

// Close flushes and closes the per-channel log files
func (cl *ChanneledLogger) Close() error {
	cl.System().Info("Channeled logger shutting down")
	var firstErr error
	for _, f := range cl.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SetChannelLevel dynamically sets the log level for a specific channel
func (cl *ChanneledLogger) SetChannelLevel(channel Channel, level slog.Level) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.channels[channel]; !exists {
		return fmt.Errorf("channel %s does not exist", channel)
	}

	cl.config.ChannelLevels[channel] = level
	newLogger, err := cl.createChannelLogger(channel)
	if err != nil {
		return fmt.Errorf("failed to recreate logger for channel %s: %w", channel, err)
	}
	cl.channels[channel] = newLogger
	return nil
}

// GetChannelLevels returns the current log levels for all channels.
func (cl *ChanneledLogger) GetChannelLevels() map[string]string {
	cl.mu.RLock()
	defer cl.mu.RUnlock()

	levels := make(map[string]string)
	for channel := range cl.channels {
		if level, ok := cl.config.ChannelLevels[channel]; ok {
			levels[string(channel)] = level.String()
		} else {
			levels[string(channel)] = cl.config.DefaultLevel.String()
		}
	}
	return levels
}
