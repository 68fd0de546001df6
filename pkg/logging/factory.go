package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Factory creates and manages loggers for different components
type Factory struct {
	config  *Config
	loggers map[string]*slog.Logger
	mu      sync.RWMutex

	handler slog.Handler
	closer  io.Closer
	masker  *Masker
}

// NewFactory creates a new logger factory writing to the configured output
func NewFactory(config *Config) (*Factory, error) {
	return newFactory(config, nil)
}

// NewFactoryWithWriter creates a factory that writes to w regardless of the
// configured output. Used by tests and the CLI when capturing logs.
func NewFactoryWithWriter(config *Config, w io.Writer) (*Factory, error) {
	return newFactory(config, w)
}

func newFactory(config *Config, w io.Writer) (*Factory, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logging config: %w", err)
	}

	f := &Factory{
		config:  config,
		loggers: make(map[string]*slog.Logger),
	}

	// Masker must exist before the handler so ReplaceAttr can use it
	if config.Masking.Enabled {
		f.masker = NewMasker(config.Masking)
	}

	if err := f.initializeHandler(w); err != nil {
		return nil, fmt.Errorf("failed to initialize handler: %w", err)
	}

	return f, nil
}

// initializeHandler creates the base slog handler
func (f *Factory) initializeHandler(writer io.Writer) error {
	if writer == nil {
		switch f.config.Output {
		case LogOutputStdout:
			writer = os.Stdout
		case LogOutputFile:
			file, err := os.OpenFile(f.config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			writer = file
			f.closer = file
		default:
			writer = os.Stderr
		}
	}

	// Component loggers filter on their own level, so the base handler
	// lets everything from debug up through.
	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: f.config.EnableCaller,
	}
	if f.masker != nil {
		opts.ReplaceAttr = f.replaceAttr
	}

	switch f.config.Format {
	case LogFormatText:
		f.handler = slog.NewTextHandler(writer, opts)
	default:
		f.handler = slog.NewJSONHandler(writer, opts)
	}

	return nil
}

// GetLogger returns a logger for a specific component
func (f *Factory) GetLogger(component string) *slog.Logger {
	f.mu.RLock()
	if logger, exists := f.loggers[component]; exists {
		f.mu.RUnlock()
		return logger
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()

	// Double-check after acquiring write lock
	if logger, exists := f.loggers[component]; exists {
		return logger
	}

	level := f.config.GetLevelForComponent(component)
	handler := NewLevelHandler(f.handler, slogLevel(level))

	logger := slog.New(handler).With(
		slog.String("component", component),
	)

	f.loggers[component] = logger
	return logger
}

// GetMasker returns the data masker, or nil when masking is disabled
func (f *Factory) GetMasker() *Masker {
	return f.masker
}

func (f *Factory) replaceAttr(groups []string, a slog.Attr) slog.Attr {
	return f.masker.MaskAttr(groups, a)
}

// slogLevel converts our LogLevel to slog.Level
func slogLevel(level LogLevel) slog.Level {
	switch level {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// UpdateLevel dynamically updates the log level for a component
func (f *Factory) UpdateLevel(component string, level LogLevel) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.config.ComponentLevels == nil {
		f.config.ComponentLevels = make(map[string]LogLevel)
	}
	f.config.ComponentLevels[component] = level

	// Remove cached logger to force recreation with new level
	delete(f.loggers, component)
}

// Close releases the log file, if one was opened
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closer != nil {
		if err := f.closer.Close(); err != nil {
			return fmt.Errorf("failed to close log file: %w", err)
		}
		f.closer = nil
	}
	return nil
}

// Global factory instance
var (
	globalFactory *Factory
	globalMu      sync.RWMutex
)

// Initialize sets up the global logger factory
func Initialize(config *Config) error {
	factory, err := NewFactory(config)
	if err != nil {
		return err
	}
	return setGlobal(factory)
}

// InitializeWithWriter sets up the global logger factory writing to w
func InitializeWithWriter(config *Config, w io.Writer) error {
	factory, err := NewFactoryWithWriter(config, w)
	if err != nil {
		return err
	}
	return setGlobal(factory)
}

func setGlobal(factory *Factory) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalFactory != nil {
		if err := globalFactory.Close(); err != nil {
			return fmt.Errorf("failed to close existing factory: %w", err)
		}
	}
	globalFactory = factory
	return nil
}

// GetGlobalLogger returns a logger from the global factory
func GetGlobalLogger(component string) *slog.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()

	if globalFactory == nil {
		// Return default logger if not initialized
		return slog.Default().With(slog.String("component", component))
	}

	return globalFactory.GetLogger(component)
}

// GetGlobalMasker returns the global data masker
func GetGlobalMasker() *Masker {
	globalMu.RLock()
	defer globalMu.RUnlock()

	if globalFactory == nil {
		return nil
	}

	return globalFactory.GetMasker()
}

// Shutdown gracefully shuts down the global logging factory
func Shutdown() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalFactory == nil {
		return nil
	}

	err := globalFactory.Close()
	globalFactory = nil
	return err
}
