package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JamesPrial/knowledge-core/internal/knowledge"
	"github.com/JamesPrial/knowledge-core/internal/storage"
	"github.com/JamesPrial/knowledge-core/pkg/config"
	"github.com/JamesPrial/knowledge-core/pkg/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	configPath string
	dev        bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "knowledge-core",
		Short:        "Extract knowledge and resolve entities from free text",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to configuration file (defaults plus KNOWLEDGE_* environment when empty)")
	root.PersistentFlags().BoolVar(&opts.dev, "dev", false, "Use the development logging preset (debug level, text format, no masking)")

	root.AddCommand(extractCmd(opts))
	root.AddCommand(processCmd(opts))
	root.AddCommand(recordCmd(opts))
	root.AddCommand(showCmd(opts))
	root.AddCommand(statsCmd(opts))
	return root
}

// app holds what a command needs once configuration is loaded
type app struct {
	cfg    *config.Settings
	store  storage.Store
	engine *knowledge.Engine
}

func openApp(opts *rootOptions) (*app, error) {
	cfg, err := config.LoadWithEnv(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.dev {
		cfg.Logging = devLogging(cfg.Logging)
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	store, err := storage.NewStore(cfg)
	if err != nil {
		logging.Shutdown()
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	engine, err := knowledge.NewEngineFromSettings(store, cfg)
	if err != nil {
		store.Close()
		logging.Shutdown()
		return nil, err
	}

	logging.GetGlobalLogger("cli").Debug("Engine ready",
		"storage", cfg.StorageType,
		"detectors", cfg.Detection.Detectors,
	)
	return &app{cfg: cfg, store: store, engine: engine}, nil
}

// devLogging swaps in the development preset but keeps the configured
// destination
func devLogging(current *logging.Config) *logging.Config {
	dev := logging.DevelopmentConfig()
	if current != nil {
		dev.Output = current.Output
		dev.FilePath = current.FilePath
	}
	return dev
}

func (a *app) Close() error {
	err := a.store.Close()
	logging.Shutdown()
	return err
}

// readInput reads the file named by args[0], or stdin when it is absent or "-"
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}
