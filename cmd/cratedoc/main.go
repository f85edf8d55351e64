package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cratedoc/internal/assemble"
	"cratedoc/internal/cargo"
	"cratedoc/internal/config"
	"cratedoc/internal/gather"
	"cratedoc/internal/markdown"
	"cratedoc/internal/runner"
	"cratedoc/internal/wrap"
)

var (
	// Global flags
	outputPath string
	configPath string
	rootDir    string
	verbose    bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cratedoc",
	Short: "cratedoc - assemble crate documentation into one artifact",
	Long: `cratedoc gathers markdown fragments, source listings and files shipped
by installed dependencies (located through cargo metadata), renders each
into a normalized markdown section and concatenates them in declared
order into a single artifact.

Without -o the artifact is written to stdout.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = logger.With(zap.String("run_id", uuid.NewString()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		artifact, err := buildArtifact(ctx)
		if err != nil {
			return err
		}
		return writeArtifact(artifact)
	},
}

// previewCmd renders the assembled artifact to the terminal.
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Assemble and render the artifact in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		artifact, err := buildArtifact(cmd.Context())
		if err != nil {
			return err
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return fmt.Errorf("initializing renderer: %w", err)
		}
		out, err := r.Render(artifact)
		if err != nil {
			return fmt.Errorf("rendering preview: %w", err)
		}
		fmt.Print(out)
		return nil
	},
}

// watchCmd reassembles the artifact whenever a source under the project
// root changes.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reassemble on every source change",
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputPath == "" {
			return fmt.Errorf("watch requires -o/--output")
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watch(ctx)
	},
}

// buildArtifact wires the pipeline and runs one full assembly.
func buildArtifact(ctx context.Context) (string, error) {
	cfg, err := config.Load(filepath.Join(rootDir, configPath))
	if err != nil {
		return "", err
	}

	run := runner.NewExecRunner(logger)
	g := gather.NewGatherer(gather.Gatherer{
		Root:        rootDir,
		Runner:      run,
		Cache:       cargo.NewMetadataCache(run, rootDir, logger),
		Shifter:     markdown.NewShifter(cfg.HeadingShift),
		Serializer:  wrap.Serializer{},
		DocsCommand: cfg.DocsCommand,
		Log:         logger,
	})

	producers, err := g.Producers(ctx, cfg.Sections)
	if err != nil {
		return "", err
	}
	logger.Debug("assembly starting", zap.Int("producers", len(producers)))
	return assemble.Assemble(ctx, producers)
}

// writeArtifact writes to the output path, or stdout when none is given.
// It is only called after a fully successful assembly so a failed run
// never leaves a partial artifact behind.
func writeArtifact(artifact string) error {
	if outputPath == "" {
		_, err := os.Stdout.WriteString(artifact + "\n")
		return err
	}
	if err := os.WriteFile(outputPath, []byte(artifact+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	logger.Info("artifact written",
		zap.String("path", outputPath),
		zap.Int("bytes", len(artifact)+1))
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "destination path (default: stdout)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "cratedoc.yaml", "config file, relative to the project root")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", ".", "project root directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
