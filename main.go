package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nconklindev/xlsx2vcf/internal/config"
	"github.com/nconklindev/xlsx2vcf/internal/converter"
	"github.com/nconklindev/xlsx2vcf/internal/logging"
	"github.com/nconklindev/xlsx2vcf/internal/types"
	"github.com/nconklindev/xlsx2vcf/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var errConvertFailed = errors.New("conversion failed")

func main() {
	// A .env file is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "xlsx2vcf [file]",
		Short: "Turn a spreadsheet of names and phone numbers into contacts.vcf",
		Long: `xlsx2vcf reads the first sheet of a spreadsheet, previews it, and saves
every name/phone row as a vCard in contacts.vcf.

Pick a file in the file picker, drop one onto the terminal, or pass it as an argument.`,
		Version:      version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var initial string
			if len(args) == 1 {
				initial = args[0]
			}
			return runInteractive(cfg, initial)
		},
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf("xlsx2vcf %s\ncommit: %s\nbuilt: %s\n", version, commit, date))

	rootCmd.PersistentFlags().StringVarP(&cfg.Output.Dir, "output-dir", "o", cfg.Output.Dir, "Directory to save contacts.vcf in (default: working directory)")
	rootCmd.Flags().StringVar(&cfg.Picker.StartDir, "start-dir", cfg.Picker.StartDir, "Directory the file picker opens in")
	rootCmd.Flags().BoolVar(&cfg.Picker.ShowHidden, "show-hidden", cfg.Picker.ShowHidden, "Show hidden files in the file picker")

	rootCmd.AddCommand(newConvertCmd(cfg))

	return rootCmd
}

func newConvertCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:          "convert <file>",
		Short:        "Convert a spreadsheet without the interactive view",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
			return runConvert(cmd.Context(), cfg, args[0], cmd.OutOrStdout())
		},
	}
}

func runInteractive(cfg *config.Config, initialFile string) error {
	logFile, err := os.OpenFile(cfg.Logging.LogFile(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format, logFile)
	slog.Info("session started", "version", version, "output_dir", cfg.Output.Dir)

	model := ui.InitialModel(ui.Options{
		StartDir:    cfg.Picker.Dir(),
		ShowHidden:  cfg.Picker.ShowHidden,
		OutputDir:   cfg.Output.Dir,
		MaxFileSize: cfg.Read.MaxFileSize,
		ChunkSize:   cfg.Read.ChunkSize,
		InitialFile: initialFile,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		return err
	}
	return nil
}

// runConvert is the headless pipeline: read, ingest, save. It prints the
// status line and fails whenever nothing was saved.
func runConvert(ctx context.Context, cfg *config.Config, path string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, _ = logging.WithRun(ctx)
	logger := logging.WithFields(ctx, "file", path)

	fmt.Fprintln(out, converter.ProcessingStatus(filepath.Base(path)).Text)

	data, err := converter.ReadFile(path, cfg.Read.MaxFileSize, cfg.Read.ChunkSize, nil)
	if err != nil {
		logger.Error("failed to read file", "error", err)
		fmt.Fprintln(out, converter.MsgReadError)
		return fmt.Errorf("%w: %v", errConvertFailed, err)
	}

	res := converter.Ingest(ctx, data)
	fmt.Fprintln(out, res.Status.Text)
	if res.Counter != "" {
		fmt.Fprintln(out, res.Counter)
	}

	if res.Status.Kind == types.StatusError || !res.DownloadEnabled() {
		return errConvertFailed
	}

	saved, err := converter.SaveDownload(cfg.Output.Dir, res.Download)
	if err != nil {
		logger.Error("failed to save download", "error", err)
		return fmt.Errorf("%w: %v", errConvertFailed, err)
	}
	fmt.Fprintf(out, "Saved %s\n", saved)

	return nil
}
