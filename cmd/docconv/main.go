// Command docconv converts spreadsheets, Word documents, CSV, text and PDF
// files into JSONL, JSON, CSV, YAML, TSV, Markdown, HTML or boxed table records.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bjaus/docconv"
)

var (
	version = "0.1.0"
	appName = "docconv"

	configPath string
	logLevel   string
	outFormat  string
	outDir     string
	maxSize    int64
	pdfEngine  string
	jobs       int

	colorRed    = color.New(color.FgRed, color.Bold)
	colorGreen  = color.New(color.FgGreen, color.Bold)
	colorYellow = color.New(color.FgYellow)
	colorCyan   = color.New(color.FgCyan)
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		colorRed.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Convert documents into structured records",
	Long: `docconv extracts records from spreadsheets (.xlsx, .xls), Word documents
(.docx, .doc), CSV, plain text and PDF files and serializes them.

Examples:
  # Convert a spreadsheet to JSON Lines on stdout
  docconv convert report.xlsx

  # Convert several files to CSV files in ./out, four at a time
  docconv convert --format csv --out ./out --jobs 4 *.docx *.pdf

  # Serve the converter as MCP tools over stdio
  docconv mcp
`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var convertCmd = &cobra.Command{
	Use:   "convert FILE...",
	Short: "Convert files to the chosen output format",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runConvert,
}

var detectCmd = &cobra.Command{
	Use:   "detect NAME...",
	Short: "Show the source format chosen for each file name",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range args {
			f := docconv.Detect(name)
			if f == docconv.Unsupported {
				colorYellow.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, f)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, f)
		}
	},
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List accepted input extensions and output formats",
	Run: func(cmd *cobra.Command, _ []string) {
		w := cmd.OutOrStdout()
		colorCyan.Fprintln(w, "Input extensions:")
		fmt.Fprintf(w, "  %s\n", strings.Join(docconv.SupportedExtensions(), " "))
		colorCyan.Fprintln(w, "Output formats:")
		for _, f := range docconv.Formats() {
			fmt.Fprintf(w, "  %-9s %s\n", f, f.ContentType())
		}
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve docconv tools over MCP on stdio",
	RunE: func(cmd *cobra.Command, _ []string) error {
		conv, err := newConverter(cmd)
		if err != nil {
			return err
		}
		srv := mcp.NewServer(&mcp.Implementation{Name: appName, Version: version}, nil)
		conv.RegisterMCP(srv)
		return srv.Run(cmd.Context(), &mcp.StdioTransport{})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Int64Var(&maxSize, "max-size", 0, "maximum document size in bytes (overrides config)")
	rootCmd.PersistentFlags().StringVar(&pdfEngine, "pdf-engine", "", "PDF engine: "+strings.Join(docconv.Engines(), " or ")+" (overrides config)")

	convertCmd.Flags().StringVarP(&outFormat, "format", "f", string(docconv.JSONL), "output format")
	convertCmd.Flags().StringVarP(&outDir, "out", "o", "", "directory for output files (default: stdout)")
	convertCmd.Flags().IntVarP(&jobs, "jobs", "j", 1, "files converted in parallel")

	rootCmd.AddCommand(convertCmd, detectCmd, formatsCmd, mcpCmd)
}

func newConverter(cmd *cobra.Command) (*docconv.Converter, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	cfg, err := docconv.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("max-size") {
		cfg.MaxFileSize = maxSize
	}
	if cmd.Flags().Changed("pdf-engine") {
		cfg.PDFEngine = pdfEngine
	}
	cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return docconv.New(cfg), nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	f, err := docconv.ParseFormat(outFormat)
	if err != nil {
		return err
	}
	conv, err := newConverter(cmd)
	if err != nil {
		return err
	}
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	outcomes := make([]docconv.Outcome, len(args))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))
	for i, path := range args {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := conv.ConvertFile(ctx, path, f)
			if err != nil {
				return err
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if outDir != "" {
		if err := checkDestinations(args, outcomes); err != nil {
			return err
		}
	}

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	failures := 0
	for i, out := range outcomes {
		if !out.Success {
			failures++
			colorRed.Fprintf(stderr, "✗ %s: %s: %s\n", args[i], out.ErrorKind, out.ErrorDetail)
			continue
		}
		if outDir == "" {
			fmt.Fprintln(stdout, out.Payload)
			continue
		}
		dest := filepath.Join(outDir, out.Filename)
		if err := os.WriteFile(dest, []byte(out.Payload), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dest, err)
		}
		colorGreen.Fprintf(stderr, "✓ %s -> %s\n", args[i], dest)
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d conversions failed", failures, len(args))
	}
	return nil
}

// checkDestinations fails when two inputs would write the same file in
// --out, as happens with equal base names from different directories.
func checkDestinations(args []string, outcomes []docconv.Outcome) error {
	seen := make(map[string]string, len(outcomes))
	for i, out := range outcomes {
		if !out.Success {
			continue
		}
		if prev, ok := seen[out.Filename]; ok {
			return fmt.Errorf("%s and %s both write %s", prev, args[i], filepath.Join(outDir, out.Filename))
		}
		seen[out.Filename] = args[i]
	}
	return nil
}
