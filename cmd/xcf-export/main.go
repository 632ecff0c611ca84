package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	xcfexport "github.com/layerforge/xcf-export"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const version = "0.3.0"

var (
	specPath   string
	serverAddr string
	quiet      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "xcf-export [substrings...]",
		Short: "Render raster exports from multi-layer GIMP documents",
		Long: "Renders the exports declared in a YAML specification from GIMP project files, " +
			"driving a running GIMP instance through its Script-Fu server. " +
			"Optional substring arguments limit the run to matching output paths.",
		Args: cobra.ArbitraryArgs,
		Run:  run,
	}

	rootCmd.PersistentFlags().StringVarP(&specPath, "spec", "s", "xcf-export.yaml", "Export specification file")
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", xcfexport.DefaultServerAddr, "Script-Fu server address")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")

	dumpCmd := &cobra.Command{
		Use:   "dump <xcf>",
		Short: "Print a specification reproducing a document's current visibility",
		Args:  cobra.ExactArgs(1),
		Run:   runDump,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("xcf-export version %s\n", version)
		},
	}

	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	cyan.Println("\n🖼  xcf-export")
	cyan.Println("=============")
	cyan.Println()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := xcfexport.Options{
		SpecPath:   specPath,
		ServerAddr: serverAddr,
		Substrings: args,
	}
	if !quiet {
		opts.Logger = &cliLogger{}
	}

	result, err := xcfexport.Run(ctx, opts)
	if err != nil {
		red.Printf("Error: %v\n", err)
		if result == nil || result.Report == nil {
			os.Exit(1)
		}
	}

	report := result.Report
	cyan.Println("\n📊 Export Report:")
	for _, entry := range report.Entries {
		if entry.Failed() {
			red.Printf("  ✗ %s: %v\n", entry.OutputPath, entry.Err)
		} else {
			green.Printf("  ✓ %s\n", entry.OutputPath)
		}
	}

	if failed := report.Failed(); failed > 0 {
		red.Printf("\n%d of %d export(s) failed\n\n", failed, len(report.Entries))
		os.Exit(1)
	}
	green.Printf("\n✨ Exported %d file(s)\n\n", len(report.Entries))
}

func runDump(cmd *cobra.Command, args []string) {
	out, err := xcfexport.Dump(xcfexport.DumpOptions{
		ProjectPath: args[0],
		ServerAddr:  serverAddr,
	})
	if err != nil {
		color.New(color.FgRed).Printf("Error: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(out)
}

// cliLogger implements xcfexport.Logger with colored terminal output.
type cliLogger struct{}

func (l *cliLogger) Infof(format string, args ...any) {
	color.New(color.FgYellow).Printf(format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Printf("⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	color.New(color.FgRed).Printf("✗ "+format+"\n", args...)
}
