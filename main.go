package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"midi2text/batch"
	"midi2text/config"
	"midi2text/convert"
	"midi2text/debug"
	"midi2text/theme"
	"midi2text/tui"
)

var (
	Version = "dev"

	// Command-line configuration
	opts struct {
		debug   string
		stdout  bool
		outDir  string
		workers int
	}

	cfg *config.Config
	th  *theme.Theme
)

var rootCmd = &cobra.Command{
	Use:   "midi2text [src.mid] [dst.txt]",
	Short: "Flatten a MIDI file into a quantized text event list",
	Long: `midi2text converts a Standard MIDI File into one line per quantized note
or per channel controller change, on a 64th-note grid:

  BPM:<bpm>
  <channel>,<program>,<pitch>,<velocity>,<start>,<end>,<pan>,<pitch_bend>,<volume>,<cc74>,<cc75>,<cc76>

With no arguments a file picker is shown.`,
	Version:           Version,
	Args:              cobra.MaximumNArgs(2),
	PersistentPreRunE: setup,
	RunE:              runConvert,
	SilenceUsage:      true,
}

var batchCmd = &cobra.Command{
	Use:   "batch <files...>",
	Short: "Convert many MIDI files in parallel",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBatch,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&opts.debug, "debug", "l", "",
		"Write debug logs to specified file (empty disables)")
	rootCmd.Flags().BoolVar(&opts.stdout, "stdout", false,
		"Write the text to stdout instead of a file")
	batchCmd.Flags().StringVarP(&opts.outDir, "out", "o", "",
		"Output directory (default: next to each source)")
	batchCmd.Flags().IntVarP(&opts.workers, "jobs", "j", 0,
		"Files converted at once (default from config)")

	rootCmd.AddCommand(batchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}

	logPath := opts.debug
	if logPath == "" && cfg.DebugLog {
		logPath, _ = config.DebugLogPath()
	}
	if logPath != "" {
		if err := debug.Enable(logPath); err != nil {
			return errors.Wrap(err, "debug log")
		}
	}

	palette, err := theme.LoadOrDefault(cfg.Palette)
	if err != nil {
		debug.Log("theme", "palette %s: %v", cfg.Palette, err)
	}
	th = theme.New(palette)
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	defer debug.Disable()

	var src, dst string
	switch len(args) {
	case 0:
		sel, err := tui.Run(th, cfg.LastInputDir, cfg.LastOutputDir)
		if err != nil {
			return err
		}
		if sel.Source == "" {
			fmt.Println("No MIDI file selected.")
			return nil
		}
		if sel.Dest == "" {
			fmt.Println("No output file selected.")
			return nil
		}
		src, dst = sel.Source, sel.Dest
	case 1:
		src, dst = args[0], convert.DefaultDest(args[0], "")
	default:
		src, dst = args[0], args[1]
	}

	if opts.stdout {
		return writeStdout(src)
	}

	res, err := convert.ConvertFile(src, dst)
	if err != nil {
		return err
	}
	fmt.Println(tui.Summary(th, res))

	cfg.Remember(src, dst)
	if err := cfg.Save(); err != nil {
		debug.Log("config", "save: %v", err)
	}
	return nil
}

func writeStdout(src string) error {
	f, err := convert.Load(src)
	if err != nil {
		return err
	}
	doc, err := convert.Convert(f)
	if err != nil {
		return err
	}
	_, err = doc.WriteTo(os.Stdout)
	return err
}

func runBatch(cmd *cobra.Command, args []string) error {
	defer debug.Disable()

	workers := opts.workers
	if workers <= 0 {
		workers = cfg.Workers
	}

	outcomes := batch.Run(batch.Jobs(args, opts.outDir), workers)
	fmt.Println(tui.BatchSummary(th, outcomes))

	if failed := batch.Failed(outcomes); len(failed) > 0 {
		return errors.Errorf("%d of %d files failed", len(failed), len(outcomes))
	}
	return nil
}
