package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	_ "github.com/joho/godotenv/autoload"

	"github.com/mtgban/tcg2deckbox/deckbox"
	"github.com/mtgban/tcg2deckbox/refcache"
	"github.com/mtgban/tcg2deckbox/replacements"
	"github.com/mtgban/tcg2deckbox/scryfall"
	"github.com/mtgban/tcg2deckbox/tcgplayer"
)

const (
	invalidExportMessage = "The file passed does not appear to be a valid CSV file."
	successMessage       = "Your import file for deckbox.org is available here: %s\n"
)

var GlobalLogCallback = log.Printf

var Commit = func() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}
	return ""
}()

func newRootCmd(stdout io.Writer) *cobra.Command {
	var cfgFile string
	var versionOpt bool

	cmd := &cobra.Command{
		Use:   "tcg2deckbox [flags] <export.csv>",
		Short: "Convert a TCGplayer collection export into a deckbox.org import file",
		Args:  cobra.MaximumNArgs(1),

		SilenceUsage:  true,
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			if versionOpt {
				fmt.Fprintln(stdout, "tcg2deckbox version", Commit)
				return nil
			}
			if len(args) != 1 {
				return errors.New("missing TCGplayer export file")
			}

			settings, err := loadSettings(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			return convert(cmd.Context(), settings, args[0], stdout)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "Path to a YAML settings file")
	flags.BoolVarP(&versionOpt, "version", "v", false, "Print version information")

	flags.String("replacements", replacements.DefaultFile, "Path to the replacements config file")
	flags.StringP("output", "o", deckbox.OutputFile, "Path of the deckbox import file")
	flags.String("cache-dir", ".", "Directory holding the Scryfall reference tables")
	flags.Duration("cache-ttl", refcache.DefaultTTL, "Age after which reference tables are downloaded again")
	flags.String("deckbox-url", deckbox.BaseURL, "Base URL of deckbox.org")
	flags.Int("retries", 0, "Number of retries for failed Scryfall requests")
	flags.StringSlice("skip-columns", nil, "Comma-separated list of export columns to drop (default: TCGplayer-only columns)")
	flags.String("report", "", "Path of an NDJSON report of every rewritten field (.xz and .bz2 are compressed)")
	flags.Bool("verbose", false, "Log every card name resolution")

	return cmd
}

func convert(ctx context.Context, settings *Settings, input string, stdout io.Writer) error {
	start := time.Now()

	reader, err := loadData(input)
	if err != nil {
		return err
	}
	defer reader.Close()

	er, err := tcgplayer.NewExportReader(reader)
	if errors.Is(err, tcgplayer.ErrInvalidExport) {
		fmt.Fprintln(stdout, invalidExportMessage)
		return err
	} else if err != nil {
		return err
	}

	rp, err := replacements.Load(settings.Replacements)
	if errors.Is(err, fs.ErrNotExist) {
		GlobalLogCallback("Replacements file %s not found, no replacement will be applied", settings.Replacements)
		rp = replacements.Empty()
	} else if err != nil {
		return err
	}

	sf := scryfall.NewClient()
	sf.LogCallback = GlobalLogCallback
	sf.SetRetries(settings.Retries)

	cache := refcache.New(settings.CacheDir, sf)
	cache.TTL = settings.CacheTTL
	cache.LogCallback = GlobalLogCallback

	refs := refcache.LoadReferences(ctx, cache)

	converter := deckbox.NewConverter(rp, refs, deckbox.NewClient(settings.DeckboxURL))
	if len(settings.SkipColumns) > 0 {
		converter.SkipColumns = settings.SkipColumns
	}
	converter.ErrorCallback = GlobalLogCallback
	if settings.Verbose {
		converter.LogCallback = GlobalLogCallback
	}
	if settings.Report != "" {
		converter.TrackChanges = true
		converter.RunId = uuid.NewString()
	}

	output, err := os.Create(settings.Output)
	if err != nil {
		return err
	}
	count, err := converter.Convert(ctx, er, output)
	if err != nil {
		output.Close()
		return err
	}
	err = output.Close()
	if err != nil {
		return err
	}
	GlobalLogCallback("Converted %d records in %v", count, time.Since(start))

	if settings.Report != "" {
		err = dumpChanges(converter.Changes(), settings.Report)
		if err != nil {
			return fmt.Errorf("unable to write report: %w", err)
		}
		GlobalLogCallback("Report %s written with %d changes", settings.Report, len(converter.Changes()))
	}

	path, err := filepath.Abs(settings.Output)
	if err != nil {
		path = settings.Output
	}
	fmt.Fprintf(stdout, successMessage, path)

	return nil
}

func dumpChanges(changes []deckbox.Change, outputPath string) error {
	writer, err := putData(outputPath)
	if err != nil {
		return err
	}

	err = deckbox.WriteChanges(changes, writer)
	if err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd(os.Stdout)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		if !errors.Is(err, tcgplayer.ErrInvalidExport) {
			log.Println(err)
		}
		return 1
	}
	return 0
}

func main() {
	os.Exit(run())
}
