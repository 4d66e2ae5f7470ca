package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/songsort/internal/config"
	"github.com/matzehuels/songsort/pkg/catalog"
	"github.com/matzehuels/songsort/pkg/errors"
	"github.com/matzehuels/songsort/pkg/importer"
	"github.com/matzehuels/songsort/pkg/io"
	"github.com/matzehuels/songsort/pkg/pref"
	"github.com/matzehuels/songsort/pkg/session"
	"github.com/matzehuels/songsort/pkg/strategy"
)

// Output formats for decision files.
const (
	formatText = "text"
	formatJSON = "json"
)

type rankOptions struct {
	importPath string
	output     string
	format     string
	history    bool
}

func (c *CLI) rankCommand() *cobra.Command {
	var opts rankOptions

	cmd := &cobra.Command{
		Use:   "rank [catalog]",
		Short: "Rank a song catalog interactively",
		Long: `Rank the songs of a catalog by answering pairwise comparisons.

The catalog is a TOML file with [[song]] tables or a text file with one title
per line. Without an argument the catalog from the config file is used.

Decisions from an earlier run can be imported with --import, or with "i"
during the session, so that settled comparisons are not asked again.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			path := cfg.Catalog
			if len(args) == 1 {
				path = args[0]
			}
			return c.runRank(cmd.Context(), cfg, path, opts)
		},
	}

	cmd.Flags().StringP("strategy", "s", "", "sort strategy: "+strings.Join(strategy.Names(), ", "))
	cmd.Flags().Bool("clean-imports", false, "drop redundant imported decisions before merging")
	cmd.Flags().StringVarP(&opts.importPath, "import", "i", "", "import decisions from a text file before ranking")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the decisions to a file")
	cmd.Flags().StringVar(&opts.format, "format", "", "output format: text or json (default from the file extension)")
	cmd.Flags().BoolVar(&opts.history, "history", false, "print every decision after ranking")
	_ = cmd.RegisterFlagCompletionFunc("strategy", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return strategy.Names(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *CLI) runRank(ctx context.Context, cfg *config.Config, path string, opts rankOptions) error {
	if path == "" {
		return errors.New(errors.ErrCodeInvalidInput, "no catalog given and none configured")
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return err
	}
	items := cat.Items()
	s, err := strategy.New(cfg.Strategy)
	if err != nil {
		return err
	}

	sess, err := session.New(items, s, session.Options{Logger: loggerFromContext(ctx)})
	if err != nil {
		return err
	}
	printInfo("Ranking %d songs with %s", len(items), s.Name())
	printDetail("%s comparisons at most", bounds(s.BestCase(len(items)), s.WorstCase(len(items))))

	if opts.importPath != "" {
		pairs, report, err := readPairs(opts.importPath, items)
		if err != nil {
			return err
		}
		sum, err := sess.Import(ctx, pairs, cfg.CleanImports)
		if err != nil {
			return err
		}
		printImport(sum, report)
	}

	sess.Start(ctx)
	defer sess.Stop()

	m, err := runRankTUI(ctx, sess, cfg.CleanImports)
	if err != nil {
		return fmt.Errorf("interactive session: %w", err)
	}
	if m.quit {
		sess.Stop()
		<-sess.Done()
		res := sess.Export()
		printWarning("Stopped after %d answers", countKinds(res.Decisions)[pref.Direct])
		if opts.output != "" {
			if err := writeResult(res, opts.output, opts.format); err != nil {
				return err
			}
			printFile(opts.output)
			printDetail("import it with --import to continue later")
		}
		return nil
	}

	<-sess.Done()
	ranking, err := sess.Result()
	if err != nil {
		return err
	}
	res := sess.Export()

	fmt.Println(rankingTable(ranking))
	counts := countKinds(res.Decisions)
	printKeyValue("asked", strconv.Itoa(counts[pref.Direct]))
	printKeyValue("inferred", strconv.Itoa(counts[pref.Inferred]))
	printKeyValue("imported", strconv.Itoa(counts[pref.Imported]))
	if opts.history {
		fmt.Println(historyTable(res.Decisions))
	}

	if opts.output != "" {
		if err := writeResult(res, opts.output, opts.format); err != nil {
			return err
		}
		printFile(opts.output)
	}
	return nil
}

// readPairs parses a decision text file against the session's items.
func readPairs(path string, items []string) ([]importer.Pair, io.ParseReport, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, io.ParseReport{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "decisions %s", path)
		}
		return nil, io.ParseReport{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return io.ReadText(f, items)
}

// writeResult writes res to path as text or JSON. An empty format is taken
// from the extension.
func writeResult(res io.Result, path, format string) error {
	if format == "" {
		format = formatText
		if strings.EqualFold(filepath.Ext(path), ".json") {
			format = formatJSON
		}
	}
	switch format {
	case formatJSON:
		return io.ExportJSON(res, path)
	case formatText:
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := io.WriteText(f, res.Decisions); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown format %q", format)
}
