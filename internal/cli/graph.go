package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/songsort/pkg/cache"
	serrors "github.com/matzehuels/songsort/pkg/errors"
	"github.com/matzehuels/songsort/pkg/pref"
	"github.com/matzehuels/songsort/pkg/render"
)

// Graph output formats.
const (
	graphDOT = "dot"
	graphSVG = "svg"
	graphPNG = "png"
	graphPDF = "pdf"
)

type graphOptions struct {
	output  string
	format  string
	full    bool
	scale   float64
	noCache bool
}

func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOptions

	cmd := &cobra.Command{
		Use:   "graph <decisions>",
		Short: "Draw the preference graph of a decision file",
		Long: `Draw the preference graph of a text or JSON decision file.

Edges point from the preferred song to the one it beat. Direct answers are
solid, imported decisions dashed and inferred ones dotted. By default edges
implied by other edges are left out; --full keeps them.

DOT is written to stdout unless --output is given. SVG uses the embedded
Graphviz; PNG and PDF additionally need rsvg-convert on PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout for dot)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "dot, svg, png or pdf (default from the output extension)")
	cmd.Flags().BoolVar(&opts.full, "full", false, "keep transitively implied edges")
	cmd.Flags().Float64Var(&opts.scale, "scale", 2, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "render even if a cached copy exists")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{graphDOT, graphSVG, graphPNG, graphPDF}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, path string, opts graphOptions) error {
	ctx := cmd.Context()
	format, err := graphFormat(opts.output, opts.format)
	if err != nil {
		return err
	}
	if format != graphDOT && opts.output == "" {
		return serrors.New(serrors.ErrCodeInvalidInput, "%s output needs --output", format)
	}

	decisions, err := loadDecisions(path)
	if err != nil {
		return err
	}
	ranking, err := pref.TopologicalSortItems(decisions)
	var cycle *pref.CycleWarning
	switch {
	case errors.As(err, &cycle):
		printWarning("%s", cycle.Error())
		if !opts.full {
			printDetail("drawing every edge of a cyclic graph")
			opts.full = true
		}
		ranking = nil
	case err != nil:
		return err
	}

	dot, err := render.ToDOT(decisions, render.Options{Reduce: !opts.full, Ranking: ranking})
	if err != nil {
		return err
	}
	if format == graphDOT {
		if opts.output == "" {
			_, err := fmt.Fprint(cmd.OutOrStdout(), dot)
			return err
		}
		return writeGraph(opts.output, []byte(dot))
	}

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Rendering "+format)
	spinner.Start()
	data, err := renderGraph(ctx, c.newCache(opts.noCache), dot, format, opts.scale)
	spinner.Stop()
	if err != nil {
		return err
	}
	if err := writeGraph(opts.output, data); err != nil {
		return err
	}
	prog.done("Rendered " + format)
	printFile(opts.output)
	return nil
}

// graphFormat resolves the output format from the flag or the file extension.
func graphFormat(output, format string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
		if format == "" || format == "gv" {
			format = graphDOT
		}
	}
	switch format {
	case graphDOT, graphSVG, graphPNG, graphPDF:
		return format, nil
	}
	return "", serrors.New(serrors.ErrCodeInvalidInput, "unknown graph format %q", format)
}

func renderGraph(ctx context.Context, c cache.Cache, dot, format string, scale float64) ([]byte, error) {
	svg, err := render.CachedSVG(ctx, c, dot)
	if err != nil {
		return nil, err
	}
	switch format {
	case graphPNG:
		return render.ToPNG(ctx, svg, scale)
	case graphPDF:
		return render.ToPDF(ctx, svg)
	}
	return svg, nil
}

func writeGraph(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
