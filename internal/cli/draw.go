package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/christophertubbs/erdantic/pkg/adapters/manifest"
	"github.com/christophertubbs/erdantic/pkg/cache"
	"github.com/christophertubbs/erdantic/pkg/erd"
	"github.com/christophertubbs/erdantic/pkg/observability"
	"github.com/christophertubbs/erdantic/pkg/render/dot"
)

// Output formats for the draw command.
const (
	formatSVG = "svg"
	formatPNG = "png"
	formatDOT = "dot"
)

// drawCommand creates the draw command for rendering diagrams to files.
func (c *CLI) drawCommand() *cobra.Command {
	var (
		output   string
		format   string
		depth    int
		vertical bool
		roots    []string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "draw [schema.toml]",
		Short: "Render an entity relationship diagram from a schema",
		Long: `Render an entity relationship diagram from a TOML schema file.

By default every model declared in the schema becomes a diagram root and
composition is followed one level deep. Use --root to start from specific
models and --depth to follow nested models further.

Rendered SVG and PNG artifacts are cached locally, keyed by the diagram
content and render options, so re-running on an unchanged schema is free.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatSVG && format != formatPNG && format != formatDOT {
				return fmt.Errorf("unknown format %q (want svg, png, or dot)", format)
			}
			return c.runDraw(cmd.Context(), args[0], output, format, depth, vertical, roots, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <schema>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: svg (default), png, dot")
	cmd.Flags().IntVarP(&depth, "depth", "d", erd.DefaultDepthLimit, "how many composition levels to follow from the roots")
	cmd.Flags().BoolVar(&vertical, "vertical", false, "lay models out top to bottom instead of left to right")
	cmd.Flags().StringArrayVarP(&roots, "root", "r", nil, "model name to use as a diagram root (repeatable; default: all models)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runDraw builds the diagram and writes the rendered artifact.
func (c *CLI) runDraw(ctx context.Context, input, output, format string, depth int, vertical bool, roots []string, noCache bool) error {
	diagram, err := c.buildDiagram(input, roots, depth, vertical)
	if err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	}

	store := c.newCache(ctx, noCache || format == formatDOT)
	defer store.Close()

	artifact, cacheHit, err := c.renderCached(ctx, store, cache.NewDefaultKeyer(), diagram, format)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := os.WriteFile(outputPath, artifact, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Diagram rendered")
	printFile(outputPath)
	printStats(len(diagram.Models()), len(diagram.Edges()), cacheHit)
	printNewline()
	printNextStep("Preview live", "erdantic serve "+input)
	return nil
}

// buildDiagram loads a schema and discovers the composition graph from the
// requested roots.
func (c *CLI) buildDiagram(input string, roots []string, depth int, vertical bool) (*erd.Diagram, error) {
	p := newProgress(c.Logger)

	schema, err := manifest.Load(input)
	if err != nil {
		return nil, fmt.Errorf("load schema %s: %w", input, err)
	}
	c.Logger.Debug("schema loaded", "schema", schema.Name(), "models", len(schema.Names()))

	rootValues, err := resolveRoots(schema, roots)
	if err != nil {
		return nil, err
	}

	orientation := erd.OrientationHorizontal
	if vertical {
		orientation = erd.OrientationVertical
	}

	start := time.Now()
	observability.Diagram().OnDiscoverStart(context.Background(), len(rootValues))
	diagram, err := erd.Create(rootValues,
		erd.WithDepthLimit(depth),
		erd.WithOrientation(orientation),
	)
	if err != nil {
		observability.Diagram().OnDiscoverComplete(context.Background(), 0, 0, time.Since(start), err)
		return nil, err
	}
	observability.Diagram().OnDiscoverComplete(context.Background(), len(diagram.Models()), len(diagram.Edges()), time.Since(start), nil)
	p.done(fmt.Sprintf("Discovered %d models", len(diagram.Models())))
	return diagram, nil
}

// resolveRoots maps --root names to schema declarations. With no names, the
// whole schema is the single root.
func resolveRoots(schema *manifest.Schema, names []string) ([]any, error) {
	if len(names) == 0 {
		return []any{schema}, nil
	}
	roots := make([]any, 0, len(names))
	for _, name := range names {
		decl, ok := schema.Model(name)
		if !ok {
			return nil, fmt.Errorf("model %q is not declared in schema %q", name, schema.Name())
		}
		roots = append(roots, decl)
	}
	return roots, nil
}

// renderCached renders the diagram in the requested format, consulting the
// cache for SVG and PNG artifacts. DOT is cheap enough to always generate.
// The keyer decides the cache namespace; draw uses the default scheme while
// serve scopes keys per schema.
func (c *CLI) renderCached(ctx context.Context, store cache.Cache, keyer cache.Keyer, diagram *erd.Diagram, format string) ([]byte, bool, error) {
	source := dot.ToDOT(diagram)
	if format == formatDOT {
		return []byte(source), false, nil
	}

	key := keyer.RenderKey(diagram.Hash(), cache.RenderKeyOpts{
		Format:      format,
		Orientation: string(diagram.Orientation()),
	})

	if data, ok, err := store.Get(ctx, key); err != nil {
		c.Logger.Warn("cache read failed", "err", err)
	} else if ok {
		observability.Cache().OnHit(ctx, key)
		c.Logger.Debug("cache hit", "key", key)
		return data, true, nil
	}
	observability.Cache().OnMiss(ctx, key)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", format))
	spinner.Start()

	start := time.Now()
	observability.Diagram().OnRenderStart(ctx, format)

	var artifact []byte
	var err error
	switch format {
	case formatPNG:
		artifact, err = dot.RenderPNG(source)
	default:
		artifact, err = dot.RenderSVG(source)
	}
	observability.Diagram().OnRenderComplete(ctx, format, len(artifact), time.Since(start), err)
	if err != nil {
		spinner.StopWithError("Render failed")
		return nil, false, fmt.Errorf("render %s: %w", format, err)
	}
	spinner.Stop()

	if err := store.Set(ctx, key, artifact, 0); err != nil {
		c.Logger.Warn("cache write failed", "err", err)
	} else {
		observability.Cache().OnSet(ctx, key, len(artifact))
	}
	return artifact, false, nil
}
