package cmd

import (
	"fmt"
	"strings"

	"github.com/urfave/cli"

	"github.com/achilleasa/go-sbvh/asset/wavefront"
	"github.com/achilleasa/go-sbvh/sbvh"
)

// Map CLI flags onto build options.
func buildOptions(ctx *cli.Context) (sbvh.Options, error) {
	opts := sbvh.DefaultOptions()

	if name := ctx.String("split-method"); name != "" {
		method, ok := sbvh.ParseSplitMethod(name)
		if !ok {
			return opts, fmt.Errorf("unsupported split method %q; supported methods: equal-counts, sah, spatial-sah", name)
		}
		opts.SplitMethod = method
	}
	if v := ctx.Float64("traversal-cost"); v > 0 {
		opts.TraversalCost = float32(v)
	}
	if v := ctx.Float64("intersection-cost"); v > 0 {
		opts.IntersectionCost = float32(v)
	}
	if v := ctx.Int("max-leaf-size"); v > 0 {
		opts.MaxGeomsPerLeaf = v
	}
	return opts, nil
}

// Build an SBVH for each scene file argument and display its statistics.
func BuildScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		return fmt.Errorf("missing scene file argument")
	}

	opts, err := buildOptions(ctx)
	if err != nil {
		return err
	}

	for idx := 0; idx < ctx.NArg(); idx++ {
		sceneFile := ctx.Args().Get(idx)
		if !strings.HasSuffix(sceneFile, ".obj") {
			logger.Warningf("skipping unsupported file %s", sceneFile)
			continue
		}

		logger.Noticef("parsing scene: %s", sceneFile)
		geoms, err := wavefront.ReadFile(sceneFile)
		if err != nil {
			return err
		}

		logger.Noticef("partitioning %d geometries using the %s strategy", len(geoms), opts.SplitMethod)
		tree := sbvh.Build(geoms, opts)

		logger.Noticef("tree statistics for %s:\n%s", sceneFile, tree.Stats())
	}

	return nil
}
