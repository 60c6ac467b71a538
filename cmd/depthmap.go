package cmd

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"

	"github.com/chewxy/math32"
	"github.com/urfave/cli"

	"github.com/achilleasa/go-sbvh/asset/wavefront"
	"github.com/achilleasa/go-sbvh/geometry"
	"github.com/achilleasa/go-sbvh/sbvh"
	"github.com/achilleasa/go-sbvh/types"
)

// Render a depth map of a scene by running one nearest-intersection query
// per pixel. This is the CPU stand-in for the renderer that would normally
// consume the flattened node list; it doubles as a smoke test for the
// concurrent query contract since every image row is traced by its own
// worker.
func RenderDepthMap(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return fmt.Errorf("missing scene file argument")
	}

	opts, err := buildOptions(ctx)
	if err != nil {
		return err
	}

	geoms, err := wavefront.ReadFile(ctx.Args().First())
	if err != nil {
		return err
	}
	if len(geoms) == 0 {
		return fmt.Errorf("scene contains no geometry")
	}

	logger.Noticef("partitioning %d geometries using the %s strategy", len(geoms), opts.SplitMethod)
	tree := sbvh.Build(geoms, opts)

	width := ctx.Int("width")
	height := ctx.Int("height")
	depths := traceDepths(tree, geoms, width, height, float32(ctx.Float64("fov")))

	outFile := ctx.String("out")
	if err = writeDepthPNG(depths, width, height, outFile); err != nil {
		return err
	}

	logger.Noticef("wrote %dx%d depth map to %s", width, height, outFile)
	return nil
}

// traceDepths shoots one primary ray per pixel from a pinhole camera placed
// outside the scene bounds, looking at the scene center down the Z axis.
// Misses are recorded as +Inf.
func traceDepths(tree *sbvh.SBVH, geoms []geometry.Geometry, width, height int, fovDegrees float32) []float32 {
	sceneBounds := geometry.EmptyBBox()
	for _, g := range geoms {
		sceneBounds = sceneBounds.Union(g.BBox())
	}

	extent := sceneBounds.Max.Sub(sceneBounds.Min).MaxComponent()
	eye := sceneBounds.Centroid.Add(types.Vec3{0, 0, 1.5 * extent})

	halfH := math32.Tan(fovDegrees * math32.Pi / 360.0)
	halfW := halfH * float32(width) / float32(height)

	depths := make([]float32, width*height)

	var wg sync.WaitGroup
	for y := 0; y < height; y++ {
		wg.Add(1)
		go func(y int) {
			defer wg.Done()
			for x := 0; x < width; x++ {
				// NDC in [-1,1] with Y up.
				u := (2.0*(float32(x)+0.5)/float32(width) - 1.0) * halfW
				v := (1.0 - 2.0*(float32(y)+0.5)/float32(height)) * halfH

				ray := geometry.NewRay(eye, types.Vec3{u, v, -1})
				if hit, ok := tree.NearestIntersection(ray); ok {
					depths[y*width+x] = hit.T
				} else {
					depths[y*width+x] = math32.Inf(1)
				}
			}
		}(y)
	}
	wg.Wait()

	return depths
}

// writeDepthPNG normalizes hit depths over the observed range and encodes
// them as an 8-bit grayscale image. Nearer surfaces render brighter; misses
// render black.
func writeDepthPNG(depths []float32, width, height int, path string) error {
	minDepth := math32.Inf(1)
	maxDepth := math32.Inf(-1)
	for _, d := range depths {
		if math32.IsInf(d, 1) {
			continue
		}
		minDepth = math32.Min(minDepth, d)
		maxDepth = math32.Max(maxDepth, d)
	}

	depthRange := maxDepth - minDepth
	if depthRange <= 0 {
		depthRange = 1
	}

	img := image.NewGray(image.Rect(0, 0, width, height))
	for i, d := range depths {
		if math32.IsInf(d, 1) {
			continue
		}
		shade := 1.0 - (d-minDepth)/depthRange
		img.Pix[i] = uint8(55 + 200*shade)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}
