package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/achilleasa/go-sbvh/cmd"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	buildFlags := []cli.Flag{
		cli.StringFlag{
			Name:  "split-method, s",
			Value: "spatial-sah",
			Usage: "split strategy: equal-counts, sah or spatial-sah",
		},
		cli.Float64Flag{
			Name:  "traversal-cost",
			Value: 0.125,
			Usage: "estimated cost of one node traversal step",
		},
		cli.Float64Flag{
			Name:  "intersection-cost",
			Value: 1.0,
			Usage: "estimated cost of one geometry intersection test",
		},
		cli.IntFlag{
			Name:  "max-leaf-size",
			Value: 4,
			Usage: "ranges larger than this are always split",
		},
	}

	app := cli.NewApp()
	app.Name = "go-sbvh"
	app.Usage = "build spatial split bounding volume hierarchies over triangle scenes"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "build",
			Usage: "build an SBVH for each scene file and display tree statistics",
			Description: `
Parse triangle geometry from wavefront obj files, partition it into a spatial
split bounding volume hierarchy and report the tree shape, reference counts
and build timings.`,
			ArgsUsage: "scene_file1.obj scene_file2.obj ...",
			Flags:     buildFlags,
			Action:    cmd.BuildScene,
		},
		{
			Name:  "depthmap",
			Usage: "render a depth map of a scene using nearest-intersection queries",
			Description: `
Build an SBVH for the scene and trace one primary ray per pixel from a
pinhole camera, writing the normalized hit distances to a grayscale png.`,
			ArgsUsage: "scene_file.obj",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "image width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "image height",
				},
				cli.Float64Flag{
					Name:  "fov",
					Value: 45.0,
					Usage: "vertical field of view in degrees",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "depth.png",
					Usage: "image filename for the rendered depth map",
				},
			}, buildFlags...),
			Action: cmd.RenderDepthMap,
		},
	}

	app.Run(os.Args)
}
