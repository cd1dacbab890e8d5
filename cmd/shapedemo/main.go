// Command shapedemo builds a collection from a synthetic dataset and
// writes it to an SVG file, exercising the engine end to end.
//
// Configuration comes from an optional shapedemo.yaml in the working
// directory; the first command line argument, when present, overrides
// the shape name. Supported shapes: ellipses, geod-circles, rectangles,
// rect-mesh, raster, voronoi, spherical-voronoi, delaunay,
// delaunay-flat, scatter, hexbin, contour.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"

	"github.com/spf13/viper"

	"github.com/mapplot/shapes"
)

func main() {
	vp := viper.New()
	vp.SetDefault("width", 900)
	vp.SetDefault("height", 600)
	vp.SetDefault("out", "shapes.svg")
	vp.SetDefault("shape", "ellipses")
	vp.SetDefault("plot-epsg", 3857)
	vp.SetDefault("points", 400)
	vp.SetDefault("grid", 60)
	vp.SetDefault("seed", 1)
	vp.SetDefault("verbose", false)

	vp.SetConfigName("shapedemo")
	vp.AddConfigPath(".")
	if err := vp.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "shapedemo:", err)
			os.Exit(1)
		}
	}
	if len(os.Args) > 1 {
		vp.Set("shape", os.Args[1])
	}
	if vp.GetBool("verbose") {
		shapes.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if err := run(vp); err != nil {
		fmt.Fprintln(os.Stderr, "shapedemo:", err)
		os.Exit(1)
	}
}

func run(vp *viper.Viper) error {
	eng, err := shapes.New(shapes.EPSG(vp.GetInt("plot-epsg")))
	if err != nil {
		return err
	}

	name := vp.GetString("shape")
	ps, err := dataset(vp, name)
	if err != nil {
		return err
	}
	spec, err := specFor(name)
	if err != nil {
		return err
	}

	col, err := eng.Build(ps, spec)
	if err != nil {
		return err
	}

	out := vp.GetString("out")
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := shapes.WriteSVG(f, vp.GetInt("width"), vp.GetInt("height"), col); err != nil {
		return err
	}
	fmt.Printf("%s: %d of %d data survived -> %s\n", col.Shape, col.Survivors(), len(col.Mask), out)
	return nil
}

// dataset builds a synthetic European point cloud, or a structured
// lon/lat grid for the gridded shapes.
func dataset(vp *viper.Viper, shape string) (*shapes.PointSet, error) {
	rng := rand.New(rand.NewSource(vp.GetInt64("seed")))

	if shape == "raster" || shape == "contour" {
		n := vp.GetInt("grid")
		gx, err := shapes.NewGrid(n, n)
		if err != nil {
			return nil, err
		}
		gy, err := shapes.NewGrid(n, n)
		if err != nil {
			return nil, err
		}
		vals := make([]float64, n*n)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				lon := -10 + 40*float64(j)/float64(n-1)
				lat := 35 + 25*float64(i)/float64(n-1)
				gx.Set(i, j, lon)
				gy.Set(i, j, lat)
				vals[i*n+j] = math.Sin(lon/8) + math.Cos(lat/5)
			}
		}
		ps, err := shapes.NewGridPointSet(gx, gy, shapes.EPSG(4326))
		if err != nil {
			return nil, err
		}
		return ps.WithValues(vals)
	}

	n := vp.GetInt("points")
	lon := make([]float64, n)
	lat := make([]float64, n)
	vals := make([]float64, n)
	for i := range lon {
		lon[i] = 10 + rng.NormFloat64()*12
		lat[i] = 50 + rng.NormFloat64()*7
		vals[i] = math.Sin(lon[i]/8) + math.Cos(lat[i]/5) + rng.NormFloat64()*0.1
	}
	ps, err := shapes.NewPointSet(lon, lat, shapes.EPSG(4326))
	if err != nil {
		return nil, err
	}
	return ps.WithValues(vals)
}

func specFor(name string) (shapes.Spec, error) {
	switch name {
	case "ellipses":
		return shapes.Ellipses{}, nil
	case "geod-circles":
		return shapes.GeodCircles{Radius: []float64{60e3}}, nil
	case "rectangles":
		return shapes.Rectangles{N: 4}, nil
	case "rect-mesh":
		return shapes.Rectangles{Mesh: true}, nil
	case "raster":
		return shapes.Raster{MaxSize: 2500}, nil
	case "voronoi":
		return shapes.VoronoiDiagram{}, nil
	case "spherical-voronoi":
		return shapes.SphericalVoronoi{}, nil
	case "delaunay":
		return shapes.DelaunayTriangulation{}, nil
	case "delaunay-flat":
		return shapes.DelaunayTriangulation{Flat: true}, nil
	case "scatter":
		return shapes.ScatterPoints{}, nil
	case "hexbin":
		return shapes.Hexbin{GridSize: 30}, nil
	case "contour":
		return shapes.Contour{NLevels: 8}, nil
	}
	return nil, fmt.Errorf("unknown shape %q", name)
}
