// Package shapes turns point observations (positions in an input
// coordinate reference system, each with an optional scalar value) into
// renderable 2-D primitives in a target plot CRS: polygon rings, quad
// and triangle meshes, and point markers.
//
// An Engine is constructed once per plot CRS and reused across builds:
//
//	eng, err := shapes.New(shapes.EPSG(3857))
//	if err != nil {
//		log.Fatal(err)
//	}
//	ps, err := shapes.NewPointSet(lons, lats, shapes.EPSG(4326))
//	if err != nil {
//		log.Fatal(err)
//	}
//	ps, _ = ps.WithValues(temperatures)
//	col, err := eng.Build(ps, shapes.Ellipses{})
//
// The resulting Collection carries the projected geometry, a per-datum
// validity mask, and the color data bound to the surviving data.
// Problems confined to single data, such as unprojectable points or
// degenerate rings, mask those data out of the result; only
// configuration problems fail a build.
//
// The package stays quiet by default. Install a logger with SetLogger
// to see per-build diagnostics.
package shapes
