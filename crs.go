package shapes

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
)

// CRS identifies a coordinate reference system, either by EPSG code or
// by a proj4 definition string. The zero value is invalid.
//
// CRS values are small and comparable; two values resolving to the same
// canonical proj4 definition behave identically as cache keys.
type CRS struct {
	epsg int
	def  string // canonical proj4 fields, space separated, sorted
}

// EPSG returns the CRS for a numeric EPSG (or Esri) code. Codes outside
// the built-in table fail later, at resolve time.
func EPSG(code int) CRS {
	return CRS{epsg: code, def: epsgDefs[code]}
}

// Proj4 returns the CRS for a proj4 definition string such as
// "+proj=longlat +datum=WGS84 +no_defs".
func Proj4(def string) CRS {
	return CRS{def: canonicalDef(def)}
}

// UTM returns the WGS84 UTM CRS for the given zone, in the southern
// hemisphere when south is true.
func UTM(zone int, south bool) CRS {
	def := fmt.Sprintf("+proj=utm +zone=%d +datum=WGS84 +units=m +no_defs", zone)
	if south {
		def += " +south"
	}
	return Proj4(def)
}

// Orthographic returns an orthographic projection centered on the given
// longitude and latitude. Only the earth hemisphere facing the viewer
// projects to finite coordinates.
func Orthographic(lon0, lat0 float64) CRS {
	return Proj4(fmt.Sprintf(
		"+proj=ortho +lat_0=%v +lon_0=%v +x_0=0 +y_0=0 +ellps=WGS84 +units=m +no_defs",
		lat0, lon0))
}

// Geostationary returns a geostationary satellite view projection
// centered on the given longitude, at the standard satellite height.
func Geostationary(lon0 float64) CRS {
	return Proj4(fmt.Sprintf(
		"+proj=geos +lon_0=%v +h=35785831 +x_0=0 +y_0=0 +ellps=WGS84 +units=m +no_defs",
		lon0))
}

// NearsidePerspective returns a general perspective view projection from
// a viewpoint at height h meters above (lon0, lat0).
func NearsidePerspective(lon0, lat0, h float64) CRS {
	return Proj4(fmt.Sprintf(
		"+proj=nsper +lat_0=%v +lon_0=%v +h=%v +x_0=0 +y_0=0 +ellps=WGS84 +units=m +no_defs",
		lat0, lon0, h))
}

// IsZero reports whether the CRS is the invalid zero value.
func (c CRS) IsZero() bool { return c.epsg == 0 && c.def == "" }

// Equal reports whether two CRS values resolve to the same system.
func (c CRS) Equal(o CRS) bool {
	if c.def != "" || o.def != "" {
		return c.def == o.def
	}
	return c.epsg == o.epsg
}

// String renders the CRS for logs and error messages.
func (c CRS) String() string {
	if c.epsg != 0 {
		return fmt.Sprintf("EPSG:%d", c.epsg)
	}
	if c.def == "" {
		return "CRS(zero)"
	}
	return c.def
}

// resolveDef returns the canonical proj4 definition, or ErrCRSResolve
// for EPSG codes outside the built-in table.
func (c CRS) resolveDef() (string, error) {
	if c.def != "" {
		return c.def, nil
	}
	if c.epsg != 0 {
		return "", fmt.Errorf("%w: no proj4 definition for EPSG:%d", ErrCRSResolve, c.epsg)
	}
	return "", fmt.Errorf("%w: zero CRS", ErrCRSResolve)
}

// Family returns the proj4 projection family ("longlat", "merc", "ortho",
// ...), or "" when it cannot be determined.
func (c CRS) Family() string {
	return c.param("proj")
}

// IsGeographic reports whether coordinates are geodetic degrees rather
// than projected meters.
func (c CRS) IsGeographic() bool {
	switch c.Family() {
	case "longlat", "lonlat", "latlong", "latlon":
		return true
	}
	return false
}

// IsAzimuthal reports whether the projection is one of the whole-disk
// azimuthal views (orthographic, geostationary, nearside perspective)
// that hide the far hemisphere by construction.
func (c CRS) IsAzimuthal() bool {
	switch c.Family() {
	case "ortho", "geos", "nsper":
		return true
	}
	return false
}

// CentralMeridian returns the +lon_0 parameter in degrees, or 0 when the
// definition does not carry one.
func (c CRS) CentralMeridian() float64 {
	v, err := strconv.ParseFloat(c.param("lon_0"), 64)
	if err != nil {
		return 0
	}
	return v
}

// Bounds returns the area-of-use extent in the CRS's own units for
// families with a well-known world extent, or nil when unbounded.
func (c CRS) Bounds() *geom.Bounds {
	if c.IsGeographic() {
		return &geom.Bounds{
			Min: geom.Point{X: -180, Y: -90},
			Max: geom.Point{X: 180, Y: 90},
		}
	}
	const halfWorld = 20037508.342789244
	switch c.Family() {
	case "merc":
		return &geom.Bounds{
			Min: geom.Point{X: -halfWorld, Y: -halfWorld},
			Max: geom.Point{X: halfWorld, Y: halfWorld},
		}
	case "eqc":
		return &geom.Bounds{
			Min: geom.Point{X: -halfWorld, Y: -halfWorld / 2},
			Max: geom.Point{X: halfWorld, Y: halfWorld / 2},
		}
	case "moll":
		return &geom.Bounds{
			Min: geom.Point{X: -18040095.696147293, Y: -9020047.848073646},
			Max: geom.Point{X: 18040095.696147293, Y: 9020047.848073646},
		}
	case "robin":
		return &geom.Bounds{
			Min: geom.Point{X: -17005833.330525216, Y: -8625154.471849944},
			Max: geom.Point{X: 17005833.330525216, Y: 8625154.471849944},
		}
	}
	return nil
}

// param extracts a "+name=value" field from the definition.
func (c CRS) param(name string) string {
	def := c.def
	if def == "" {
		def = epsgDefs[c.epsg]
	}
	prefix := "+" + name + "="
	for _, f := range strings.Fields(def) {
		if strings.HasPrefix(f, prefix) {
			return f[len(prefix):]
		}
	}
	return ""
}

// canonicalDef normalizes a proj4 string so that definitions differing
// only in token order or spacing compare and cache as equal.
func canonicalDef(def string) string {
	fields := strings.Fields(def)
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

// epsgDefs maps the EPSG and Esri codes commonly used for plotting to
// proj4 definitions. Keys cover geodetic WGS84, the global cylindrical
// and pseudocylindrical systems, the polar stereographic pair, and the
// European equal-area grid.
var epsgDefs = map[int]string{
	4326:  canonicalDef("+proj=longlat +datum=WGS84 +no_defs"),
	3857:  canonicalDef("+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +x_0=0.0 +y_0=0 +k=1.0 +units=m +nadgrids=@null +no_defs"),
	4087:  canonicalDef("+proj=eqc +lat_ts=0 +lat_0=0 +lon_0=0 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs"),
	3035:  canonicalDef("+proj=laea +lat_0=52 +lon_0=10 +x_0=4321000 +y_0=3210000 +ellps=GRS80 +units=m +no_defs"),
	3413:  canonicalDef("+proj=stere +lat_0=90 +lat_ts=70 +lon_0=-45 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs"),
	3031:  canonicalDef("+proj=stere +lat_0=-90 +lat_ts=-71 +lon_0=0 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs"),
	54009: canonicalDef("+proj=moll +lon_0=0 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs"),
	54030: canonicalDef("+proj=robin +lon_0=0 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs"),
}
