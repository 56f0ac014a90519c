package geo

import (
	"github.com/twpayne/go-polyline"
)

// PolylineFromCoords encodes a path into a google encoded polyline string.
func PolylineFromCoords(coords []Coordinate) string {
	points := make([][]float64, 0, len(coords))
	for _, c := range coords {
		points = append(points, []float64{c.Lat, c.Lon})
	}
	return string(polyline.EncodeCoords(points))
}

// CoordsFromPolyline decodes an encoded polyline string back into a path.
func CoordsFromPolyline(encoded string) ([]Coordinate, error) {
	points, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, err
	}
	coords := make([]Coordinate, 0, len(points))
	for _, p := range points {
		coords = append(coords, NewCoordinate(p[0], p[1]))
	}
	return coords, nil
}
