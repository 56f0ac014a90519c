package geo

import (
	"math"

	"github.com/pathlab/routecompare/pkg/util"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinate) GetLat() float64 {
	return c.Lat
}

func (c Coordinate) GetLon() float64 {
	return c.Lon
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

const (
	earthRadiusM = 6371000.0
)

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

// CalculateHaversineDistance. great-circle distance between two coordinates
// in meters.
func CalculateHaversineDistance(latOne, longOne, latTwo, longTwo float64) float64 {
	latOne = util.DegreeToRadians(latOne)
	longOne = util.DegreeToRadians(longOne)
	latTwo = util.DegreeToRadians(latTwo)
	longTwo = util.DegreeToRadians(longTwo)

	a := havFunction(latOne-latTwo) + math.Cos(latOne)*math.Cos(latTwo)*havFunction(longOne-longTwo)
	c := 2.0 * math.Asin(math.Sqrt(a))
	return earthRadiusM * c
}

// HaversineDistance is CalculateHaversineDistance over Coordinate values.
func HaversineDistance(from, to Coordinate) float64 {
	return CalculateHaversineDistance(from.Lat, from.Lon, to.Lat, to.Lon)
}

// CalculateEuclidianDistanceEquirectangularProj. cheaper flat-earth
// approximation, in meters. fine for nearby points.
func CalculateEuclidianDistanceEquirectangularProj(latOne, longOne, latTwo, longTwo float64) float64 {
	latOne = util.DegreeToRadians(latOne)
	longOne = util.DegreeToRadians(longOne)
	latTwo = util.DegreeToRadians(latTwo)
	longTwo = util.DegreeToRadians(longTwo)

	x := (longTwo - longOne) * math.Cos((latOne+latTwo)/2)
	y := latTwo - latOne
	return math.Sqrt(x*x+y*y) * earthRadiusM
}

// GetDestinationPoint returns the destination point given the starting point,
// bearing (degrees) and distance (meters).
func GetDestinationPoint(lat1, lon1 float64, bearing float64, dist float64) (float64, float64) {
	dr := dist / earthRadiusM

	bearing = util.DegreeToRadians(bearing)

	lat1 = util.DegreeToRadians(lat1)
	lon1 = util.DegreeToRadians(lon1)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(dr) +
		math.Cos(lat1)*math.Sin(dr)*math.Cos(bearing))

	lon2 := lon1 + math.Atan2(math.Sin(bearing)*math.Sin(dr)*math.Cos(lat1),
		math.Cos(dr)-math.Sin(lat1)*math.Sin(lat2))

	return util.RadiansToDegree(lat2), util.RadiansToDegree(lon2)
}
