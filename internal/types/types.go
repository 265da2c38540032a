// README: Common identifier and coordinate types used across modules.
package types

type ID string

// Point is a WGS84 coordinate pair in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}
