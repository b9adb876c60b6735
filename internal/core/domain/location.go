package domain

import "fmt"

// DefaultLocation is attached to new todos that arrive without a coordinate.
var DefaultLocation = Location{Latitude: 37.5665, Longitude: 126.9780}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (l Location) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidLocation, l.Latitude)
	}

	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidLocation, l.Longitude)
	}

	return nil
}

// LocationFrom builds a location from two nullable columns. Both must be set.
func LocationFrom(lat, lng *float64) *Location {
	if lat == nil || lng == nil {
		return nil
	}

	return &Location{Latitude: *lat, Longitude: *lng}
}

// Columns splits a location into nullable column values.
func (l *Location) Columns() (lat, lng *float64) {
	if l == nil {
		return nil, nil
	}

	latitude, longitude := l.Latitude, l.Longitude
	return &latitude, &longitude
}
