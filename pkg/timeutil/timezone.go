// Package timeutil holds small pure time helpers shared across services.
package timeutil

import "time"

// DefaultZone is used when no zone name is supplied.
const DefaultZone = "America/Lima"

// ToLocal converts a UTC timestamp to the named IANA zone. An unknown
// zone name falls back to returning the UTC timestamp unchanged.
func ToLocal(t time.Time, zoneName string) time.Time {
	if zoneName == "" {
		zoneName = DefaultZone
	}
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		return t.UTC()
	}
	return t.In(loc)
}
