package daily

import (
	"fmt"
	"sync"
	"time"

	"github.com/ringsaturn/tzf"
)

var (
	finder     tzf.F
	finderErr  error
	finderOnce sync.Once
)

// The finder holds the whole timezone polygon set in memory, so it is
// built once and shared.
func defaultFinder() (tzf.F, error) {
	finderOnce.Do(func() {
		f, err := tzf.NewDefaultFinder()
		if err != nil {
			finderErr = fmt.Errorf("failed to initialize timezone finder: %w", err)
			return
		}
		finder = f
	})
	return finder, finderErr
}

// TimezoneName returns the IANA timezone name for the given coordinates,
// e.g. "Europe/Oslo".
func TimezoneName(lat, lon float64) (string, error) {
	f, err := defaultFinder()
	if err != nil {
		return "", err
	}
	name := f.GetTimezoneName(lon, lat)
	if name == "" {
		return "", fmt.Errorf("could not determine timezone for coordinates lat=%f, lon=%f", lat, lon)
	}
	return name, nil
}

// LocationFor resolves the local timezone of a coordinate, falling back to
// UTC when it cannot be determined or loaded.
func LocationFor(lat, lon float64) *time.Location {
	name, err := TimezoneName(lat, lon)
	if err != nil {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
