// Package main provides an example of using sun calculations for sunrise/sunset times.
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/devskill-org/metno/daily"
	"github.com/devskill-org/metno/sun"
)

func main() {
	lat := flag.Float64("lat", 56.9496, "latitude")
	lon := flag.Float64("lon", 24.1052, "longitude")
	days := flag.Int("days", 7, "number of days")
	flag.Parse()

	loc := daily.LocationFor(*lat, *lon)
	fmt.Printf("Daylight at (%.4f, %.4f), timezone %s\n\n", *lat, *lon, loc)

	today := time.Now().In(loc)
	for i := 0; i < *days; i++ {
		date := today.AddDate(0, 0, i)
		t := sun.Daylight(date, *lat, *lon)
		if t.Polar != sun.NotPolar {
			fmt.Printf("%s  %s\n", date.Format("Mon 02 Jan"), t.Polar)
			continue
		}
		fmt.Printf("%s  sunrise %s  sunset %s  daylight %s\n",
			date.Format("Mon 02 Jan"),
			t.Sunrise.Format("15:04"),
			t.Sunset.Format("15:04"),
			t.DayLength.Round(time.Minute))
	}

	fmt.Printf("\nSun is up now: %v\n", sun.IsDaylight(time.Now(), *lat, *lon))
}
