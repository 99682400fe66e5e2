// Package format renders forecast figures for humans.
package format

import (
	"fmt"
	"math"
	"time"
)

// Date renders t in loc with weekday, date and hour.
func Date(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("Mon 02 Jan 2006 15:04")
}

// Days renders a day count with one decimal.
func Days(d float64) string {
	return fmt.Sprintf("%.1f days", d)
}

// Until renders the gap from now to t, coarsened to the largest unit.
func Until(now, t time.Time) string {
	d := t.Sub(now)
	if d <= 0 {
		return "now"
	}
	switch {
	case d < time.Hour:
		return fmt.Sprintf("in %d min", int(math.Ceil(d.Minutes())))
	case d < 48*time.Hour:
		return fmt.Sprintf("in %d h", int(math.Round(d.Hours())))
	case d < 120*24*time.Hour:
		return fmt.Sprintf("in %d days", int(math.Round(d.Hours()/24)))
	default:
		return fmt.Sprintf("in %.1f years", d.Hours()/24/365.25)
	}
}

// Percent renders an accuracy figure.
func Percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}
