// Package posters splits the poster session into upcoming and past.
package posters

import (
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/idilsaglam/cusrr/internal/model"
)

// DefaultLimit is how many posters each section shows.
const DefaultLimit = 5

// DefaultImage is used when a poster has no thumbnail.
const DefaultImage = "https://raw.githubusercontent.com/creativetimofficial/public-assets/master/soft-ui-design-system/assets/img/color-bags.jpg"

// Split returns upcoming posters (soonest first) and past posters (most
// recent first), each cut to limit. A poster at exactly now is upcoming.
// Posters without a time are skipped.
func Split(all []model.Poster, now time.Time, limit int) (upcoming, past []model.Poster) {
	for _, p := range all {
		if p.Time.IsZero() {
			continue
		}
		if p.Time.Before(now) {
			past = append(past, p)
		} else {
			upcoming = append(upcoming, p)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].Time.Before(upcoming[j].Time.Time) })
	sort.SliceStable(past, func(i, j int) bool { return past[i].Time.After(past[j].Time.Time) })
	if limit > 0 {
		if len(upcoming) > limit {
			upcoming = upcoming[:limit]
		}
		if len(past) > limit {
			past = past[:limit]
		}
	}
	return upcoming, past
}

// When describes a poster time for display, e.g. "Nov 4, 13:30 (2 days from now)".
func When(p model.Poster, now time.Time) string {
	if p.Time.IsZero() {
		return ""
	}
	return p.Time.Format("Jan 2, 15:04") + " (" + humanize.RelTime(p.Time.Time, now, "ago", "from now") + ")"
}

// Image returns the thumbnail URL or the default one.
func Image(p model.Poster) string {
	if p.ImageURL == "" {
		return DefaultImage
	}
	return p.ImageURL
}
