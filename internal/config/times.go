package config

import (
	"time"
)

// Time layouts accepted for general.times values, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DeriveTimes computes the derived time variables from the document's
// general.times section.
//
// basetime yields YYYY/MM/DD/HH, validtime yields VYYYY/VMM/VDD/VHH.
// A missing or unparsable source time simply contributes no entries;
// per-case configurations without time metadata still expand cleanly.
func (d *Document) DeriveTimes() map[string]any {
	out := map[string]any{}

	if t, ok := d.parseTime("general.times.basetime"); ok {
		out["YYYY"] = t.Format("2006")
		out["MM"] = t.Format("01")
		out["DD"] = t.Format("02")
		out["HH"] = t.Format("15")
		out["basetime"] = t.Format(time.RFC3339)
	}
	if t, ok := d.parseTime("general.times.validtime"); ok {
		out["VYYYY"] = t.Format("2006")
		out["VMM"] = t.Format("01")
		out["VDD"] = t.Format("02")
		out["VHH"] = t.Format("15")
		out["validtime"] = t.Format(time.RFC3339)
	}
	return out
}

// DeriveTimesSection wraps DeriveTimes under a "times" table so the result
// can be merged back onto the document before macro expansion.
func (d *Document) DeriveTimesSection() map[string]any {
	return map[string]any{"times": d.DeriveTimes()}
}

func (d *Document) parseTime(key string) (time.Time, bool) {
	v, ok := d.Get(key)
	if !ok {
		return time.Time{}, false
	}
	if t, ok := v.(time.Time); ok {
		return t, true
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
