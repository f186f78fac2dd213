package timewindow

import "strings"

// Preference is the time-of-week window a user asked for.
type Preference string

// Preference constants.
const (
	WeekdayMorning Preference = "weekday_morning"
	WeekdayEvening Preference = "weekday_evening"
	Weekend        Preference = "weekend"
	// Any disables time filtering.
	Any Preference = "any"
)

// All lists every accepted value in schema order.
func All() []Preference {
	return []Preference{WeekdayMorning, WeekdayEvening, Weekend, Any}
}

// Strings returns All as strings.
func Strings() []string {
	all := All()
	out := make([]string, len(all))
	for i, p := range all {
		out[i] = string(p)
	}
	return out
}

// IsValid checks if the preference is one of the accepted values.
func (p Preference) IsValid() bool {
	return p == WeekdayMorning || p == WeekdayEvening || p == Weekend || p == Any
}

// IsFilter reports whether p restricts results.
func (p Preference) IsFilter() bool {
	return p != "" && p != Any
}

// Matches applies the cadence heuristic for p. Empty cadence never matches a window.
//
// WeekdayMorning and WeekdayEvening overlap: "weekdays, Tuesday" matches both.
func (p Preference) Matches(cadence string) bool {
	if !p.IsFilter() {
		return true
	}
	c := strings.ToLower(cadence)
	if c == "" {
		return false
	}
	has := func(s string) bool { return strings.Contains(c, s) }

	switch p {
	case WeekdayMorning:
		return has("weekday") && (has("morning") || !has("evening"))
	case WeekdayEvening:
		return (has("weekday") && has("evening")) ||
			has("tuesday") || has("wednesday") || has("thursday")
	case Weekend:
		return has("weekend") || has("saturday") || has("sunday")
	default:
		return false
	}
}
