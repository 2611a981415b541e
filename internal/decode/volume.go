package decode

// ResolveVolume estimates stool volume from the set of canonical tags present.
// Rules are checked in order and the first match wins, so {low, high} without
// medium resolves to 1.0.
func ResolveVolume(tags []string) float64 {
	has := make(map[string]bool, len(tags))
	for _, t := range tags {
		has[t] = true
	}

	switch {
	case has["tiny"] && has["low"]:
		return 0.5
	case has["tiny"]:
		return 0.1
	case has["low"] && has["medium"]:
		return 1.5
	case has["low"]:
		return 1.0
	case has["medium"] && has["high"]:
		return 2.5
	case has["medium"]:
		return 2.0
	case has["high"]:
		return 3.0
	default:
		return 0.0
	}
}
