package domain

import "strings"

// noEffectPlaceholder is the literal some exports write into effect columns
// to mean "no effect". It counts as blank, not as a present indicator.
const noEffectPlaceholder = "none"

// remainsSentStatus is the command-center status string meaning biological
// remains were forwarded for species confirmation.
const remainsSentStatus = "sent to smithsonian"

// classifyPilotReported reports whether an aircraft registration was recorded.
// The empty string and the "unknown" sentinel (any casing) do not count.
func classifyPilotReported(registration string) bool {
	r := strings.ToLower(strings.TrimSpace(registration))
	return r != "" && r != "unknown"
}

// classifyRemainsSent decodes the source-specific remains coding: a boolean
// column in the regulatory export, a status string in the internal one.
func classifyRemainsSent(source Source, remains string) bool {
	r := strings.ToLower(strings.TrimSpace(remains))
	switch source {
	case SourceRegulatory:
		return r == "true" || r == "1" || r == "yes"
	case SourceInternal:
		return r == remainsSentStatus
	default:
		return false
	}
}

// classifyDamaging decodes the source-specific damage indicator. Only an
// explicit positive counts; blank and "No" are both non-damaging.
func classifyDamaging(source Source, damage string) bool {
	d := strings.ToLower(strings.TrimSpace(damage))
	switch source {
	case SourceRegulatory:
		return d == "yes"
	case SourceInternal:
		return d == "true"
	default:
		return false
	}
}

// classifyDisruptive is a strict OR over the six impact indicators: damage
// flag, flight-effect text, other-effect text, repair cost, downtime hours,
// other cost. A record with all six absent is not disruptive.
func classifyDisruptive(damaging bool, flightEffect, otherEffect string, repairCost, downtimeHours, otherCost *float64) bool {
	return damaging ||
		effectPresent(flightEffect) ||
		effectPresent(otherEffect) ||
		repairCost != nil ||
		downtimeHours != nil ||
		otherCost != nil
}

// effectPresent treats blank and the "no effect" placeholder as absent.
func effectPresent(effect string) bool {
	e := strings.ToLower(strings.TrimSpace(effect))
	return e != "" && e != noEffectPlaceholder
}

// effectText trims an effect column and blanks the placeholder so the
// canonical record never carries it.
func effectText(raw string) string {
	e := strings.TrimSpace(raw)
	if strings.EqualFold(e, noEffectPlaceholder) {
		return ""
	}
	return e
}
