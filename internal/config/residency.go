package config

import (
	"strings"
)

var residencyOrigins = map[string]string{
	"us":           "https://api.elevenlabs.io",
	"eu-residency": "https://api.eu.residency.elevenlabs.io",
	"in-residency": "https://api.in.residency.elevenlabs.io",
	"global":       "https://api.elevenlabs.io",
}

// Residencies lists the accepted ELEVENLABS_API_RESIDENCY values.
var Residencies = []string{"us", "eu-residency", "in-residency", "global"}

// APIOrigin maps a residency to the API origin. Blank means "us".
func APIOrigin(residency string) (string, error) {
	r := strings.ToLower(strings.TrimSpace(residency))
	if r == "" {
		r = DefaultResidency
	}
	origin, ok := residencyOrigins[r]
	if !ok {
		return "", configErrorf("%s must be one of '%s'", EnvResidency, strings.Join(Residencies, "', '"))
	}
	return origin, nil
}
