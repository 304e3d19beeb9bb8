package recommendation

import (
	"fmt"
	"strings"
)

// Validation messages returned to callers as-is.
const (
	// MsgMissingFields is returned when profile or conditions is absent.
	MsgMissingFields = "Missing required fields: profile and conditions."
	// MsgMissingProfile prefixes the list of missing profile fields.
	MsgMissingProfile = "Missing required profile fields"
	// MsgMissingConditions prefixes the list of missing conditions fields.
	MsgMissingConditions = "Missing required conditions fields"
	// MsgInvalidLawnSize is returned for a non-positive size.
	MsgInvalidLawnSize = "Invalid lawn size."
	// MsgInvalidClimateData is returned for humidity or temperature out of range.
	MsgInvalidClimateData = "Invalid temperature or humidity values."

	minTemperatureF = -100
	maxTemperatureF = 150
)

// Validate checks presence before ranges, profile before conditions, and
// returns the first violation only.
func Validate(req Request) (LawnProfile, Conditions, error) {
	if req.Profile == nil || req.Conditions == nil {
		return LawnProfile{}, Conditions{}, newError(KindValidation, MsgMissingFields, nil)
	}

	if missing := missingProfileFields(req.Profile); len(missing) > 0 {
		return LawnProfile{}, Conditions{}, newError(KindValidation, fmt.Sprintf("%s: %s", MsgMissingProfile, strings.Join(missing, ", ")), nil)
	}
	if missing := missingConditionsFields(req.Conditions); len(missing) > 0 {
		return LawnProfile{}, Conditions{}, newError(KindValidation, fmt.Sprintf("%s: %s", MsgMissingConditions, strings.Join(missing, ", ")), nil)
	}

	// Strings are only trimmed for the blank check; the prompt gets them verbatim.
	profile := LawnProfile{
		Size:        *req.Profile.Size,
		GrassType:   *req.Profile.GrassType,
		SunExposure: *req.Profile.SunExposure,
		Location:    *req.Profile.Location,
	}
	conditions := Conditions{
		Temperature: *req.Conditions.Temperature,
		Humidity:    *req.Conditions.Humidity,
		Weather:     *req.Conditions.Weather,
	}

	if profile.Size <= 0 {
		return LawnProfile{}, Conditions{}, newError(KindValidation, MsgInvalidLawnSize, nil)
	}
	if conditions.Humidity < 0 || conditions.Humidity > 100 ||
		conditions.Temperature < minTemperatureF || conditions.Temperature > maxTemperatureF {
		return LawnProfile{}, Conditions{}, newError(KindValidation, MsgInvalidClimateData, nil)
	}

	return profile, conditions, nil
}

func missingProfileFields(p *ProfileInput) []string {
	var missing []string
	if p.Size == nil {
		missing = append(missing, "size")
	}
	if blank(p.GrassType) {
		missing = append(missing, "grassType")
	}
	if blank(p.SunExposure) {
		missing = append(missing, "sunExposure")
	}
	if blank(p.Location) {
		missing = append(missing, "location")
	}
	return missing
}

func missingConditionsFields(c *ConditionsInput) []string {
	var missing []string
	if c.Temperature == nil {
		missing = append(missing, "temperature")
	}
	if c.Humidity == nil {
		missing = append(missing, "humidity")
	}
	if blank(c.Weather) {
		missing = append(missing, "weather")
	}
	return missing
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
