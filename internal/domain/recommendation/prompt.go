package recommendation

import (
	"strconv"
	"strings"
)

// BuildPrompt renders the instruction block sent to the model. It is a pure
// function of its inputs so identical requests yield byte-identical prompts.
func BuildPrompt(profile LawnProfile, conditions Conditions) string {
	var b strings.Builder
	b.WriteString("As a lawn care expert, provide specific recommendations for the following lawn:\n\n")

	b.WriteString("Lawn Profile:\n")
	b.WriteString("- Size: " + formatNumber(profile.Size) + " sq ft\n")
	b.WriteString("- Grass Type: " + profile.GrassType + "\n")
	b.WriteString("- Sun Exposure: " + profile.SunExposure + "\n")
	b.WriteString("- Location: " + profile.Location + "\n\n")

	b.WriteString("Current Conditions:\n")
	b.WriteString("- Temperature: " + formatNumber(conditions.Temperature) + "°F\n")
	b.WriteString("- Humidity: " + formatNumber(conditions.Humidity) + "%\n")
	b.WriteString("- Weather: " + conditions.Weather + "\n\n")

	b.WriteString("Please provide:\n")
	b.WriteString("1. Immediate care recommendations\n")
	b.WriteString("2. Maintenance tasks for the next week\n")
	b.WriteString("3. Adjustments based on current weather conditions\n\n")
	b.WriteString("Format the response in clear, actionable steps.")
	return b.String()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
