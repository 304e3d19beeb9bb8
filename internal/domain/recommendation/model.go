package recommendation

import (
	"strings"

	"github.com/yanqian/lawn-advisor/pkg/metrics"
)

const (
	// DefaultModel is used when the configuration leaves the model blank.
	DefaultModel = "claude-3-haiku-20240307"
	// MaxTokens is the fixed completion budget for one recommendation.
	MaxTokens = 1024
	// Temperature is the fixed sampling temperature.
	Temperature = 0.7

	// UnconfiguredMessage is returned as ordinary text when no API key was provided.
	UnconfiguredMessage = "AI recommendations not available - API key not configured."
)

// LawnProfile describes the lawn being cared for. Size is in square feet.
type LawnProfile struct {
	Size        float64 `json:"size"`
	GrassType   string  `json:"grassType"`
	SunExposure string  `json:"sunExposure"`
	Location    string  `json:"location"`
}

// Conditions are the current weather readings. Temperature is in °F and
// humidity a percentage.
type Conditions struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Weather     string  `json:"weather"`
}

// ProfileInput is the wire form of LawnProfile; nil fields were not sent.
type ProfileInput struct {
	Size        *float64 `json:"size"`
	GrassType   *string  `json:"grassType"`
	SunExposure *string  `json:"sunExposure"`
	Location    *string  `json:"location"`
}

// ConditionsInput is the wire form of Conditions; nil fields were not sent.
type ConditionsInput struct {
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	Weather     *string  `json:"weather"`
}

// Request is the payload accepted by the recommendation endpoint.
type Request struct {
	Profile    *ProfileInput    `json:"profile"`
	Conditions *ConditionsInput `json:"conditions"`
}

// NewRequest builds a fully populated Request from validated values.
func NewRequest(profile LawnProfile, conditions Conditions) Request {
	return Request{
		Profile: &ProfileInput{
			Size:        &profile.Size,
			GrassType:   &profile.GrassType,
			SunExposure: &profile.SunExposure,
			Location:    &profile.Location,
		},
		Conditions: &ConditionsInput{
			Temperature: &conditions.Temperature,
			Humidity:    &conditions.Humidity,
			Weather:     &conditions.Weather,
		},
	}
}

// Result is the outcome of a successful pipeline run. An empty Text is a
// valid result that callers must treat as "no recommendation available".
type Result struct {
	Text   string
	Model  string
	Usage  metrics.TokenUsage
	Cached bool
}

// Config is the immutable service configuration. A nil APIKey means no
// credential was provided and the service runs unconfigured.
type Config struct {
	APIKey *string
	Model  string
}

// ModelOrDefault resolves the model identifier used for upstream calls.
func ModelOrDefault(model string) string {
	if trimmed := strings.TrimSpace(model); trimmed != "" {
		return trimmed
	}
	return DefaultModel
}
