package session

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest records what one session presented, for review outside the audio.
type Manifest struct {
	Dataset    string        `yaml:"dataset"`
	Session    int           `yaml:"session"`
	Duration   float64       `yaml:"duration_seconds"`
	Introduced []CardSummary `yaml:"introduced,omitempty"`
	Hidden     []CardSummary `yaml:"hidden,omitempty"`
	Reviews    int           `yaml:"review_cards"`
	Challenges int           `yaml:"challenge_cards"`
}

func writeManifest(path, dataset string, result *Result) error {
	manifest := Manifest{
		Dataset:    dataset,
		Session:    result.SessionNumber,
		Duration:   result.Duration,
		Introduced: result.Introduced,
		Hidden:     result.Hidden,
		Reviews:    result.Reviews,
		Challenges: result.Challenges,
	}

	contents, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("yaml.Marshal > %w", err)
	}
	if err := os.WriteFile(path, contents, 0644); err != nil {
		return fmt.Errorf("os.WriteFile(%s) > %w", path, err)
	}
	return nil
}
