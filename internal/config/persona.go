package config

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed config/persona.yaml
var personaFile embed.FS

// GenerationParams are the fixed sampling parameters sent with every
// generation request.
type GenerationParams struct {
	Temperature     float64 `yaml:"temperature"`
	TopK            int     `yaml:"top_k"`
	TopP            float64 `yaml:"top_p"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
}

// Persona is the static assistant configuration: the system instruction
// prepended to every request, the canned acknowledgement that anchors the
// persona in multi-turn histories, and the generation parameters.
type Persona struct {
	Model           string           `yaml:"model"`
	SystemPrompt    string           `yaml:"system_prompt"`
	Acknowledgement string           `yaml:"acknowledgement"`
	Generation      GenerationParams `yaml:"generation"`
}

// LoadPersona parses the embedded persona file.
func LoadPersona() (*Persona, error) {
	data, err := personaFile.ReadFile("config/persona.yaml")
	if err != nil {
		return nil, fmt.Errorf("read persona config: %w", err)
	}

	var p Persona
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal persona config: %w", err)
	}

	if strings.TrimSpace(p.SystemPrompt) == "" {
		return nil, fmt.Errorf("persona config missing system_prompt")
	}
	if p.Model == "" {
		return nil, fmt.Errorf("persona config missing model")
	}

	return &p, nil
}
