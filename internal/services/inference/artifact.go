package inference

import (
	"bytes"
	"fmt"
	"time"

	"StockPredict/internal/domain/models"
	domsvc "StockPredict/internal/domain/service"

	"gopkg.in/yaml.v3"
)

const (
	KindLinear = "linear"
	KindRemote = "remote"
)

// Artifact is the serialized model document. JSON artifacts decode as well.
type Artifact struct {
	Kind         string        `yaml:"kind"`
	Features     []string      `yaml:"features"`
	Intercept    float64       `yaml:"intercept"`
	Coefficients []float64     `yaml:"coefficients"`
	Endpoint     string        `yaml:"endpoint"`
	Timeout      time.Duration `yaml:"timeout"`
	Retries      int           `yaml:"retries"`
}

// NewDecoder returns a Decoder; defaultTimeout applies to remote artifacts
// that do not set their own.
func NewDecoder(defaultTimeout time.Duration) domsvc.Decoder {
	return func(data []byte) (domsvc.ModelHandle, models.ModelDescriptor, error) {
		a, err := ParseArtifact(data)
		if err != nil {
			return nil, models.ModelDescriptor{}, err
		}
		desc := models.ModelDescriptor{Kind: a.Kind, Features: a.Features}

		switch a.Kind {
		case KindLinear:
			return NewLinearModel(a.Intercept, a.Coefficients), desc, nil
		case KindRemote:
			timeout := a.Timeout
			if timeout <= 0 {
				timeout = defaultTimeout
			}
			return NewRemoteModel(a.Endpoint, timeout, a.Retries+1), desc, nil
		}
		return nil, desc, fmt.Errorf("unknown model kind %q", a.Kind)
	}
}

// ParseArtifact decodes and checks an artifact. Unknown keys are rejected.
func ParseArtifact(data []byte) (*Artifact, error) {
	var a Artifact
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

func (a *Artifact) validate() error {
	if a.Kind == "" {
		return fmt.Errorf("artifact kind is required")
	}
	if err := checkSchema(a.Features); err != nil {
		return err
	}
	switch a.Kind {
	case KindLinear:
		if len(a.Coefficients) != len(a.Features) {
			return fmt.Errorf("linear artifact has %d coefficients for %d features", len(a.Coefficients), len(a.Features))
		}
	case KindRemote:
		if a.Endpoint == "" {
			return fmt.Errorf("remote artifact endpoint is required")
		}
		if a.Retries < 0 {
			return fmt.Errorf("remote artifact retries must be >= 0")
		}
	default:
		return fmt.Errorf("unknown model kind %q", a.Kind)
	}
	return nil
}

// checkSchema requires the artifact's feature order to match the builder's.
func checkSchema(features []string) error {
	if len(features) != len(models.FeatureSchema) {
		return fmt.Errorf("schema mismatch: model features %v, expected %v", features, models.FeatureSchema)
	}
	for i, name := range models.FeatureSchema {
		if features[i] != name {
			return fmt.Errorf("schema mismatch: model features %v, expected %v", features, models.FeatureSchema)
		}
	}
	return nil
}
