package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Skufu/healthrisk/internal/patient"
)

// DefaultArtifacts are the artifact file names looked up in the model directory.
var DefaultArtifacts = map[Disease]string{
	Diabetes: "diabetes_model.json",
	Heart:    "heart_model.json",
	Kidney:   "kidney_model.json",
}

// Store holds one loaded model per disease. It is built once at startup and never
// mutated, so handlers share it without locking.
type Store struct {
	models map[Disease]Model
}

// NewStore wraps already constructed models. Every disease in Diseases must be present.
func NewStore(models map[Disease]Model) (*Store, error) {
	s := &Store{models: make(map[Disease]Model, len(Diseases))}
	for _, d := range Diseases {
		m, ok := models[d]
		if !ok || m == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingModel, d)
		}
		s.models[d] = m
	}
	return s, nil
}

// Load reads every artifact in paths. Any failure aborts the whole load.
func Load(paths map[Disease]string) (*Store, error) {
	models := make(map[Disease]Model, len(Diseases))
	for _, d := range Diseases {
		path, ok := paths[d]
		if !ok || path == "" {
			return nil, fmt.Errorf("%w: no artifact path for %s", ErrMissingModel, d)
		}
		m, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s model: %w", d, err)
		}
		models[d] = m
	}
	return NewStore(models)
}

// ArtifactPaths resolves DefaultArtifacts inside dir, with overrides taking precedence.
// Relative overrides are resolved against dir as well.
func ArtifactPaths(dir string, overrides map[Disease]string) map[Disease]string {
	paths := make(map[Disease]string, len(Diseases))
	for _, d := range Diseases {
		name := DefaultArtifacts[d]
		if o := overrides[d]; o != "" {
			name = o
		}
		if filepath.IsAbs(name) {
			paths[d] = name
		} else {
			paths[d] = filepath.Join(dir, name)
		}
	}
	return paths
}

func (s *Store) Get(d Disease) (Model, error) {
	m, ok := s.models[d]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingModel, d)
	}
	return m, nil
}

func (s *Store) Diabetes() Model { return s.models[Diabetes] }
func (s *Store) Heart() Model    { return s.models[Heart] }
func (s *Store) Kidney() Model   { return s.models[Kidney] }

type envelope struct {
	Kind     string   `json:"kind"`
	Features []string `json:"features"`
}

// LoadFile reads a single JSON artifact.
func LoadFile(path string) (Model, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return Decode(payload)
}

// Decode parses an artifact payload into its concrete model.
func Decode(payload []byte) (Model, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if err := checkFeatures(env.Features); err != nil {
		return nil, err
	}

	switch env.Kind {
	case "logistic":
		m := &Logistic{}
		if err := json.Unmarshal(payload, m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
		}
		if err := m.validate(); err != nil {
			return nil, err
		}
		return m, nil
	case "tree":
		m := &DecisionTree{}
		if err := json.Unmarshal(payload, m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
		}
		if err := m.validate(); err != nil {
			return nil, err
		}
		return m, nil
	case "forest":
		m := &Forest{}
		if err := json.Unmarshal(payload, m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
		}
		if err := m.validate(); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, env.Kind)
	}
}

// checkFeatures accepts an absent layout; a declared one must match column order exactly.
func checkFeatures(features []string) error {
	if len(features) == 0 {
		return nil
	}
	if len(features) != patient.FeatureCount {
		return fmt.Errorf("%w: %d columns declared", ErrFeatureMismatch, len(features))
	}
	for i, name := range features {
		if name != patient.Columns[i] {
			return fmt.Errorf("%w: column %d is %q, want %q", ErrFeatureMismatch, i, name, patient.Columns[i])
		}
	}
	return nil
}
