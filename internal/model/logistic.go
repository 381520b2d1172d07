package model

import (
	"fmt"
	"math"

	"github.com/Skufu/healthrisk/internal/patient"
)

// Logistic is a linear classifier: label 1 when sigmoid(w·x + b) >= Threshold.
type Logistic struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Threshold    float64   `json:"threshold"`
}

func (l *Logistic) validate() error {
	if len(l.Coefficients) != patient.FeatureCount {
		return fmt.Errorf("%w: logistic expects %d coefficients, got %d", ErrInvalidArtifact, patient.FeatureCount, len(l.Coefficients))
	}
	if l.Threshold == 0 {
		l.Threshold = 0.5
	}
	if l.Threshold <= 0 || l.Threshold >= 1 {
		return fmt.Errorf("%w: logistic threshold %v outside (0,1)", ErrInvalidArtifact, l.Threshold)
	}
	return nil
}

// Probability returns the positive-class probability for a single row.
func (l *Logistic) Probability(x patient.FeatureVector) float64 {
	score := l.Intercept
	for i, coef := range l.Coefficients {
		score += coef * x[i]
	}
	return 1 / (1 + math.Exp(-score))
}

func (l *Logistic) Predict(batch []patient.FeatureVector) ([]float64, error) {
	out := make([]float64, len(batch))
	for i, x := range batch {
		if l.Probability(x) >= l.Threshold {
			out[i] = 1
		}
	}
	return out, nil
}
