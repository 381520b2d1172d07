// Package model loads the pretrained disease predictors and exposes them behind a single
// prediction interface.
package model

import (
	"errors"

	"github.com/Skufu/healthrisk/internal/patient"
)

// Model is a trained predictor. Predict returns one native output per input row: a class
// label for logistic models and trees, a vote share for forests. Implementations are
// immutable after load and safe for concurrent use.
type Model interface {
	Predict(batch []patient.FeatureVector) ([]float64, error)
}

type Disease string

const (
	Diabetes Disease = "diabetes"
	Heart    Disease = "heart"
	Kidney   Disease = "kidney"
)

// Diseases lists every served model in response order.
var Diseases = []Disease{Diabetes, Heart, Kidney}

var (
	ErrUnknownKind     = errors.New("unknown model kind")
	ErrFeatureMismatch = errors.New("artifact feature layout does not match feature vector")
	ErrInvalidArtifact = errors.New("invalid model artifact")
	ErrMissingModel    = errors.New("model not loaded")
)
