// Package inference runs the loaded models against a feature vector and coerces their
// native output into 0/1 class labels.
package inference

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/Skufu/healthrisk/internal/model"
	"github.com/Skufu/healthrisk/internal/patient"
)

var (
	ErrInvalidLabel = errors.New("model output is not a binary class")
	ErrEmptyOutput  = errors.New("model returned no predictions")
	ErrModelPanic   = errors.New("model panicked")
)

// Labels carries one class label per disease model.
type Labels struct {
	Diabetes int `json:"diabetes"`
	Heart    int `json:"heart"`
	Kidney   int `json:"kidney"`
}

// Predict submits a batch of exactly one row and rounds the first output to the nearest
// class. A panic inside the model is returned as an error rather than unwinding the caller.
func Predict(ctx context.Context, m model.Model, x patient.FeatureVector) (label int, err error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	defer func() {
		if r := recover(); r != nil {
			label, err = 0, fmt.Errorf("%w: %v", ErrModelPanic, r)
		}
	}()

	out, err := m.Predict([]patient.FeatureVector{x})
	if err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, ErrEmptyOutput
	}
	return coerce(out[0])
}

func coerce(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidLabel, v)
	}
	label := int(math.Round(v))
	if label != 0 && label != 1 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidLabel, v)
	}
	return label, nil
}

// PredictAll runs the three disease models concurrently. The first failure cancels the
// rest and is returned; there is no partial result.
func PredictAll(ctx context.Context, store *model.Store, x patient.FeatureVector) (Labels, error) {
	var labels Labels
	g, gctx := errgroup.WithContext(ctx)

	targets := []struct {
		disease model.Disease
		dst     *int
	}{
		{model.Diabetes, &labels.Diabetes},
		{model.Heart, &labels.Heart},
		{model.Kidney, &labels.Kidney},
	}
	for _, t := range targets {
		t := t
		g.Go(func() error {
			m, err := store.Get(t.disease)
			if err != nil {
				return err
			}
			label, err := Predict(gctx, m, x)
			if err != nil {
				return fmt.Errorf("%s: %w", t.disease, err)
			}
			*t.dst = label
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Labels{}, err
	}
	return labels, nil
}
