package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Skufu/healthrisk/internal/patient"
)

const logisticArtifact = `{
	"kind": "logistic",
	"features": ["Pregnancies","Glucose","BloodPressure","SkinThickness","Insulin","BMI","DPF","Age"],
	"coefficients": [0, 0.1, 0, 0, 0, 0, 0, 0],
	"intercept": -14
}`

const treeArtifact = `{
	"kind": "tree",
	"nodes": [
		{"feature": 5, "threshold": 30, "left": 1, "right": 2},
		{"leaf": true, "value": 0},
		{"leaf": true, "value": 1}
	]
}`

const forestArtifact = `{
	"kind": "forest",
	"trees": [
		{"nodes": [{"feature": 7, "threshold": 45, "left": 1, "right": 2}, {"leaf": true, "value": 0}, {"leaf": true, "value": 1}]},
		{"nodes": [{"feature": 1, "threshold": 140, "left": 1, "right": 2}, {"leaf": true, "value": 0}, {"leaf": true, "value": 1}]},
		{"nodes": [{"leaf": true, "value": 0}]}
	]
}`

func writeArtifacts(t *testing.T, contents map[Disease]string) string {
	t.Helper()
	dir := t.TempDir()
	for d, body := range contents {
		if err := os.WriteFile(filepath.Join(dir, DefaultArtifacts[d]), []byte(body), 0o600); err != nil {
			t.Fatalf("write artifact: %v", err)
		}
	}
	return dir
}

func TestLoadAllVariants(t *testing.T) {
	dir := writeArtifacts(t, map[Disease]string{
		Diabetes: logisticArtifact,
		Heart:    treeArtifact,
		Kidney:   forestArtifact,
	})

	store, err := Load(ArtifactPaths(dir, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.Diabetes().(*Logistic); !ok {
		t.Fatalf("expected logistic diabetes model, got %T", store.Diabetes())
	}
	if _, ok := store.Heart().(*DecisionTree); !ok {
		t.Fatalf("expected tree heart model, got %T", store.Heart())
	}
	if _, ok := store.Kidney().(*Forest); !ok {
		t.Fatalf("expected forest kidney model, got %T", store.Kidney())
	}
	for _, d := range Diseases {
		if _, err := store.Get(d); err != nil {
			t.Fatalf("get %s: %v", d, err)
		}
	}
}

func TestLoadMissingArtifactFails(t *testing.T) {
	dir := writeArtifacts(t, map[Disease]string{
		Diabetes: logisticArtifact,
		Heart:    treeArtifact,
	})
	if _, err := Load(ArtifactPaths(dir, nil)); err == nil {
		t.Fatal("expected error when kidney artifact is missing")
	}
}

func TestLoadCorruptArtifactFails(t *testing.T) {
	dir := writeArtifacts(t, map[Disease]string{
		Diabetes: logisticArtifact,
		Heart:    "{not json",
		Kidney:   forestArtifact,
	})
	_, err := Load(ArtifactPaths(dir, nil))
	if !errors.Is(err, ErrInvalidArtifact) {
		t.Fatalf("expected ErrInvalidArtifact, got %v", err)
	}
}

func TestDecodeRejects(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    error
	}{
		{"unknown kind", `{"kind":"svm"}`, ErrUnknownKind},
		{"transposed columns", `{"kind":"logistic","features":["Glucose","Pregnancies","BloodPressure","SkinThickness","Insulin","BMI","DPF","Age"],"coefficients":[0,0,0,0,0,0,0,0]}`, ErrFeatureMismatch},
		{"short layout", `{"kind":"logistic","features":["Pregnancies"],"coefficients":[0,0,0,0,0,0,0,0]}`, ErrFeatureMismatch},
		{"coefficient count", `{"kind":"logistic","coefficients":[1,2,3]}`, ErrInvalidArtifact},
		{"bad threshold", `{"kind":"logistic","coefficients":[0,0,0,0,0,0,0,0],"threshold":1.5}`, ErrInvalidArtifact},
		{"empty tree", `{"kind":"tree","nodes":[]}`, ErrInvalidArtifact},
		{"feature out of range", `{"kind":"tree","nodes":[{"feature":9,"left":1,"right":2},{"leaf":true},{"leaf":true}]}`, ErrInvalidArtifact},
		{"cyclic child", `{"kind":"tree","nodes":[{"feature":0,"left":0,"right":1},{"leaf":true}]}`, ErrInvalidArtifact},
		{"empty forest", `{"kind":"forest","trees":[]}`, ErrInvalidArtifact},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode([]byte(tc.payload)); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLogisticPredict(t *testing.T) {
	m, err := Decode([]byte(logisticArtifact))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := m.Predict([]patient.FeatureVector{
		{0, 100, 0, 0, 0, 0, 0, 0},
		{0, 180, 0, 0, 0, 0, 0, 0},
	})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if out[0] != 0 || out[1] != 1 {
		t.Fatalf("expected [0 1], got %v", out)
	}
}

func TestTreePredict(t *testing.T) {
	m, err := Decode([]byte(treeArtifact))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := m.Predict([]patient.FeatureVector{
		{0, 0, 0, 0, 0, 30, 0, 0},
		{0, 0, 0, 0, 0, 30.1, 0, 0},
	})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if out[0] != 0 || out[1] != 1 {
		t.Fatalf("expected [0 1], got %v", out)
	}
}

func TestForestPredictVoteShare(t *testing.T) {
	m, err := Decode([]byte(forestArtifact))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := m.Predict([]patient.FeatureVector{
		{0, 150, 0, 0, 0, 0, 0, 50},
		{0, 150, 0, 0, 0, 0, 0, 30},
		{0, 100, 0, 0, 0, 0, 0, 30},
	})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	want := []float64{2.0 / 3.0, 1.0 / 3.0, 0}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("row %d: expected %v, got %v", i, want[i], out[i])
		}
	}
}

func TestArtifactPathsOverrides(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "custom.json")
	paths := ArtifactPaths("models", map[Disease]string{Heart: "heart_v2.json", Kidney: abs})
	if paths[Diabetes] != filepath.Join("models", "diabetes_model.json") {
		t.Fatalf("unexpected diabetes path %s", paths[Diabetes])
	}
	if paths[Heart] != filepath.Join("models", "heart_v2.json") {
		t.Fatalf("unexpected heart path %s", paths[Heart])
	}
	if paths[Kidney] != abs {
		t.Fatalf("unexpected kidney path %s", paths[Kidney])
	}
}

func TestNewStoreRequiresEveryDisease(t *testing.T) {
	_, err := NewStore(map[Disease]Model{Diabetes: &Logistic{}})
	if !errors.Is(err, ErrMissingModel) {
		t.Fatalf("expected ErrMissingModel, got %v", err)
	}
}
