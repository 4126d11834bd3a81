package config

import (
	"errors"
	"testing"

	"github.com/cognicore/phonosim/pkg/phonosim/internalerr"
	"github.com/cognicore/phonosim/pkg/phonosim/lm"
)

func TestLoaderDefaults(t *testing.T) {
	loader := Loader{}

	comp, err := loader.Load()
	if err != nil {
		t.Fatalf("Empty loader should succeed: %v", err)
	}

	if comp.Estimator == nil {
		t.Fatal("Should have estimator")
	}
	if comp.Estimator.Name() != lm.AbsoluteDiscountName {
		t.Errorf("Expected absdisc, got %s", comp.Estimator.Name())
	}
	if comp.Reader == nil {
		t.Error("Should have reader")
	}
}

func TestLoaderFromFile(t *testing.T) {
	path := writeExperiment(t, "estimator: additive\nmin_length: 5\n")

	loader := Loader{ExperimentPath: path}
	comp, err := loader.Load()
	if err != nil {
		t.Fatalf("Valid file should load: %v", err)
	}

	if comp.Estimator.Name() != lm.AdditiveName {
		t.Errorf("Expected additive, got %s", comp.Estimator.Name())
	}
	if comp.Reader.Options().MinLength != 5 {
		t.Errorf("Reader should use min_length 5, got %d", comp.Reader.Options().MinLength)
	}
}

func TestLoaderNonExistentFile(t *testing.T) {
	loader := Loader{ExperimentPath: "/nonexistent/experiment.yaml"}

	if _, err := loader.Load(); err == nil {
		t.Error("Should error on nonexistent experiment")
	}
}

func TestLoaderOverride(t *testing.T) {
	loader := Loader{
		Override: func(e *Experiment) {
			e.Discount = 0.75
			e.TrainLanguages = []string{"ukr"}
		},
	}

	comp, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}

	est, ok := comp.Estimator.(*lm.AbsoluteDiscount)
	if !ok {
		t.Fatalf("Expected *lm.AbsoluteDiscount, got %T", comp.Estimator)
	}
	if est.D != 0.75 {
		t.Errorf("Expected discount 0.75, got %v", est.D)
	}
	if comp.Experiment.TrainLanguages[0] != "ukr" {
		t.Errorf("Override should apply to the experiment, got %v", comp.Experiment.TrainLanguages)
	}
}

func TestLoaderInvalidOverride(t *testing.T) {
	loader := Loader{
		Override: func(e *Experiment) { e.Discount = 2 },
	}

	_, err := loader.Load()
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}
