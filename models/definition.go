package models

import (
	"sort"

	"github.com/YuminosukeSato/phenogo/core/params"
	"github.com/YuminosukeSato/phenogo/data"
	"github.com/YuminosukeSato/phenogo/pkg/errors"
)

// Definition is the capability interface a model variant implements. A
// variant is pure metadata plus a pure equation; the shared Model type
// provides fitting, validation, scoring and persistence on top of it.
type Definition interface {
	// Name identifies the variant, e.g. "ThermalTime". Used in saved files.
	Name() string

	// RequiredPredictors lists the predictor series the equation needs.
	// Inputs are validated against this before any optimizer call.
	RequiredPredictors() []data.Kind

	// Parameters declares the variant's named parameters, in the order that
	// defines the optimizer vector layout, with default search bounds.
	Parameters() []params.Parameter

	// Apply evaluates the equation: given a full parameter map and an
	// aligned dataset it returns the predicted event day of year per
	// observation column. It must be a pure function of its inputs.
	Apply(p map[string]float64, d *data.Dataset) []float64
}

var registry = map[string]func() Definition{
	"ThermalTime": func() Definition { return ThermalTime{} },
	"FallCooling": func() Definition { return FallCooling{} },
	"M1":          func() Definition { return M1{} },
	"Uniforc":     func() Definition { return Uniforc{} },
	"Unichill":    func() Definition { return Unichill{} },
	"Alternating": func() Definition { return Alternating{} },
	"MSB":         func() Definition { return MSB{} },
	"Linear":      func() Definition { return Linear{} },
	"Naive":       func() Definition { return Naive{} },
}

// LoadDefinition returns the model variant registered under name.
func LoadDefinition(name string) (Definition, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, errors.NewValueError("models.LoadDefinition", "unknown model name: "+name)
	}
	return ctor(), nil
}

// Names returns the registered variant names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
