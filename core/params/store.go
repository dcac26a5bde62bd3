// Package params implements the parameter store shared by all phenology
// model variants. Each model declares a fixed set of named parameters with
// default search bounds; the caller may pin any of them to a concrete value
// (FIXED) or leave them to be estimated by the fit engine (FREE), optionally
// overriding the search bounds.
package params

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/phenogo/pkg/errors"
)

// Bounds is the inclusive (Lower, Upper) search range for a free parameter.
type Bounds struct {
	Lower float64
	Upper float64
}

// Parameter is a model-declared parameter: its name and default search bounds.
type Parameter struct {
	Name   string
	Bounds Bounds
}

// Setting is a caller-supplied value for one parameter: either a fixed
// concrete value or a search-bounds override for a free parameter.
type Setting struct {
	fixed     bool
	value     float64
	hasBounds bool
	bounds    Bounds
}

// Fixed pins a parameter to a concrete value. Fixed parameters are never
// altered by fitting or SetParams.
func Fixed(v float64) Setting {
	return Setting{fixed: true, value: v}
}

// Range leaves a parameter free but overrides its default search bounds.
func Range(lower, upper float64) Setting {
	return Setting{hasBounds: true, bounds: Bounds{Lower: lower, Upper: upper}}
}

// Store holds the parameters of a single model instance. The parameter set
// is fixed in identity at construction; only the values of free parameters
// may change afterwards.
type Store struct {
	names  []string // declaration order, stable across the instance lifetime
	bounds map[string]Bounds
	fixed  map[string]float64
	values map[string]float64 // estimated values for free parameters
}

// NewStore builds a store from the model's declared parameters and the
// caller's settings. Unknown names and malformed settings return a
// ConfigurationError.
func NewStore(declared []Parameter, settings map[string]Setting) (*Store, error) {
	s := &Store{
		names:  make([]string, 0, len(declared)),
		bounds: make(map[string]Bounds, len(declared)),
		fixed:  make(map[string]float64),
		values: make(map[string]float64),
	}
	for _, p := range declared {
		if _, dup := s.bounds[p.Name]; dup {
			return nil, errors.NewConfigurationError(p.Name, "parameter declared twice", nil)
		}
		s.names = append(s.names, p.Name)
		s.bounds[p.Name] = p.Bounds
	}

	// Deterministic application order keeps error reporting stable.
	keys := make([]string, 0, len(settings))
	for name := range settings {
		keys = append(keys, name)
	}
	sort.Strings(keys)

	for _, name := range keys {
		setting := settings[name]
		if _, known := s.bounds[name]; !known {
			return nil, errors.NewConfigurationError(name, "unknown parameter", nil)
		}
		if setting.fixed {
			if math.IsNaN(setting.value) || math.IsInf(setting.value, 0) {
				return nil, errors.NewConfigurationError(name, "fixed value must be finite", setting.value)
			}
			s.fixed[name] = setting.value
			continue
		}
		if setting.hasBounds {
			if setting.bounds.Lower > setting.bounds.Upper {
				return nil, errors.NewConfigurationError(name, "lower bound exceeds upper bound", setting.bounds)
			}
			s.bounds[name] = setting.bounds
		}
	}
	return s, nil
}

// Names returns all parameter names in declaration order.
func (s *Store) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// FreeNames returns the names of free parameters in declaration order.
// This ordering defines the layout of the optimizer's parameter vector.
func (s *Store) FreeNames() []string {
	out := make([]string, 0, len(s.names))
	for _, name := range s.names {
		if _, isFixed := s.fixed[name]; !isFixed {
			out = append(out, name)
		}
	}
	return out
}

// FreeBounds returns the search bounds of free parameters, aligned with
// FreeNames.
func (s *Store) FreeBounds() []Bounds {
	free := s.FreeNames()
	out := make([]Bounds, len(free))
	for i, name := range free {
		out[i] = s.bounds[name]
	}
	return out
}

// IsFixed reports whether name is a fixed parameter.
func (s *Store) IsFixed(name string) bool {
	_, ok := s.fixed[name]
	return ok
}

// Get returns the current value of a parameter and whether it is set.
func (s *Store) Get(name string) (float64, bool) {
	if v, ok := s.fixed[name]; ok {
		return v, true
	}
	v, ok := s.values[name]
	return v, ok
}

// GetParams returns a map of all currently set parameter values, fixed and
// estimated. Unset free parameters are absent from the map.
func (s *Store) GetParams() map[string]float64 {
	out := make(map[string]float64, len(s.names))
	for name, v := range s.fixed {
		out[name] = v
	}
	for name, v := range s.values {
		out[name] = v
	}
	return out
}

// SetParams bulk-assigns values to free parameters. Targeting a fixed
// parameter or an unknown name returns a ConfigurationError and leaves the
// store unchanged.
func (s *Store) SetParams(values map[string]float64) error {
	for name := range values {
		if _, known := s.bounds[name]; !known {
			return errors.NewConfigurationError(name, "unknown parameter", values[name])
		}
		if s.IsFixed(name) {
			return errors.NewConfigurationError(name, "parameter is fixed and cannot be assigned", values[name])
		}
	}
	for name, v := range values {
		s.values[name] = v
	}
	return nil
}

// AssignFree writes the optimizer's parameter vector, laid out per
// FreeNames, into the store.
func (s *Store) AssignFree(x []float64) error {
	free := s.FreeNames()
	if len(x) != len(free) {
		return errors.NewDimensionError("AssignFree", len(free), len(x))
	}
	for i, name := range free {
		s.values[name] = x[i]
	}
	return nil
}

// AllSet reports whether every parameter, fixed and free, has a value.
func (s *Store) AllSet() bool {
	for _, name := range s.names {
		if _, ok := s.Get(name); !ok {
			return false
		}
	}
	return true
}

// FreeCount returns the number of free parameters.
func (s *Store) FreeCount() int {
	return len(s.names) - len(s.fixed)
}

// Merged returns the full parameter map with the free slots overlaid by x,
// without mutating the store. It is the evaluation view used inside the
// fit loop.
func (s *Store) Merged(x []float64) map[string]float64 {
	out := s.GetParams()
	for i, name := range s.FreeNames() {
		if i < len(x) {
			out[name] = x[i]
		}
	}
	return out
}

// Clone returns a deep copy of the store. Bootstrap ensembles fit clones so
// that member fits never share mutable state.
func (s *Store) Clone() *Store {
	c := &Store{
		names:  make([]string, len(s.names)),
		bounds: make(map[string]Bounds, len(s.bounds)),
		fixed:  make(map[string]float64, len(s.fixed)),
		values: make(map[string]float64, len(s.values)),
	}
	copy(c.names, s.names)
	for k, v := range s.bounds {
		c.bounds[k] = v
	}
	for k, v := range s.fixed {
		c.fixed[k] = v
	}
	for k, v := range s.values {
		c.values[k] = v
	}
	return c
}
