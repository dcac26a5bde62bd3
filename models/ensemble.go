package models

import (
	"encoding/json"
	"io"
	"math/rand"
	"os"
	"sync"

	"github.com/YuminosukeSato/phenogo/core/parallel"
	"github.com/YuminosukeSato/phenogo/core/params"
	"github.com/YuminosukeSato/phenogo/data"
	"github.com/YuminosukeSato/phenogo/pkg/errors"
)

const bootstrapModelName = "BootstrapModel"

// BootstrapModel is an ensemble of one core variant fit on bootstrap
// resamples of the observations. Predictions are the mean across members,
// which smooths the day-quantized output of threshold models and gives a
// spread for uncertainty estimates.
type BootstrapModel struct {
	def     Definition
	members []*Model
}

// NewBootstrap builds an ensemble of numBootstraps instances of def, each
// with its own parameter store derived from the same settings.
func NewBootstrap(def Definition, numBootstraps int, settings map[string]params.Setting) (*BootstrapModel, error) {
	if numBootstraps < 1 {
		return nil, errors.NewValueError("models.NewBootstrap", "numBootstraps must be at least 1")
	}
	members := make([]*Model, numBootstraps)
	for i := range members {
		m, err := New(def, settings)
		if err != nil {
			return nil, err
		}
		members[i] = m
	}
	return &BootstrapModel{def: def, members: members}, nil
}

// NumMembers returns the ensemble size.
func (b *BootstrapModel) NumMembers() int { return len(b.members) }

// Members returns the fitted member models.
func (b *BootstrapModel) Members() []*Model { return b.members }

// Fit resamples the observations with replacement once per member and fits
// each member on its resample. Member fits run in parallel; each member owns
// its parameter store and receives a distinct derived seed, so runs with the
// same base seed are reproducible.
func (b *BootstrapModel) Fit(obs data.Observations, preds data.Predictors, opts FitOptions) error {
	if len(obs) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "BootstrapModel.Fit: observations")
	}

	// Draw all resamples up front from one seeded source so the member
	// goroutines never contend on shared random state.
	rng := rand.New(rand.NewSource(opts.Optimizer.Seed))
	resamples := make([]data.Observations, len(b.members))
	for i := range resamples {
		sample := make(data.Observations, len(obs))
		for k := range sample {
			sample[k] = obs[rng.Intn(len(obs))]
		}
		resamples[i] = sample
	}

	var (
		mu       sync.Mutex
		firstErr error
	)
	parallel.ParallelizeWithThreshold(len(b.members), 1, func(start, end int) {
		for i := start; i < end; i++ {
			memberOpts := opts
			memberOpts.Optimizer.Seed = opts.Optimizer.Seed + int64(i)
			if err := b.members[i].Fit(resamples[i], preds, memberOpts); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = errors.Wrapf(err, "bootstrap member %d", i)
				}
				mu.Unlock()
				return
			}
		}
	})
	return firstErr
}

// Predict returns the mean predicted event day across ensemble members.
func (b *BootstrapModel) Predict(toPredict data.Observations, preds data.Predictors) ([]float64, error) {
	var mean []float64
	for _, m := range b.members {
		p, err := m.Predict(toPredict, preds)
		if err != nil {
			return nil, err
		}
		if mean == nil {
			mean = make([]float64, len(p))
		}
		for j, v := range p {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(len(b.members))
	}
	return mean, nil
}

// GetParams returns the parameter map of every ensemble member.
func (b *BootstrapModel) GetParams() []map[string]float64 {
	out := make([]map[string]float64, len(b.members))
	for i, m := range b.members {
		out[i] = m.GetParams()
	}
	return out
}

// SaveParamsTo writes the ensemble as JSON: the member variant name and one
// parameter map per member.
func (b *BootstrapModel) SaveParamsTo(w io.Writer) error {
	for _, m := range b.members {
		if !m.store.AllSet() {
			return errors.NewNotFittedError(bootstrapModelName, "SaveParams")
		}
	}
	paramsJSON, err := json.Marshal(b.GetParams())
	if err != nil {
		return errors.Wrap(err, "marshal parameters")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(savedModel{
		ModelName:  bootstrapModelName,
		BaseModel:  b.def.Name(),
		Parameters: paramsJSON,
	}); err != nil {
		return errors.Wrap(err, "encode model")
	}
	return nil
}

// SaveParams writes the serialized ensemble to a file. An existing file is
// only replaced when overwrite is true.
func (b *BootstrapModel) SaveParams(path string, overwrite bool) error {
	return saveToFile(path, overwrite, b.SaveParamsTo)
}

// LoadSavedBootstrap reads an ensemble previously written by SaveParams.
// Every member comes back with all parameters fixed, ready for prediction.
func LoadSavedBootstrap(r io.Reader) (*BootstrapModel, error) {
	var saved savedModel
	if err := json.NewDecoder(r).Decode(&saved); err != nil {
		return nil, errors.NewDataFormatError("saved model", "", 0, err.Error())
	}
	if saved.ModelName != bootstrapModelName {
		return nil, errors.NewValueError("models.LoadSavedBootstrap",
			"file holds a "+saved.ModelName+", use LoadSaved")
	}

	var memberValues []map[string]float64
	if err := json.Unmarshal(saved.Parameters, &memberValues); err != nil {
		return nil, errors.NewDataFormatError("saved model", "parameters", 0, err.Error())
	}
	if len(memberValues) == 0 {
		return nil, errors.NewDataFormatError("saved model", "parameters", 0, "no ensemble members")
	}

	def, err := LoadDefinition(saved.BaseModel)
	if err != nil {
		return nil, err
	}
	members := make([]*Model, len(memberValues))
	for i, values := range memberValues {
		settings := make(map[string]params.Setting, len(values))
		for name, v := range values {
			settings[name] = params.Fixed(v)
		}
		m, err := New(def, settings)
		if err != nil {
			return nil, err
		}
		members[i] = m
	}
	return &BootstrapModel{def: def, members: members}, nil
}

// LoadSavedBootstrapFile reads a saved ensemble from disk.
func LoadSavedBootstrapFile(path string) (*BootstrapModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open saved model")
	}
	defer f.Close()
	return LoadSavedBootstrap(f)
}
