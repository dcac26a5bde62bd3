package models

import (
	"encoding/json"
	"io"
	"os"

	"github.com/YuminosukeSato/phenogo/core/params"
	"github.com/YuminosukeSato/phenogo/pkg/errors"
)

// savedModel is the on-disk JSON form of a fitted model: the variant name
// and the full parameter map. Loading rebuilds the model with every
// parameter fixed, ready for prediction without refitting.
type savedModel struct {
	ModelName  string          `json:"model_name"`
	BaseModel  string          `json:"base_model,omitempty"`
	Parameters json.RawMessage `json:"parameters"`
}

// SaveParamsTo writes the model name and parameters as JSON. The model must
// be fully parameterized.
func (m *Model) SaveParamsTo(w io.Writer) error {
	if !m.store.AllSet() {
		return errors.NewNotFittedError(m.def.Name(), "SaveParams")
	}
	paramsJSON, err := json.Marshal(m.GetParams())
	if err != nil {
		return errors.Wrap(err, "marshal parameters")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(savedModel{ModelName: m.def.Name(), Parameters: paramsJSON}); err != nil {
		return errors.Wrap(err, "encode model")
	}
	return nil
}

// SaveParams writes the serialized parameters to a file. An existing file is
// only replaced when overwrite is true.
func (m *Model) SaveParams(path string, overwrite bool) error {
	return saveToFile(path, overwrite, m.SaveParamsTo)
}

// LoadSaved reads a model previously written by SaveParams. The returned
// model has every parameter fixed to its saved value. Bootstrap ensemble
// files must be loaded with LoadSavedBootstrap.
func LoadSaved(r io.Reader) (*Model, error) {
	var saved savedModel
	if err := json.NewDecoder(r).Decode(&saved); err != nil {
		return nil, errors.NewDataFormatError("saved model", "", 0, err.Error())
	}
	if saved.ModelName == bootstrapModelName {
		return nil, errors.NewValueError("models.LoadSaved",
			"file holds a BootstrapModel, use LoadSavedBootstrap")
	}

	var values map[string]float64
	if err := json.Unmarshal(saved.Parameters, &values); err != nil {
		return nil, errors.NewDataFormatError("saved model", "parameters", 0, err.Error())
	}

	settings := make(map[string]params.Setting, len(values))
	for name, v := range values {
		settings[name] = params.Fixed(v)
	}
	return NewNamed(saved.ModelName, settings)
}

// LoadSavedFile reads a saved model from disk.
func LoadSavedFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open saved model")
	}
	defer f.Close()
	return LoadSaved(f)
}

func saveToFile(path string, overwrite bool, write func(io.Writer) error) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.Wrap(errors.ErrFileExists, path)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create saved model file")
	}
	defer f.Close()
	return write(f)
}
