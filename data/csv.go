package data

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/phenogo/pkg/errors"
)

// Column names expected in the tabular inputs. Headers are matched
// case-insensitively.
const (
	colSiteID      = "site_id"
	colYear        = "year"
	colPhenophase  = "phenophase"
	colDOY         = "doy"
	colTemperature = "temperature"
	colLatitude    = "latitude"
)

type header map[string]int

func readHeader(table string, rec []string, required ...string) (header, error) {
	h := make(header, len(rec))
	for i, name := range rec {
		h[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := h[name]; !ok {
			return nil, errors.NewDataFormatError(table, name, 0, "required column is missing")
		}
	}
	return h, nil
}

func (h header) field(rec []string, name string) string {
	return strings.TrimSpace(rec[h[name]])
}

func parseFloat(table, column string, row int, s string) (float64, error) {
	if s == "" || strings.EqualFold(s, "na") || strings.EqualFold(s, "nan") {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.NewDataFormatError(table, column, row, "cannot parse as number: "+s)
	}
	return v, nil
}

func parseInt(table, column string, row int, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.NewDataFormatError(table, column, row, "cannot parse as integer: "+s)
	}
	return v, nil
}

// ReadObservations parses an observation table from CSV. Required columns:
// site_id, year, phenophase, doy. The doy column may contain NA when the
// table is used only for prediction.
func ReadObservations(r io.Reader) (Observations, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.NewDataFormatError("observations", "", 0, err.Error())
	}
	if len(records) < 2 {
		return nil, errors.NewDataFormatError("observations", "", 0, "table has no data rows")
	}

	h, err := readHeader("observations", records[0], colSiteID, colYear, colPhenophase, colDOY)
	if err != nil {
		return nil, err
	}

	obs := make(Observations, 0, len(records)-1)
	for i, rec := range records[1:] {
		row := i + 1
		year, err := parseInt("observations", colYear, row, h.field(rec, colYear))
		if err != nil {
			return nil, err
		}
		phenophase, err := parseInt("observations", colPhenophase, row, h.field(rec, colPhenophase))
		if err != nil {
			return nil, err
		}
		doy, err := parseFloat("observations", colDOY, row, h.field(rec, colDOY))
		if err != nil {
			return nil, err
		}
		obs = append(obs, Observation{
			SiteID:     h.field(rec, colSiteID),
			Year:       year,
			Phenophase: phenophase,
			DOY:        doy,
		})
	}
	return obs, nil
}

// ReadPredictors parses a predictor table from CSV. Required columns:
// site_id, year, doy, temperature. A latitude column, when present, enables
// daylength-based models.
func ReadPredictors(r io.Reader) (Predictors, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return Predictors{}, errors.NewDataFormatError("predictors", "", 0, err.Error())
	}
	if len(records) < 2 {
		return Predictors{}, errors.NewDataFormatError("predictors", "", 0, "table has no data rows")
	}

	h, err := readHeader("predictors", records[0], colSiteID, colYear, colDOY, colTemperature)
	if err != nil {
		return Predictors{}, err
	}
	_, hasLatitude := h[colLatitude]

	preds := Predictors{
		Rows:        make([]PredictorRow, 0, len(records)-1),
		HasLatitude: hasLatitude,
	}
	for i, rec := range records[1:] {
		row := i + 1
		year, err := parseInt("predictors", colYear, row, h.field(rec, colYear))
		if err != nil {
			return Predictors{}, err
		}
		doy, err := parseFloat("predictors", colDOY, row, h.field(rec, colDOY))
		if err != nil {
			return Predictors{}, err
		}
		temp, err := parseFloat("predictors", colTemperature, row, h.field(rec, colTemperature))
		if err != nil {
			return Predictors{}, err
		}
		if math.IsNaN(doy) {
			return Predictors{}, errors.NewDataFormatError("predictors", colDOY, row, "doy must not be NA")
		}
		pr := PredictorRow{
			SiteID:      h.field(rec, colSiteID),
			Year:        year,
			DOY:         doy,
			Temperature: temp,
		}
		if hasLatitude {
			lat, err := parseFloat("predictors", colLatitude, row, h.field(rec, colLatitude))
			if err != nil {
				return Predictors{}, err
			}
			pr.Latitude = lat
		}
		preds.Rows = append(preds.Rows, pr)
	}
	return preds, nil
}

// LoadObservationsFile reads an observation CSV from disk.
func LoadObservationsFile(path string) (Observations, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open observations file")
	}
	defer f.Close()
	return ReadObservations(f)
}

// LoadPredictorsFile reads a predictor CSV from disk.
func LoadPredictorsFile(path string) (Predictors, error) {
	f, err := os.Open(path)
	if err != nil {
		return Predictors{}, errors.Wrap(err, "open predictors file")
	}
	defer f.Close()
	return ReadPredictors(f)
}
