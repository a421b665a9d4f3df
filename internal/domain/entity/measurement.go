package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/jhoicas/tailorflow/internal/domain"
)

// Unidades de medida.
const (
	UnitInches      = "in"
	UnitCentimetres = "cm"
)

// Measurement una medida de la prenda: etiqueta ("Chest"), valor y unidad.
type Measurement struct {
	Label string           `json:"label"`
	Value MeasurementValue `json:"value"`
	Unit  string           `json:"unit"`
}

// MeasurementValue número o texto. Las medidas nuevas arrancan como texto vacío
// y el sastre las completa; en JSON se conserva el tipo original.
type MeasurementValue struct {
	text     string
	number   float64
	isNumber bool
}

// Number construye un valor numérico.
func Number(f float64) MeasurementValue { return MeasurementValue{number: f, isNumber: true} }

// Text construye un valor de texto.
func Text(s string) MeasurementValue { return MeasurementValue{text: s} }

// IsNumber indica si el valor es numérico.
func (v MeasurementValue) IsNumber() bool { return v.isNumber }

// Float devuelve el valor numérico; para texto intenta parsearlo.
func (v MeasurementValue) Float() (float64, bool) {
	if v.isNumber {
		return v.number, true
	}
	f, err := strconv.ParseFloat(v.text, 64)
	return f, err == nil
}

// Finite es falso sólo para un valor numérico NaN o ±Inf, que JSON no puede representar.
func (v MeasurementValue) Finite() bool {
	return !v.isNumber || !(math.IsNaN(v.number) || math.IsInf(v.number, 0))
}

// IsBlank indica una medida aún sin completar.
func (v MeasurementValue) IsBlank() bool { return !v.isNumber && v.text == "" }

func (v MeasurementValue) String() string {
	if v.isNumber {
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	}
	return v.text
}

// MarshalJSON emite un número o un string según el tipo del valor.
func (v MeasurementValue) MarshalJSON() ([]byte, error) {
	if v.isNumber {
		if !v.Finite() {
			return nil, fmt.Errorf("%w: valor de medida no finito %v", domain.ErrInvalidInput, v.number)
		}
		return []byte(strconv.FormatFloat(v.number, 'f', -1, 64)), nil
	}
	return json.Marshal(v.text)
}

// UnmarshalJSON acepta número, string o null (texto vacío).
func (v *MeasurementValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = Text("")
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("valor de medida inválido %s: %w", data, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: valor de medida no finito %s", domain.ErrInvalidInput, data)
		}
		*v = Number(f)
		return nil
	}
}

// CloneMeasurements copia una lista de medidas (Measurement no contiene punteros).
func CloneMeasurements(in []Measurement) []Measurement {
	if in == nil {
		return nil
	}
	out := make([]Measurement, len(in))
	copy(out, in)
	return out
}

// DefaultMeasurements plantilla de medidas en blanco para un tipo de prenda.
func DefaultMeasurements(g GarmentType) []Measurement {
	var labels []string
	switch g {
	case GarmentShirt:
		labels = []string{"Neck", "Chest", "Shoulder", "Sleeve", "Length"}
	case GarmentPant:
		labels = []string{"Waist", "Hips", "Inseam", "Length", "Thigh"}
	case GarmentSuit2pc:
		labels = []string{"Neck", "Chest", "Shoulder", "Sleeve", "Waist", "Inseam", "Pant Length"}
	default:
		labels = []string{"Length", "Chest", "Waist"}
	}
	out := make([]Measurement, 0, len(labels))
	for _, l := range labels {
		out = append(out, Measurement{Label: l, Value: Text(""), Unit: UnitInches})
	}
	return out
}
