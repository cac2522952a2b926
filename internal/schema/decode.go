package schema

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/form/v4"

	"barangay-health-server/internal/utils"
)

// DateLayout is the calendar date format used by forms.
const DateLayout = "2006-01-02"

var decoder = newDecoder()

func newDecoder() *form.Decoder {
	d := form.NewDecoder()
	d.RegisterCustomTypeFunc(decodeDate, time.Time{})
	d.RegisterCustomTypeFunc(decodeFloat, float64(0))
	d.RegisterCustomTypeFunc(decodeInt, int(0))
	d.RegisterCustomTypeFunc(decodeBool, false)
	return d
}

func decodeDate(vals []string) (interface{}, error) {
	for _, layout := range []string{DateLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, vals[0]); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return nil, errors.New("must be a date in YYYY-MM-DD format")
}

func decodeFloat(vals []string) (interface{}, error) {
	v, err := strconv.ParseFloat(vals[0], 64)
	if err != nil {
		return nil, errors.New("must be a number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, errors.New("must be a finite number")
	}
	return v, nil
}

func decodeInt(vals []string) (interface{}, error) {
	v, err := strconv.Atoi(vals[0])
	if err == nil {
		return v, nil
	}
	if _, ferr := strconv.ParseFloat(vals[0], 64); ferr == nil {
		return nil, errors.New("must be a whole number")
	}
	return nil, errors.New("must be a number")
}

func decodeBool(vals []string) (interface{}, error) {
	switch strings.ToLower(vals[0]) {
	case "true", "on", "yes", "1":
		return true, nil
	case "false", "off", "no", "0":
		return false, nil
	}
	return nil, errors.New("must be true or false")
}

// bind decodes f into dst (a pointer to a form struct) and validates it.
// Decode failures win over validation failures for the same field.
func bind(f Fields, dst interface{}) utils.FieldErrors {
	fe := utils.FieldErrors{}
	if err := decoder.Decode(dst, f.clean()); err != nil {
		var de form.DecodeErrors
		if errors.As(err, &de) {
			for field, ferr := range de {
				fe.Add(field, label(field)+" "+ferr.Error())
			}
		} else {
			fe.Add("_", err.Error())
		}
	}
	fe.Merge(utils.ValidateFields(dst))
	return fe
}

// label is the last segment of a field path, as used in messages.
func label(field string) string {
	if i := strings.LastIndexByte(field, '.'); i >= 0 {
		return field[i+1:]
	}
	return field
}
