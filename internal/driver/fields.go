package driver

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/piwi3910/SquarePack/internal/model"
)

// Field names accepted by ParseFields and ParseOverrides.
const (
	FieldContainerArea = "container_area"
	FieldMaxFailures   = "max_failures"
	FieldAttempts      = "attempts_per_frame"
	FieldRearr         = "rearr_attempts_per_frame"
	FieldTransStep     = "trans_step"
	FieldRotStep       = "rot_step"
)

// fieldAliases maps shorthand and label spellings to field names.
var fieldAliases = map[string]string{
	"area":             FieldContainerArea,
	"container area":   FieldContainerArea,
	"max failures":     FieldMaxFailures,
	"attempts":         FieldAttempts,
	"attempts/frame":   FieldAttempts,
	"rearr":            FieldRearr,
	"rearr/frame":      FieldRearr,
	"trans":            FieldTransStep,
	"trans step":       FieldTransStep,
	"rot":              FieldRotStep,
	"rot step":         FieldRotStep,
	FieldContainerArea: FieldContainerArea,
	FieldMaxFailures:   FieldMaxFailures,
	FieldAttempts:      FieldAttempts,
	FieldRearr:         FieldRearr,
	FieldTransStep:     FieldTransStep,
	FieldRotStep:       FieldRotStep,
}

// CanonicalField resolves an alias to its field name.
func CanonicalField(name string) (string, bool) {
	f, ok := fieldAliases[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// ParseFields builds a configuration from text inputs. A field that is
// missing keeps the default; a field that fails to parse also falls back to
// the default and produces a warning. Values that parse but are out of domain
// are passed through for the engine to reject.
func ParseFields(fields map[string]string, defaults model.Config) (model.Config, []string) {
	cfg := defaults
	var warnings []string

	// Sorted for stable warning order.
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		raw := strings.TrimSpace(fields[name])
		field, ok := CanonicalField(name)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown field %q ignored", name))
			continue
		}

		var err error
		switch field {
		case FieldContainerArea:
			err = parseFloat(raw, &cfg.ContainerArea, defaults.ContainerArea)
		case FieldMaxFailures:
			err = parseInt(raw, &cfg.MaxFailures, defaults.MaxFailures)
		case FieldAttempts:
			err = parseInt(raw, &cfg.AttemptsPerFrame, defaults.AttemptsPerFrame)
		case FieldRearr:
			err = parseInt(raw, &cfg.RearrAttemptsPerFrame, defaults.RearrAttemptsPerFrame)
		case FieldTransStep:
			err = parseFloat(raw, &cfg.TransStep, defaults.TransStep)
		case FieldRotStep:
			err = parseFloat(raw, &cfg.RotStep, defaults.RotStep)
		}
		if err != nil {
			w := fmt.Sprintf("%s: cannot parse %q, using default", field, raw)
			logrus.Warn(w)
			warnings = append(warnings, w)
		}
	}
	return cfg, warnings
}

func parseFloat(raw string, dst *float64, def float64) error {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*dst = def
		return err
	}
	*dst = v
	return nil
}

func parseInt(raw string, dst *int, def int) error {
	v, err := strconv.Atoi(raw)
	if err != nil {
		*dst = def
		return err
	}
	*dst = v
	return nil
}

// ParseOverrides splits key=value arguments into a field map. Arguments
// without '=' are reported as warnings.
func ParseOverrides(args []string) (map[string]string, []string) {
	fields := make(map[string]string, len(args))
	var warnings []string
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(key) == "" {
			warnings = append(warnings, fmt.Sprintf("ignoring argument %q: expected key=value", arg))
			continue
		}
		fields[strings.TrimSpace(key)] = value
	}
	return fields, warnings
}
