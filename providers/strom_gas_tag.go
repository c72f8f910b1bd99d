package providers

import (
	"context"
	"fmt"
	"time"
)

// berlin is loaded once; Europe/Berlin is the timezone the German
// "Stromtag"/"Gastag" boundary checks are defined against (spec §4.6).
var berlin = mustLoadBerlin()

func mustLoadBerlin() *time.Location {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		panic(fmt.Errorf("failed to load Europe/Berlin timezone: %w", err))
	}
	return loc
}

func parseAwareTimestamp(enteredInput string) (time.Time, *EvaluatedFormatConstraint) {
	if enteredInput == "" {
		return time.Time{}, &EvaluatedFormatConstraint{
			Fulfilled:    false,
			ErrorMessage: "An empty or None string cannot be parsed as datetime",
		}
	}
	normalized := enteredInput
	if len(normalized) > 0 && normalized[len(normalized)-1] == 'Z' {
		normalized = normalized[:len(normalized)-1] + "+00:00"
	}
	t, err := time.Parse(time.RFC3339, normalized)
	if err != nil {
		return time.Time{}, &EvaluatedFormatConstraint{
			Fulfilled:    false,
			ErrorMessage: err.Error(),
		}
	}
	return t, nil
}

// isStromtagLimit reports whether t is the inclusive start/exclusive end of
// a German "Stromtag": midnight in Europe/Berlin local time.
func isStromtagLimit(t time.Time) bool {
	local := t.In(berlin)
	return local.Hour() == 0 && local.Minute() == 0 && local.Second() == 0
}

// isGastagLimit reports whether t is the inclusive start/exclusive end of a
// German "Gastag": 6am in Europe/Berlin local time.
func isGastagLimit(t time.Time) bool {
	local := t.In(berlin)
	return local.Hour() == 6 && local.Minute() == 0 && local.Second() == 0
}

// hasZeroUTCOffset reports whether t's explicit offset is exactly +00:00.
func hasZeroUTCOffset(t time.Time) bool {
	_, offsetSeconds := t.Zone()
	return offsetSeconds == 0
}

// xtagDivision names which day-boundary evaluator evaluateXtagLimit applies.
type xtagDivision string

const (
	stromDivision xtagDivision = "Strom"
	gasDivision   xtagDivision = "Gas"
)

func evaluateXtagLimit(enteredInput string, division xtagDivision) EvaluatedFormatConstraint {
	t, errResult := parseAwareTimestamp(enteredInput)
	if errResult != nil {
		return *errResult
	}

	var limit bool
	switch division {
	case stromDivision:
		limit = isStromtagLimit(t)
	case gasDivision:
		limit = isGastagLimit(t)
	}
	if limit {
		return EvaluatedFormatConstraint{Fulfilled: true}
	}
	return EvaluatedFormatConstraint{
		Fulfilled:    false,
		ErrorMessage: fmt.Sprintf("The given datetime %q is not the limit of a %stag", t.Format(time.RFC3339), division),
	}
}

// evaluateHasNoUTCOffset implements key 931: assert the entered input is
// parsable as a datetime with an explicit offset, then assert that offset is
// exactly +00:00. Unlike 932-935 this says nothing about Stromtag/Gastag
// boundaries — it only constrains the offset itself.
func evaluateHasNoUTCOffset(enteredInput string) EvaluatedFormatConstraint {
	t, errResult := parseAwareTimestamp(enteredInput)
	if errResult != nil {
		return *errResult
	}
	if hasZeroUTCOffset(t) {
		return EvaluatedFormatConstraint{Fulfilled: true}
	}
	return EvaluatedFormatConstraint{
		Fulfilled:    false,
		ErrorMessage: fmt.Sprintf("The given datetime %q does not have a UTC offset of +00:00", t.Format(time.RFC3339)),
	}
}

// stromGasTagEvaluator is the built-in FcEvaluator for keys 931-935, which
// check an entered ISO-8601 timestamp's offset (931) or whether it falls
// exactly on a German balancing-day boundary (932-935, spec §4.6).
type stromGasTagEvaluator struct{}

// NewStromGasTagEvaluator returns the built-in FcEvaluator for the
// "Stromtag"/"Gastag" keys 931 through 935. Any other key is rejected with
// NotImplementedError so callers can layer it behind their own evaluator for
// keys outside that range.
func NewStromGasTagEvaluator() FcEvaluator {
	return stromGasTagEvaluator{}
}

func (stromGasTagEvaluator) Evaluate(_ context.Context, key string, enteredInput string) (EvaluatedFormatConstraint, error) {
	switch key {
	case "931":
		return evaluateHasNoUTCOffset(enteredInput), nil
	case "932", "933":
		return evaluateXtagLimit(enteredInput, stromDivision), nil
	case "934", "935":
		return evaluateXtagLimit(enteredInput, gasDivision), nil
	default:
		return EvaluatedFormatConstraint{}, &NotImplementedError{Key: key}
	}
}

// NotImplementedError is returned when no format- or requirement-constraint
// evaluator is registered for a key (spec §7).
type NotImplementedError struct {
	Key string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("no evaluator implemented for condition key %q", e.Key)
}
