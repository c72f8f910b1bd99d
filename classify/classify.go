// Package classify implements the condition-key classifier of spec §4.1: a
// pure function mapping a condition key to the category that decides how the
// rest of the engine handles it.
package classify

import (
	"fmt"
	"strconv"
	"strings"
)

// Category is the classification of a condition key.
type Category uint8

const (
	// RequirementConstraint keys are in [1, 499].
	RequirementConstraint Category = iota
	// Hint keys are in [500, 900].
	Hint
	// FormatConstraint keys are in [901, 999].
	FormatConstraint
	// Package keys carry a "P" suffix, e.g. "123P".
	Package
	// TimeCondition keys are one of UB1, UB2, UB3.
	TimeCondition
)

func (c Category) String() string {
	switch c {
	case RequirementConstraint:
		return "requirement constraint"
	case Hint:
		return "hint"
	case FormatConstraint:
		return "format constraint"
	case Package:
		return "package"
	case TimeCondition:
		return "time condition"
	default:
		return "invalid"
	}
}

// InvalidKeyRangeError is returned by Classify when the key does not fit the
// grammar `^\d+P?$|^UB[123]$`, or fits it but its numeric value falls outside
// every known range.
type InvalidKeyRangeError struct {
	Key string
}

func (e *InvalidKeyRangeError) Error() string {
	return fmt.Sprintf("condition key %q cannot be classified into any known category", e.Key)
}

// Classify maps a condition key to its category, per the table in spec §3.
func Classify(key string) (Category, error) {
	switch key {
	case "UB1", "UB2", "UB3":
		return TimeCondition, nil
	}
	if strings.HasSuffix(key, "P") {
		numPart := strings.TrimSuffix(key, "P")
		if numPart == "" {
			return 0, &InvalidKeyRangeError{Key: key}
		}
		if _, err := strconv.Atoi(numPart); err != nil {
			return 0, &InvalidKeyRangeError{Key: key}
		}
		return Package, nil
	}
	n, err := strconv.Atoi(key)
	if err != nil {
		return 0, &InvalidKeyRangeError{Key: key}
	}
	switch {
	case n >= 1 && n <= 499:
		return RequirementConstraint, nil
	case n >= 500 && n <= 900:
		return Hint, nil
	case n >= 901 && n <= 999:
		return FormatConstraint, nil
	default:
		return 0, &InvalidKeyRangeError{Key: key}
	}
}
