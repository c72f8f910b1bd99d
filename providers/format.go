package providers

import "fmt"

// EdifactFormat is one of the closed set of German energy-market EDIFACT
// message formats a Prüfidentifikator can belong to (spec §6).
type EdifactFormat string

const (
	APERAK  EdifactFormat = "APERAK"
	IFTSTA  EdifactFormat = "IFTSTA"
	INSRPT  EdifactFormat = "INSRPT"
	INVOIC  EdifactFormat = "INVOIC"
	MSCONS  EdifactFormat = "MSCONS"
	ORDERS  EdifactFormat = "ORDERS"
	ORDRSP  EdifactFormat = "ORDRSP"
	PRICAT  EdifactFormat = "PRICAT"
	QUOTES  EdifactFormat = "QUOTES"
	REMADV  EdifactFormat = "REMADV"
	REQOTE  EdifactFormat = "REQOTE"
	UTILMD  EdifactFormat = "UTILMD"
	UTILTS  EdifactFormat = "UTILTS"
)

// knownFormats is the closed set membership test for EdifactFormat.
var knownFormats = map[EdifactFormat]bool{
	APERAK: true, IFTSTA: true, INSRPT: true, INVOIC: true, MSCONS: true,
	ORDERS: true, ORDRSP: true, PRICAT: true, QUOTES: true, REMADV: true,
	REQOTE: true, UTILMD: true, UTILTS: true,
}

// IsValid reports whether f is one of the closed set of known formats.
func (f EdifactFormat) IsValid() bool { return knownFormats[f] }

// FormatVersion is a date-derived version string, e.g. "FV2310".
type FormatVersion string

// PruefidentifikatorError reports a Prüfidentifikator that does not fit the
// expected 5-digit shape or whose prefix maps to no known format.
type PruefidentifikatorError struct {
	Pruefidentifikator string
}

func (e *PruefidentifikatorError) Error() string {
	return fmt.Sprintf("pruefidentifikator %q cannot be mapped to a known edifact format", e.Pruefidentifikator)
}

// prefixToFormat maps a Prüfidentifikator's first two digits to its format.
// "21" is ambiguous between IFTSTA and PRICAT in the original AHB tables;
// resolving that ambiguity needs the surrounding message context, which is
// outside what a bare Prüfidentifikator string carries, so FormatForPruefidentifikator
// returns IFTSTA for "21" and callers that know better should consult
// FormatForPruefidentifikatorWithContext instead.
var prefixToFormat = map[string]EdifactFormat{
	"11": UTILMD,
	"13": MSCONS,
	"17": ORDERS,
	"19": ORDRSP,
	"21": IFTSTA,
	"23": INSRPT,
	"25": UTILTS,
	"31": INVOIC,
	"33": REMADV,
	"35": REQOTE,
	"99": APERAK,
}

// FormatForPruefidentifikator maps a 5-digit Prüfidentifikator to its
// EDIFACT format using the prefix table of spec §6.
func FormatForPruefidentifikator(pruefidentifikator string) (EdifactFormat, error) {
	if len(pruefidentifikator) != 5 {
		return "", &PruefidentifikatorError{Pruefidentifikator: pruefidentifikator}
	}
	format, ok := prefixToFormat[pruefidentifikator[:2]]
	if !ok {
		return "", &PruefidentifikatorError{Pruefidentifikator: pruefidentifikator}
	}
	return format, nil
}

// FormatForPruefidentifikatorWithContext resolves the "21" prefix's
// IFTSTA/PRICAT ambiguity using a caller-supplied hint, falling back to the
// unambiguous prefix table otherwise.
func FormatForPruefidentifikatorWithContext(pruefidentifikator string, isPricat bool) (EdifactFormat, error) {
	format, err := FormatForPruefidentifikator(pruefidentifikator)
	if err != nil {
		return "", err
	}
	if format == IFTSTA && isPricat {
		return PRICAT, nil
	}
	return format, nil
}
