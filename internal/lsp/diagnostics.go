package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/hochfrequenz/ahbicht-go/classify"
	"github.com/hochfrequenz/ahbicht-go/internal/resolver"
	"github.com/hochfrequenz/ahbicht-go/parser"
	"github.com/hochfrequenz/ahbicht-go/providers"
)

// ConvertParseError turns a parser.Parse/ParseAhb failure into an LSP
// diagnostic anchored at the reported position.
func ConvertParseError(err error) []protocol.Diagnostic {
	syntaxErr, ok := err.(*parser.SyntaxError)
	if !ok {
		return []protocol.Diagnostic{{
			Range:    protocol.Range{Start: protocol.Position{}, End: protocol.Position{Character: 1}},
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("ahbicht-parser"),
			Message:  err.Error(),
		}}
	}

	line := uint32(0)
	if syntaxErr.Pos.Line > 0 {
		line = uint32(syntaxErr.Pos.Line - 1)
	}
	column := uint32(0)
	if syntaxErr.Pos.Column > 0 {
		column = uint32(syntaxErr.Pos.Column - 1)
	}

	return []protocol.Diagnostic{{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: column},
			End:   protocol.Position{Line: line, Character: column + 1},
		},
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("ahbicht-parser"),
		Message:  syntaxErr.Message,
	}}
}

// ConvertClassifyError reports an out-of-range or malformed condition key
// found while extracting categorized keys.
func ConvertClassifyError(err *classify.InvalidKeyRangeError) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range:    protocol.Range{Start: protocol.Position{}, End: protocol.Position{Character: 1}},
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("ahbicht-classifier"),
		Message:  err.Error(),
	}
}

// ConvertPackageUnresolvableError reports a package abbreviation the
// configured PackageResolver (see resolver.Options, providers.PackageResolver)
// could not expand.
func ConvertPackageUnresolvableError(err *resolver.PackageUnresolvableError) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range:    protocol.Range{Start: protocol.Position{}, End: protocol.Position{Character: 1}},
		Severity: ptrSeverity(protocol.DiagnosticSeverityWarning),
		Source:   ptrString("ahbicht-resolver"),
		Message:  err.Error(),
	}
}

// ConvertNotImplementedError reports a condition key with no registered
// RC/FC evaluator.
func ConvertNotImplementedError(err *providers.NotImplementedError) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range:    protocol.Range{Start: protocol.Position{}, End: protocol.Position{Character: 1}},
		Severity: ptrSeverity(protocol.DiagnosticSeverityWarning),
		Source:   ptrString("ahbicht-provider"),
		Message:  err.Error(),
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
