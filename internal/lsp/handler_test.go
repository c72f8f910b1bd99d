package lsp_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/hochfrequenz/ahbicht-go/internal/lsp"
	"github.com/hochfrequenz/ahbicht-go/internal/quad"
	"github.com/hochfrequenz/ahbicht-go/providers"
)

// recordingContext returns a glsp.Context whose Notify stores the most
// recently published diagnostics in *published.
func recordingContext(published *[]protocol.Diagnostic) *glsp.Context {
	return &glsp.Context{Notify: func(_ string, params any) {
		if p, ok := params.(*protocol.PublishDiagnosticsParams); ok {
			*published = p.Diagnostics
		}
	}}
}

func TestTextDocumentDidOpenReportsSyntaxError(t *testing.T) {
	handler := lsp.NewHandler(nil, nil, nil)
	var published []protocol.Diagnostic
	ctx := recordingContext(&published)

	err := handler.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:  "file:///expr.ahb",
			Text: "Muss[",
		},
	})
	assert.NoError(t, err)
	if assert.Len(t, published, 1) {
		assert.Equal(t, "ahbicht-parser", *published[0].Source)
	}
}

func TestTextDocumentDidOpenAcceptsWellFormedExpression(t *testing.T) {
	handler := lsp.NewHandler(nil, nil, nil)
	var published []protocol.Diagnostic
	ctx := recordingContext(&published)

	err := handler.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:  "file:///expr.ahb",
			Text: "Muss [1] U [2]",
		},
	})
	assert.NoError(t, err)
	assert.Empty(t, published)
}

func TestTextDocumentDidOpenReportsUnresolvablePackage(t *testing.T) {
	packageResolver, err := providers.NewDictPackageResolver(nil)
	assert.NoError(t, err)
	handler := lsp.NewHandler(packageResolver, nil, nil)
	var published []protocol.Diagnostic
	ctx := recordingContext(&published)

	err = handler.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:  "file:///expr.ahb",
			Text: "Muss [1P]",
		},
	})
	assert.NoError(t, err)
	if assert.Len(t, published, 1) {
		assert.Equal(t, "ahbicht-resolver", *published[0].Source)
	}
}

func TestTextDocumentDidOpenReportsUnimplementedRcEvaluator(t *testing.T) {
	rcEvaluator := stubRcEvaluator{}
	handler := lsp.NewHandler(nil, rcEvaluator, nil)
	var published []protocol.Diagnostic
	ctx := recordingContext(&published)

	err := handler.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:  "file:///expr.ahb",
			Text: "Muss [1]",
		},
	})
	assert.NoError(t, err)
	if assert.Len(t, published, 1) {
		assert.Equal(t, "ahbicht-provider", *published[0].Source)
	}
}

type stubRcEvaluator struct{}

func (stubRcEvaluator) Evaluate(_ context.Context, key string) (quad.Value, error) {
	return quad.Unknown, &providers.NotImplementedError{Key: key}
}

func TestTextDocumentDidCloseForgetsDocument(t *testing.T) {
	handler := lsp.NewHandler(nil, nil, nil)
	var published []protocol.Diagnostic
	ctx := recordingContext(&published)

	assert.NoError(t, handler.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: "file:///expr.ahb", Text: "Muss [1]"},
	}))
	assert.NoError(t, handler.TextDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///expr.ahb"},
	}))
}
