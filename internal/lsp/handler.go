// Package lsp implements a language-server front end for AHB condition
// expressions: it reports syntax errors, out-of-range condition keys and
// unresolvable packages as diagnostics as the user types.
package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/hochfrequenz/ahbicht-go/ast"
	"github.com/hochfrequenz/ahbicht-go/classify"
	"github.com/hochfrequenz/ahbicht-go/internal/resolver"
	"github.com/hochfrequenz/ahbicht-go/keys"
	"github.com/hochfrequenz/ahbicht-go/parser"
	"github.com/hochfrequenz/ahbicht-go/providers"
)

// Handler implements the LSP server handlers for AHB condition expressions.
// Each open document is treated as a single expression; PackageResolver is
// used to validate package references (e.g. "[123P]") found while editing.
// RcEvaluator/FcEvaluator are optional: when set, any key they don't
// recognize is reported as an unimplemented-evaluator warning.
type Handler struct {
	mu              sync.RWMutex
	content         map[string]string
	trees           map[string]*ast.AhbExpression
	packageResolver providers.PackageResolver
	rcEvaluator     providers.RcEvaluator
	fcEvaluator     providers.FcEvaluator
}

// NewHandler creates a Handler. packageResolver may be nil, in which case
// every package reference is reported unresolvable. rcEvaluator/fcEvaluator
// may also be nil, in which case no unimplemented-evaluator warnings are
// ever reported.
func NewHandler(packageResolver providers.PackageResolver, rcEvaluator providers.RcEvaluator, fcEvaluator providers.FcEvaluator) *Handler {
	if packageResolver == nil {
		packageResolver, _ = providers.NewDictPackageResolver(nil)
	}
	return &Handler{
		content:         make(map[string]string),
		trees:           make(map[string]*ast.AhbExpression),
		packageResolver: packageResolver,
		rcEvaluator:     rcEvaluator,
		fcEvaluator:     fcEvaluator,
	}
}

// Initialize responds to the LSP client's initialize request and advertises
// the server's capabilities.
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

// Initialized is called after the client receives the server's capabilities.
func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("ahbicht LSP Initialized")
	return nil
}

// Shutdown handles the LSP shutdown request.
func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Println("ahbicht LSP Shutdown")
	return nil
}

// TextDocumentDidOpen handles file open notifications from the editor.
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Printf("Opened expression: %s\n", params.TextDocument.URI)

	diagnostics, err := h.updateTree(params.TextDocument.URI, params.TextDocument.Text)
	if err != nil {
		return fmt.Errorf("failed to update expression: %w", err)
	}
	sendDiagnosticNotification(ctx, params.TextDocument.URI, diagnostics)
	return nil
}

// TextDocumentDidClose handles file close notifications from the editor.
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Printf("Closed expression: %s\n", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, path)
	delete(h.trees, path)
	return nil
}

// TextDocumentDidChange handles file change notifications from the editor.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Printf("Changed expression: %s\n", params.TextDocument.URI)

	if len(params.ContentChanges) == 0 {
		return nil
	}
	change, ok := params.ContentChanges[len(params.ContentChanges)-1].(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		return fmt.Errorf("unsupported content change event for %s", params.TextDocument.URI)
	}

	diagnostics, err := h.updateTree(params.TextDocument.URI, change.Text)
	if err != nil {
		return fmt.Errorf("failed to update expression: %w", err)
	}
	sendDiagnosticNotification(ctx, params.TextDocument.URI, diagnostics)
	return nil
}

// TextDocumentCompletion returns an empty completion list; AHB expressions
// have no meaningful identifier completion beyond the fixed operator set.
func (h *Handler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (interface{}, error) {
	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        []protocol.CompletionItem{},
	}, nil
}

// updateTree parses text, stores the resulting tree, and returns the
// diagnostics the editor should see: a single parse error, a single
// out-of-range-key error, or zero or more warnings about unresolvable
// packages and keys without a registered evaluator.
func (h *Handler) updateTree(rawURI protocol.DocumentUri, text string) ([]protocol.Diagnostic, error) {
	path, err := uriToPath(rawURI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	tree, err := parser.ParseAhb(text)
	if err != nil {
		return ConvertParseError(err), nil
	}

	h.mu.Lock()
	h.content[path] = text
	h.trees[path] = tree
	h.mu.Unlock()

	return h.collectWarnings(tree), nil
}

func (h *Handler) collectWarnings(tree *ast.AhbExpression) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic

	extract, err := keys.ExtractFromAhb(tree)
	if err != nil {
		var rangeErr *classify.InvalidKeyRangeError
		if errors.As(err, &rangeErr) {
			diagnostics = append(diagnostics, ConvertClassifyError(rangeErr))
		}
		return diagnostics
	}

	for _, indicator := range tree.Indicators {
		if indicator.Body == nil {
			continue
		}
		if _, err := resolver.Resolve(context.Background(), indicator.Body, h.packageResolver, resolver.Options{}); err != nil {
			var unresolvable *resolver.PackageUnresolvableError
			if errors.As(err, &unresolvable) {
				diagnostics = append(diagnostics, ConvertPackageUnresolvableError(unresolvable))
			}
		}
	}

	diagnostics = append(diagnostics, h.collectNotImplementedWarnings(extract)...)

	return diagnostics
}

// collectNotImplementedWarnings reports RC/FC keys that the configured
// evaluators don't recognize. The fulfillment state/entered input used here
// are throwaways; only whether the evaluator call fails with
// providers.NotImplementedError is observed.
func (h *Handler) collectNotImplementedWarnings(extract *keys.CategorizedKeyExtract) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic
	ctx := context.Background()

	if h.rcEvaluator != nil {
		for _, key := range extract.RcKeys {
			if _, err := h.rcEvaluator.Evaluate(ctx, key); err != nil {
				var notImplemented *providers.NotImplementedError
				if errors.As(err, &notImplemented) {
					diagnostics = append(diagnostics, ConvertNotImplementedError(notImplemented))
				}
			}
		}
	}

	if h.fcEvaluator != nil {
		for _, key := range extract.FcKeys {
			if _, err := h.fcEvaluator.Evaluate(ctx, key, ""); err != nil {
				var notImplemented *providers.NotImplementedError
				if errors.As(err, &notImplemented) {
					diagnostics = append(diagnostics, ConvertNotImplementedError(notImplemented))
				}
			}
		}
	}

	return diagnostics
}

func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	diagnosticsJSON, err := json.MarshalIndent(diagnostics, "", "  ")
	if err != nil {
		fmt.Println("Failed to marshal diagnostics:", err)
		return
	}
	log.Println("Sending diagnostics:", string(diagnosticsJSON))

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
