// SPDX-License-Identifier: Apache-2.0
package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/hochfrequenz/ahbicht-go/internal/lsp"
)

const lsName = "ahbicht"

var (
	version = "0.0.1"
	handler protocol.Handler
)

func main() {
	commonlog.Configure(1, nil)

	ahbHandler := lsp.NewHandler(nil, nil, nil)

	handler = protocol.Handler{
		Initialize:             ahbHandler.Initialize,
		Initialized:            ahbHandler.Initialized,
		Shutdown:               ahbHandler.Shutdown,
		TextDocumentDidOpen:    ahbHandler.TextDocumentDidOpen,
		TextDocumentDidClose:   ahbHandler.TextDocumentDidClose,
		TextDocumentDidChange:  ahbHandler.TextDocumentDidChange,
		TextDocumentCompletion: ahbHandler.TextDocumentCompletion,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Println("Starting ahbicht LSP server...")

	if err := s.RunStdio(); err != nil {
		log.Println("Error starting ahbicht LSP server:", err)
		os.Exit(1)
	}
}
