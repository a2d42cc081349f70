// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"mlssa/internal/config"
	"mlssa/internal/lsp"
)

const lsName = "mlssa"

var (
	version = "0.1.0"
	handler protocol.Handler
)

func main() {
	configPath := flag.String("config", "", "TOML configuration file")
	verbosity := flag.Int("verbosity", 1, "log verbosity")
	flag.Parse()

	commonlog.Configure(*verbosity, nil)
	log := commonlog.GetLogger("mlssa.lsp")

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Errorf("%s", err)
			os.Exit(1)
		}
	}

	mlssaHandler := lsp.NewMlssaHandler(cfg)

	handler = protocol.Handler{
		Initialize:                     mlssaHandler.Initialize,
		Initialized:                    mlssaHandler.Initialized,
		Shutdown:                       mlssaHandler.Shutdown,
		SetTrace:                       mlssaHandler.SetTrace,
		TextDocumentDidOpen:            mlssaHandler.TextDocumentDidOpen,
		TextDocumentDidClose:           mlssaHandler.TextDocumentDidClose,
		TextDocumentDidChange:          mlssaHandler.TextDocumentDidChange,
		TextDocumentCompletion:         mlssaHandler.TextDocumentCompletion,
		TextDocumentSemanticTokensFull: mlssaHandler.TextDocumentSemanticTokensFull,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Infof("starting %s language server %s", lsName, version)

	// Editors talk to the server over standard input/output
	if err := s.RunStdio(); err != nil {
		log.Errorf("language server stopped: %s", err)
		os.Exit(1)
	}
}
