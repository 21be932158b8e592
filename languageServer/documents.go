package languageServer

import (
	"context"
	"encoding/json"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/hlasmtools/hlasm-ls/analyzer"
	"github.com/hlasmtools/hlasm-ls/diagnostics"
	"github.com/hlasmtools/hlasm-ls/library"
	"github.com/hlasmtools/hlasm-ls/util"
)

var documentMap = make(map[string]TextDocumentItem) // map from uri to document

// Libraries resolves COPY members for every analysis run; main wires it
// from the configuration.
var Libraries library.Provider = library.Empty

func analyzeAndReportDiagnostics(conn *jsonrpc2.Conn, uri DocumentUri) []diagnostics.Diagnostic {
	doc := documentMap[string(uri)]

	result := analyzer.Analyze(doc.Text, analyzer.Options{
		FileName:  string(uri),
		Libraries: Libraries,
	})
	diags := result.Diagnostics
	if diags == nil {
		diags = make([]diagnostics.Diagnostic, 0)
	}
	doc.lastAnalysisResult = result
	documentMap[string(uri)] = doc
	return diags
}

func documentOpenNotification(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := DidOpenTextDocumentParams{}
	err := json.Unmarshal(*req.Params, &decodedParams)
	if err != nil {
		rpcErr := jsonrpc2.Error{}
		rpcErr.SetError("invalid parameters")
		conn.ReplyWithError(context.Background(), req.ID, &rpcErr)
		return
	}

	documentMap[string(decodedParams.TextDocument.URI)] = decodedParams.TextDocument

	diags := analyzeAndReportDiagnostics(conn, decodedParams.TextDocument.URI)
	conn.Notify(context.Background(), "textDocument/publishDiagnostics", PublishDiagnosticsParams{
		URI:         decodedParams.TextDocument.URI,
		Diagnostics: diags,
	})
}

func documentCloseNotification(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := DidCloseTextDocumentParams{}
	err := json.Unmarshal(*req.Params, &decodedParams)
	if err != nil {
		rpcErr := jsonrpc2.Error{}
		rpcErr.SetError("invalid parameters")
		conn.ReplyWithError(context.Background(), req.ID, &rpcErr)
		return
	}

	delete(documentMap, string(decodedParams.TextDocument.URI))
}

func documentChangeNotification(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := DidChangeTextDocumentParams{}
	err := json.Unmarshal(*req.Params, &decodedParams)
	if err != nil {
		rpcErr := jsonrpc2.Error{}
		rpcErr.SetError("invalid parameters")
		conn.ReplyWithError(context.Background(), req.ID, &rpcErr)
		return
	}

	doc := documentMap[string(decodedParams.TextDocument.URI)]
	doc.Text = decodedParams.ContentChanges[0].Text
	doc.Version = decodedParams.TextDocument.Version
	documentMap[string(decodedParams.TextDocument.URI)] = doc

	diags := analyzeAndReportDiagnostics(conn, decodedParams.TextDocument.URI)
	conn.Notify(context.Background(), "textDocument/publishDiagnostics", PublishDiagnosticsParams{
		URI:         decodedParams.TextDocument.URI,
		Version:     doc.Version,
		Diagnostics: diags,
	})
}

func documentDiagnostics(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := DocumentDiagnosticsParams{}
	err := json.Unmarshal(*req.Params, &decodedParams)
	if err != nil {
		rpcErr := jsonrpc2.Error{}
		rpcErr.SetError("invalid parameters")
		conn.ReplyWithError(context.Background(), req.ID, &rpcErr)
		return
	}

	diags := analyzeAndReportDiagnostics(conn, decodedParams.TextDocument.URI)
	conn.Reply(context.Background(), req.ID, DocumentDiagnosticsReport{
		Kind:  "full",
		Items: diags,
	})
	util.LogF("hlasm-ls: reported %d diagnostics", len(diags))
}
