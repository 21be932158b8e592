package languageServer

import (
	"github.com/hlasmtools/hlasm-ls/analyzer"
	"github.com/hlasmtools/hlasm-ls/diagnostics"
)

type TextDocumentItem struct {
	URI                DocumentUri `json:"uri"`
	LanguageID         string      `json:"languageId"`
	Version            int         `json:"version"`
	Text               string      `json:"text"`
	lastAnalysisResult *analyzer.Result
}

type DocumentUri string

type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type TextDocumentIdentifier struct {
	URI DocumentUri `json:"uri"`
}

type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type VersionedTextDocumentIdentifier struct {
	URI     DocumentUri `json:"uri"`
	Version int         `json:"version"`
}

type TextDocumentContentChangeEvent struct {
	Text string `json:"text"` // only the full-change capability is registered
}

type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

type InitializeParams struct {
	ProcessID int `json:"processId"` // the rest is not consumed
}

type DocumentDiagnosticsParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type DocumentDiagnosticsReport struct {
	Kind  string                   `json:"kind"` // always "full"
	Items []diagnostics.Diagnostic `json:"items"`
}

type PublishDiagnosticsParams struct {
	URI         DocumentUri              `json:"uri"`
	Version     int                      `json:"version"`
	Diagnostics []diagnostics.Diagnostic `json:"diagnostics"`
}

type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier    `json:"textDocument"`
	Position     diagnostics.TextPosition  `json:"position"`
}

type MarkupContent struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type Hover struct {
	Contents MarkupContent `json:"contents"`
}

// Capabilities

type DiagnosticOptions struct {
	WorkDoneProgress      bool `json:"workDoneProgress"`
	InterFileDependencies bool `json:"interFileDependencies"`
	WorkspaceDiagnostics  bool `json:"workspaceDiagnostics"`
}

type ServerCapabilities struct {
	TextDocumentSync  int               `json:"textDocumentSync"`
	DiagnosticOptions DiagnosticOptions `json:"diagnosticOptions"`
	HoverProvider     bool              `json:"hoverProvider"`
}

type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
}
