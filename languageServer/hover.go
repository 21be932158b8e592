package languageServer

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/hlasmtools/hlasm-ls/analyzer"
	"github.com/hlasmtools/hlasm-ls/diagnostics"
)

func hoverRequest(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := TextDocumentPositionParams{}
	err := json.Unmarshal(*req.Params, &decodedParams)
	if err != nil {
		rpcErr := jsonrpc2.Error{}
		rpcErr.SetError("invalid parameters")
		conn.ReplyWithError(context.Background(), req.ID, &rpcErr)
		return
	}

	doc := documentMap[string(decodedParams.TextDocument.URI)]
	text, ok := evaluateHover(doc.lastAnalysisResult, decodedParams.Position)
	if !ok {
		conn.Reply(context.Background(), req.ID, nil)
		return
	}

	conn.Reply(context.Background(), req.ID, Hover{
		Contents: MarkupContent{
			Kind:  "markdown",
			Value: text,
		},
	})
}

// evaluateHover serves the cross-reference value lines of the ordinary
// symbol under the cursor.
func evaluateHover(result *analyzer.Result, pos diagnostics.TextPosition) (string, bool) {
	if result == nil {
		return "", false
	}
	for _, info := range result.Context.LSP.OrdSymbols {
		if containsPosition(info.Definition.Rng, pos) {
			return strings.Join(info.Value, "  \n"), true
		}
		for _, occ := range info.Occurrences {
			if containsPosition(occ.Rng, pos) {
				return strings.Join(info.Value, "  \n"), true
			}
		}
	}
	return "", false
}

func containsPosition(r diagnostics.TextRange, pos diagnostics.TextPosition) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Char < r.Start.Char {
		return false
	}
	if pos.Line == r.End.Line && pos.Char > r.End.Char {
		return false
	}
	return true
}
