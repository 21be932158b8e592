package languageServer

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"

	"github.com/gorilla/websocket"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/hlasmtools/hlasm-ls/util"
)

type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdrwc) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}

// ListenAndServe runs the language server on stdin/stdout.
func ListenAndServe() {
	h := handler{}
	<-jsonrpc2.NewConn(context.Background(), jsonrpc2.NewBufferedStream(stdrwc{}, jsonrpc2.VSCodeObjectCodec{}), h).DisconnectNotify()
}

// ListenAndServeTCP serves jsonrpc2 connections over TCP so the server can
// be debugged remotely.
func ListenAndServeTCP(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer lis.Close()

	util.Log.Infof("hlasm-ls: listening for TCP connections on %s", addr)

	connectionCount := 0
	for {
		conn, err := lis.Accept()
		if err != nil {
			return err
		}
		connectionCount++
		connectionID := connectionCount
		util.Log.Infof("hlasm-ls: received incoming connection #%d", connectionID)
		jsonrpc2Connection := jsonrpc2.NewConn(context.Background(), jsonrpc2.NewBufferedStream(conn, jsonrpc2.VSCodeObjectCodec{}), handler{})
		go func() {
			<-jsonrpc2Connection.DisconnectNotify()
			util.Log.Infof("hlasm-ls: connection #%d closed", connectionID)
		}()
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// wsrwc adapts a websocket connection to the stream interface jsonrpc2
// expects, one LSP frame per binary message.
type wsrwc struct {
	conn   *websocket.Conn
	reader io.Reader
}

func (w *wsrwc) Read(p []byte) (int, error) {
	for {
		if w.reader == nil {
			_, r, err := w.conn.NextReader()
			if err != nil {
				return 0, err
			}
			w.reader = r
		}
		n, err := w.reader.Read(p)
		if err == io.EOF {
			w.reader = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (w *wsrwc) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *wsrwc) Close() error {
	return w.conn.Close()
}

// ListenAndServeWebSocket serves jsonrpc2 over websocket connections, for
// browser-hosted editors.
func ListenAndServeWebSocket(addr string) error {
	http.HandleFunc("/", func(rw http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(rw, req, nil)
		if err != nil {
			util.Log.Warnf("hlasm-ls: websocket upgrade failed: %v", err)
			return
		}
		jsonrpc2Connection := jsonrpc2.NewConn(context.Background(), jsonrpc2.NewBufferedStream(&wsrwc{conn: conn}, jsonrpc2.VSCodeObjectCodec{}), handler{})
		go func() {
			<-jsonrpc2Connection.DisconnectNotify()
			util.Log.Info("hlasm-ls: websocket connection closed")
		}()
	})
	util.Log.Infof("hlasm-ls: listening for websocket connections on %s", addr)
	return http.ListenAndServe(addr, nil)
}

type handler struct{}

func (h handler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	util.LogF("hlasm-ls: received request: %s", req.Method)
	switch req.Method {
	case "textDocument/didOpen":
		documentOpenNotification(conn, req)
	case "textDocument/didClose":
		documentCloseNotification(conn, req)
	case "textDocument/didChange":
		documentChangeNotification(conn, req)
	case "initialize":
		handleInitialize(conn, req)
	case "textDocument/diagnostic":
		documentDiagnostics(conn, req)
	case "textDocument/hover":
		hoverRequest(conn, req)

	// quitting
	case "shutdown":
		conn.Reply(context.Background(), req.ID, nil)
		conn.Close()
	case "exit":
		conn.Reply(context.Background(), req.ID, nil)
		conn.Close()
	}
}

func handleInitialize(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := InitializeParams{}
	err := json.Unmarshal(*req.Params, &decodedParams)
	if err != nil {
		rpcErr := jsonrpc2.Error{}
		rpcErr.SetError("invalid parameters")
		conn.ReplyWithError(context.Background(), req.ID, &rpcErr)
		return
	}

	result := InitializeResult{}
	result.Capabilities.TextDocumentSync = 1
	result.Capabilities.HoverProvider = true
	conn.Reply(context.Background(), req.ID, result)
}
