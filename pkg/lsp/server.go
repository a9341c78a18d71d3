package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
	"src.optscan.sh/pkg/complete"
	"src.optscan.sh/pkg/diag"
	"src.optscan.sh/pkg/helpparse"
	"src.optscan.sh/pkg/helptext"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

type server struct {
	mu      sync.Mutex
	content map[lsp.DocumentURI]string
}

func newServer() *server {
	return &server{content: make(map[lsp.DocumentURI]string)}
}

func handler(s *server) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":             s.initialize,
		"textDocument/didOpen":   s.didOpen,
		"textDocument/didChange": s.didChange,
		"textDocument/didClose":  s.didClose,
		"textDocument/hover":     s.hover,

		// Required by spec.
		"initialized": noop,
		// Called by clients even when server doesn't advertise support:
		// https://microsoft.github.io/language-server-protocol/specification#workspace_didChangeWatchedFiles
		"workspace/didChangeWatchedFiles": noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

// Handler implementations. These are all called synchronously.

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			HoverProvider: true,
		},
	}, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri, content := params.TextDocument.URI, params.TextDocument.Text
	s.setContent(uri, content)
	go publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil || len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}

	// ContentChanges includes full text since the server is only advertised to
	// support that; see the initialize method.
	uri, content := params.TextDocument.URI, params.ContentChanges[0].Text
	s.setContent(uri, content)
	go publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didClose(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.content, params.TextDocument.URI)
	return nil, nil
}

func (s *server) hover(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.TextDocumentPositionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	s.mu.Lock()
	content := s.content[params.TextDocument.URI]
	s.mu.Unlock()

	idx := lspPositionToIdx(content, params.Position)
	for _, l := range splitLines(content) {
		if idx < l.From || idx > l.To {
			continue
		}
		text := hoverText(l.text)
		if text == "" {
			break
		}
		rg := lspRangeFromRange(content, l.Ranging)
		return lsp.Hover{
			Contents: []lsp.MarkedString{{Language: "text", Value: text}},
			Range:    &rg,
		}, nil
	}
	return lsp.Hover{}, nil
}

func (s *server) setContent(uri lsp.DocumentURI, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content[uri] = content
}

// Describes the declarations of an option line, or returns "" if the line
// does not declare options.
func hoverText(text string) string {
	line, err := parseLine(text)
	if err != nil {
		return ""
	}
	var sb strings.Builder
	for _, decl := range line.Decls {
		fmt.Fprintln(&sb, decl)
	}
	if line.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", line.Description)
	}
	return sb.String()
}

func publishDiagnostics(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, content string) {
	conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: diagnostics(content)})
}

func diagnostics(content string) []lsp.Diagnostic {
	diags := []lsp.Diagnostic{}
	for _, l := range splitLines(content) {
		if !helptext.LooksLikeOption(l.text) {
			continue
		}
		_, err := parseLine(l.text)
		if err == nil {
			continue
		}
		if iv, ok := err.(*helpparse.InvariantViolation); ok {
			diags = append(diags, lsp.Diagnostic{
				Range:    lspRangeFromRange(content, l.Ranging),
				Severity: lsp.Error,
				Source:   "optscan",
				Message:  iv.Reason,
			})
			continue
		}
		if e, ok := diag.AsError(err, helpparse.NoMatchType); ok {
			rg := e.Range()
			diags = append(diags, lsp.Diagnostic{
				Range: lspRangeFromRange(content,
					diag.Ranging{From: l.From + rg.From, To: l.From + rg.To}),
				Severity: lsp.Warning,
				Source:   "optscan",
				Message:  e.Message,
			})
		}
	}
	return diags
}

// Parses a line and groups its declarations, turning an invariant violation
// into a returned error.
func parseLine(text string) (line helpparse.Line, err error) {
	defer func() {
		if r := recover(); r != nil {
			iv, ok := r.(*helpparse.InvariantViolation)
			if !ok {
				panic(r)
			}
			err = iv
		}
	}()
	line, err = helpparse.ParseLine(text)
	if err == nil {
		complete.Group(line, complete.Scope{})
	}
	return line, err
}

type docLine struct {
	diag.Ranging
	text string
}

// Splits content into lines, recording the byte range of each line without
// its line terminator.
func splitLines(content string) []docLine {
	var lines []docLine
	from := 0
	for {
		i := strings.IndexByte(content[from:], '\n')
		to := len(content)
		if i >= 0 {
			to = from + i
		}
		text := strings.TrimSuffix(content[from:to], "\r")
		lines = append(lines, docLine{diag.Ranging{From: from, To: from + len(text)}, text})
		if i < 0 {
			return lines
		}
		from = to + 1
	}
}

func lspRangeFromRange(s string, r diag.Ranger) lsp.Range {
	rg := r.Range()
	return lsp.Range{
		Start: lspPositionFromIdx(s, rg.From),
		End:   lspPositionFromIdx(s, rg.To),
	}
}

func lspPositionToIdx(s string, pos lsp.Position) int {
	var idx int
	walkString(s, func(i int, p lsp.Position) bool {
		idx = i
		return p.Line < pos.Line || (p.Line == pos.Line && p.Character < pos.Character)
	})
	return idx
}

func lspPositionFromIdx(s string, idx int) lsp.Position {
	var pos lsp.Position
	walkString(s, func(i int, p lsp.Position) bool {
		pos = p
		return i < idx
	})
	return pos
}

// Generates (index, lspPosition) pairs in s, stopping if f returns false.
func walkString(s string, f func(i int, p lsp.Position) bool) {
	var p lsp.Position
	lastCR := false

	for i, r := range s {
		if !f(i, p) {
			return
		}
		switch {
		case r == '\r':
			p.Line++
			p.Character = 0
		case r == '\n':
			if lastCR {
				// Ignore \n if it's part of a \r\n sequence
			} else {
				p.Line++
				p.Character = 0
			}
		case r <= 0xFFFF:
			// Encoded in UTF-16 with one unit
			p.Character++
		default:
			// Encoded in UTF-16 with two units
			p.Character += 2
		}
		lastCR = r == '\r'
	}
	f(len(s), p)
}
