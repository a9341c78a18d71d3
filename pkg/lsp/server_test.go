package lsp

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
	"src.optscan.sh/pkg/diag"
	"src.optscan.sh/pkg/testutil"
	"src.optscan.sh/pkg/tt"
)

var helpDoc = testutil.Dedent(`
	Usage: foo [options]
	  -h, --help  Show help.
	  -1  Bad.
	  --input ARG [ARG]  Inputs.
	  -a, -b  Two.
	`)

type diagSummary struct {
	Start, End lsp.Position
	Severity   lsp.DiagnosticSeverity
}

func TestDiagnostics(t *testing.T) {
	diags := diagnostics(helpDoc)
	var got []diagSummary
	for _, d := range diags {
		got = append(got, diagSummary{d.Range.Start, d.Range.End, d.Severity})
	}
	want := []diagSummary{
		{lsp.Position{Line: 2, Character: 3}, lsp.Position{Line: 2, Character: 4}, lsp.Warning},
		{lsp.Position{Line: 3, Character: 0}, lsp.Position{Line: 3, Character: 28}, lsp.Error},
		{lsp.Position{Line: 4, Character: 0}, lsp.Position{Line: 4, Character: 14}, lsp.Error},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}
	if len(diags) == 3 && diags[2].Message != "more than one short option in one declaration group" {
		t.Errorf("got message %q", diags[2].Message)
	}
}

func TestDiagnostics_Clean(t *testing.T) {
	if diags := diagnostics("  -v, --verbose  Verbose.\nSome prose.\n"); len(diags) != 0 {
		t.Errorf("got diagnostics %v, want none", diags)
	}
}

func TestHoverText(t *testing.T) {
	tt.Test(t, tt.Fn("hoverText", hoverText), tt.Table{
		tt.Args("  -j NUM, --jobs NUM  Jobs.").Rets("-j (One)\n--jobs (One)\n\nJobs.\n"),
		tt.Args("--verbose").Rets("--verbose (Zero)\n"),
		tt.Args("Usage: foo").Rets(""),
		tt.Args("-a, -b  Two.").Rets(""),
	})
}

func TestSplitLines(t *testing.T) {
	got := splitLines("a\r\nbc\n")
	want := []docLine{
		{diag.Ranging{From: 0, To: 1}, "a"},
		{diag.Ranging{From: 3, To: 5}, "bc"},
		{diag.Ranging{From: 6, To: 6}, ""},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(docLine{})); diff != "" {
		t.Errorf("splitLines (-want +got):\n%s", diff)
	}
}

func TestPositions(t *testing.T) {
	s := "ab\r\nc😀d"
	tt.Test(t, tt.Fn("lspPositionFromIdx", lspPositionFromIdx), tt.Table{
		tt.Args(s, 0).Rets(lsp.Position{Line: 0, Character: 0}),
		tt.Args(s, 4).Rets(lsp.Position{Line: 1, Character: 0}),
		tt.Args(s, 9).Rets(lsp.Position{Line: 1, Character: 3}),
	})
	tt.Test(t, tt.Fn("lspPositionToIdx", lspPositionToIdx), tt.Table{
		tt.Args(s, lsp.Position{Line: 1, Character: 1}).Rets(5),
		tt.Args(s, lsp.Position{Line: 1, Character: 3}).Rets(9),
	})
}

// Sets up a server and a client connected with a pipe. Notifications sent to
// the client are delivered on the returned channel.
func setup(t *testing.T) (*jsonrpc2.Conn, <-chan *jsonrpc2.Request) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	serverSide, clientSide := net.Pipe()
	jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(serverSide, jsonrpc2.VSCodeObjectCodec{}),
		handler(newServer()))

	notifications := make(chan *jsonrpc2.Request, 10)
	client := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(clientSide, jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.HandlerWithError(func(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
			notifications <- req
			return nil, nil
		}))
	t.Cleanup(func() { client.Close() })
	return client, notifications
}

func TestServer(t *testing.T) {
	client, notifications := setup(t)
	ctx := context.Background()
	uri := lsp.DocumentURI("file:///foo.help")

	var init lsp.InitializeResult
	if err := client.Call(ctx, "initialize", lsp.InitializeParams{}, &init); err != nil {
		t.Fatal(err)
	}
	if !init.Capabilities.HoverProvider {
		t.Errorf("hover not advertised")
	}

	err := client.Notify(ctx, "textDocument/didOpen", lsp.DidOpenTextDocumentParams{
		TextDocument: lsp.TextDocumentItem{URI: uri, Text: helpDoc}})
	if err != nil {
		t.Fatal(err)
	}
	select {
	case req := <-notifications:
		var params lsp.PublishDiagnosticsParams
		if req.Method != "textDocument/publishDiagnostics" ||
			json.Unmarshal(*req.Params, &params) != nil {
			t.Fatalf("got notification %s", req.Method)
		}
		if len(params.Diagnostics) != 3 {
			t.Errorf("got %d diagnostics, want 3", len(params.Diagnostics))
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for diagnostics")
	}

	var hover lsp.Hover
	err = client.Call(ctx, "textDocument/hover", lsp.TextDocumentPositionParams{
		TextDocument: lsp.TextDocumentIdentifier{URI: uri},
		Position:     lsp.Position{Line: 1, Character: 4}}, &hover)
	if err != nil {
		t.Fatal(err)
	}
	if len(hover.Contents) != 1 ||
		hover.Contents[0].Value != "-h (Zero)\n--help (Zero)\n\nShow help.\n" {
		t.Errorf("got hover %+v", hover)
	}

	err = client.Call(ctx, "textDocument/unknown", nil, nil)
	if rpcErr, ok := err.(*jsonrpc2.Error); !ok || rpcErr.Code != jsonrpc2.CodeMethodNotFound {
		t.Errorf("got error %v, want method not found", err)
	}
}
