package testutil

import (
	"os"
	"testing"

	"src.optscan.sh/pkg/tt"
)

func TestRecover(t *testing.T) {
	tt.Test(t, tt.Fn("Recover", Recover), tt.Table{
		tt.Args(func() {}).Rets(nil),
		tt.Args(func() {
			panic("unreachable")
		}).Rets("unreachable"),
	})
}

func TestDedent(t *testing.T) {
	tt.Test(t, tt.Fn("Dedent", Dedent), tt.Table{
		tt.Args("\n  a\n    b\n  c").Rets("a\n  b\nc"),
		tt.Args("\t\tx\n\n\t\ty\n\t").Rets("x\n\ny\n"),
		tt.Args("a\n  b").Rets("a\n  b"),
	})
}

func TestInTempDir(t *testing.T) {
	dir := InTempDir(t)
	ApplyDir(Dir{"a/b": "content"})

	data, err := os.ReadFile(dir + "/a/b")
	if err != nil || string(data) != "content" {
		t.Errorf("file a/b has %q, %v; want %q, nil", data, err, "content")
	}
}

func TestSet(t *testing.T) {
	x := 1
	c := &cleanups{}
	Set(c, &x, 2)
	if x != 2 {
		t.Errorf("x = %d after Set, want 2", x)
	}
	c.run()
	if x != 1 {
		t.Errorf("x = %d after cleanup, want 1", x)
	}
}

type cleanups []func()

func (c *cleanups) Cleanup(f func()) { *c = append(*c, f) }

func (c *cleanups) run() {
	for i := len(*c) - 1; i >= 0; i-- {
		(*c)[i]()
	}
}
