package testutil

import (
	"os"
	"path/filepath"

	"src.optscan.sh/pkg/must"
)

// TempDir creates a temporary directory for testing that will be removed
// after the test finishes. The path has all symlinks resolved.
func TempDir(c Cleanuper) string {
	dir := must.OK1(os.MkdirTemp("", "optscantest"))
	dir = must.OK1(filepath.EvalSymlinks(dir))
	c.Cleanup(func() {
		err := os.RemoveAll(dir)
		if err != nil {
			println("failed to remove temp dir", dir)
		}
	})
	return dir
}

// InTempDir is like TempDir, but also changes into the directory for the
// duration of the test. It returns the directory.
func InTempDir(c Cleanuper) string {
	dir := TempDir(c)
	Chdir(c, dir)
	return dir
}

// Chdir changes into a directory, and restores the original working directory
// when a test ends.
func Chdir(c Cleanuper, dir string) {
	oldWd := must.OK1(os.Getwd())
	must.OK(os.Chdir(dir))
	c.Cleanup(func() { must.OK(os.Chdir(oldWd)) })
}

// Dir describes the layout of a directory. Keys are file names; values are
// file contents.
type Dir map[string]string

// ApplyDir creates the files described by dir in the working directory.
func ApplyDir(dir Dir) {
	for name, content := range dir {
		must.WriteFile(name, content)
	}
}
