// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"src.optscan.sh/pkg/store/storedefs"
)

// TestHelpText tests the help text functionality of a Store.
func TestHelpText(t *testing.T, store storedefs.Store) {
	root := []string{"catkin"}
	build := []string{"catkin", "build"}

	_, err := store.HelpText(root, 0)
	if !matchErr(err, storedefs.ErrNoHelpText) {
		t.Errorf("HelpText of missing entry -> error %v, want %v", err, storedefs.ErrNoHelpText)
	}

	for _, entry := range []struct {
		path []string
		text string
	}{{build, "usage: catkin build"}, {root, "usage: catkin"}} {
		if err := store.PutHelpText(entry.path, entry.text); err != nil {
			t.Errorf("PutHelpText(%q) -> error %v", entry.path, err)
		}
	}

	text, err := store.HelpText(build, time.Hour)
	if text != "usage: catkin build" || err != nil {
		t.Errorf("HelpText(%q) -> (%q, %v), want (%q, nil)",
			build, text, err, "usage: catkin build")
	}

	paths, err := store.HelpTextPaths()
	if err != nil {
		t.Errorf("HelpTextPaths -> error %v", err)
	}
	if diff := cmp.Diff([][]string{root, build}, paths); diff != "" {
		t.Errorf("HelpTextPaths (-want +got):\n%s", diff)
	}

	time.Sleep(10 * time.Millisecond)
	_, err = store.HelpText(root, time.Millisecond)
	if !matchErr(err, storedefs.ErrNoHelpText) {
		t.Errorf("HelpText of stale entry -> error %v, want %v", err, storedefs.ErrNoHelpText)
	}
	text, err = store.HelpText(root, 0)
	if text != "usage: catkin" || err != nil {
		t.Errorf("HelpText with no max age -> (%q, %v)", text, err)
	}

	if err := store.DelHelpText(root); err != nil {
		t.Errorf("DelHelpText(%q) -> error %v", root, err)
	}
	_, err = store.HelpText(root, 0)
	if !matchErr(err, storedefs.ErrNoHelpText) {
		t.Errorf("HelpText after DelHelpText -> error %v, want %v", err, storedefs.ErrNoHelpText)
	}
}

func matchErr(e1, e2 error) bool {
	return (e1 == nil && e2 == nil) || (e1 != nil && e2 != nil && e1.Error() == e2.Error())
}
