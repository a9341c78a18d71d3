package store_test

import (
	"path/filepath"
	"testing"

	"src.optscan.sh/pkg/store"
	"src.optscan.sh/pkg/store/storedefs"
	"src.optscan.sh/pkg/store/storetest"
	"src.optscan.sh/pkg/testutil"
)

func TestHelpText(t *testing.T) {
	st, cleanup := store.MustGetTempStore()
	defer cleanup()
	storetest.TestHelpText(t, st)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dbname := filepath.Join(testutil.TempDir(t), "cache.db")
	st, err := store.NewStore(dbname)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.PutHelpText([]string{"git", "commit"}, "usage: git commit"); err != nil {
		t.Fatal(err)
	}
	st.Close()

	st, err = store.NewStore(dbname)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	text, err := st.HelpText([]string{"git", "commit"}, 0)
	if text != "usage: git commit" || err != nil {
		t.Errorf("got (%q, %v) after reopen", text, err)
	}
	_, err = st.HelpText([]string{"git"}, 0)
	if err != storedefs.ErrNoHelpText {
		t.Errorf("got error %v for different path, want ErrNoHelpText", err)
	}
}
