package rewards

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveWritesHexPlusNewline(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	privKeyHex := strings.Repeat("ab", 32)
	if err := store.Save(12345, privKeyHex); err != nil {
		t.Fatalf("Save: %v", err)
	}

	contents, err := os.ReadFile(filepath.Join(dir, "12345.coin"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(contents) != privKeyHex+"\n" {
		t.Fatalf("contents = %q, want %q", contents, privKeyHex+"\n")
	}
}

func TestSaveRunsOnMinedHookWithSubstitutedCoinID(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "ran-%lu")
	store, err := New(dir, "touch "+marker)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := store.Save(777, strings.Repeat("00", 32)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "ran-777")); err != nil {
		t.Fatalf("on_mined hook did not run with substituted coin id: %v", err)
	}
}

func TestSaveHookFailureDoesNotRemoveRewardFile(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, "exit 1")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	err = store.Save(1, strings.Repeat("11", 32))
	if err == nil {
		t.Fatalf("expected hook error, got nil")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "1.coin")); statErr != nil {
		t.Fatalf("reward file missing despite hook failure: %v", statErr)
	}
}
