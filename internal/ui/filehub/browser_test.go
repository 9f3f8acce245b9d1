package filehub

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeHubFile(t *testing.T, root string, relative string, content string) {
	t.Helper()
	path := filepath.Join(root, relative)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestBrowserGroupsFilesByTopFolder(t *testing.T) {
	root := t.TempDir()
	writeHubFile(t, root, "reports/summary.md", "# Summary\n")
	writeHubFile(t, root, "reports/details.md", "details\n")
	writeHubFile(t, root, "exports/usage.csv", "a,b\n")

	browser, err := NewBrowser(root)
	if err != nil {
		t.Fatalf("new browser: %v", err)
	}
	folders := browser.Folders()
	if len(folders) != 2 || folders[0] != "exports" || folders[1] != "reports" {
		t.Fatalf("unexpected folders: %v", folders)
	}
}

func TestBrowserPreviewFollowsSelection(t *testing.T) {
	root := t.TempDir()
	writeHubFile(t, root, "reports/a.md", "first file\n")
	writeHubFile(t, root, "reports/b.md", "second file\n")

	browser, err := NewBrowser(root)
	if err != nil {
		t.Fatalf("new browser: %v", err)
	}
	if !strings.Contains(browser.Preview(), "first file") {
		t.Fatalf("expected initial preview of first file, got %q", browser.Preview())
	}
	browser.NextFile()
	if !strings.Contains(browser.Preview(), "second file") {
		t.Fatalf("expected preview to follow selection, got %q", browser.Preview())
	}
	// Clamped at the end of the list.
	browser.NextFile()
	if !strings.Contains(browser.Preview(), "second file") {
		t.Fatalf("expected selection clamped at last file")
	}
}

func TestMissingRootYieldsEmptyBrowser(t *testing.T) {
	browser, err := NewBrowser(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("expected missing root to be tolerated: %v", err)
	}
	if len(browser.Folders()) != 0 {
		t.Fatalf("expected no folders, got %v", browser.Folders())
	}
	if !strings.Contains(browser.View(), "no shared files") {
		t.Fatalf("unexpected empty view: %q", browser.View())
	}
}

func TestHiddenFilesAreSkipped(t *testing.T) {
	root := t.TempDir()
	writeHubFile(t, root, "reports/.secret", "hidden\n")
	writeHubFile(t, root, "reports/visible.md", "shown\n")

	browser, err := NewBrowser(root)
	if err != nil {
		t.Fatalf("new browser: %v", err)
	}
	if got := browser.CurrentFile(); filepath.Base(got) != "visible.md" {
		t.Fatalf("expected only visible file, got %q", got)
	}
}
