package filehub

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const previewLimitBytes = 64 * 1024

// Browser renders a two-level view of the workspace file hub: shared
// folders on the first level, their files on the second, with the selected
// file's content previewed.
type Browser struct {
	root            string
	folders         []string
	filesByFolder   map[string][]string
	selectedFolder  int
	selectedFile    int
	selectedContent string
}

// NewBrowser discovers files under the hub root. A missing or empty root
// yields an empty browser, not an error.
func NewBrowser(root string) (*Browser, error) {
	if strings.TrimSpace(root) == "" {
		return &Browser{filesByFolder: map[string][]string{}}, nil
	}

	if info, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return &Browser{filesByFolder: map[string][]string{}}, nil
		}
		return nil, err
	} else if !info.IsDir() {
		return nil, fmt.Errorf("file hub root is not a directory: %s", root)
	}

	browser := &Browser{root: root, filesByFolder: map[string][]string{}}

	if err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d == nil || d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		relative, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		folder := topFolder(relative)
		browser.filesByFolder[folder] = append(browser.filesByFolder[folder], path)
		return nil
	}); err != nil {
		return nil, err
	}

	browser.folders = make([]string, 0, len(browser.filesByFolder))
	for folder := range browser.filesByFolder {
		browser.folders = append(browser.folders, folder)
	}
	sort.Strings(browser.folders)

	for _, folder := range browser.folders {
		files := browser.filesByFolder[folder]
		sort.SliceStable(files, func(i, j int) bool {
			return filepath.Base(files[i]) < filepath.Base(files[j])
		})
		browser.filesByFolder[folder] = files
	}

	if len(browser.folders) > 0 {
		browser.selectedFolder = 0
		browser.selectedFile = 0
		browser.refreshPreview()
	}

	return browser, nil
}

func topFolder(relative string) string {
	parts := strings.SplitN(filepath.ToSlash(relative), "/", 2)
	if len(parts) == 1 {
		return "."
	}
	return parts[0]
}

func (b *Browser) refreshPreview() {
	if b == nil {
		return
	}
	path := b.CurrentFile()
	if path == "" {
		b.selectedContent = ""
		return
	}
	content, err := os.ReadFile(path)
	if err != nil {
		b.selectedContent = fmt.Sprintf("failed to read %s: %v", path, err)
		return
	}
	if len(content) > previewLimitBytes {
		content = content[:previewLimitBytes]
	}
	b.selectedContent = string(content)
}

func (b *Browser) clampSelection() {
	if b == nil {
		return
	}
	if len(b.folders) == 0 {
		b.selectedFolder = -1
		b.selectedFile = -1
		b.selectedContent = ""
		return
	}
	if b.selectedFolder < 0 {
		b.selectedFolder = 0
	}
	if b.selectedFolder >= len(b.folders) {
		b.selectedFolder = len(b.folders) - 1
	}
	files := b.filesByFolder[b.folders[b.selectedFolder]]
	if len(files) == 0 {
		b.selectedFile = -1
		b.selectedContent = ""
		return
	}
	if b.selectedFile < 0 {
		b.selectedFile = 0
	}
	if b.selectedFile >= len(files) {
		b.selectedFile = len(files) - 1
	}
}

func (b *Browser) Folders() []string {
	if b == nil {
		return nil
	}
	out := make([]string, len(b.folders))
	copy(out, b.folders)
	return out
}

func (b *Browser) CurrentFolder() string {
	if b == nil || b.selectedFolder < 0 || b.selectedFolder >= len(b.folders) {
		return ""
	}
	return b.folders[b.selectedFolder]
}

func (b *Browser) CurrentFile() string {
	folder := b.CurrentFolder()
	if folder == "" {
		return ""
	}
	files := b.filesByFolder[folder]
	if b.selectedFile < 0 || b.selectedFile >= len(files) {
		return ""
	}
	return files[b.selectedFile]
}

func (b *Browser) Preview() string {
	if b == nil {
		return ""
	}
	return b.selectedContent
}

func (b *Browser) NextFolder() {
	if b == nil || len(b.folders) == 0 {
		return
	}
	b.selectedFolder++
	b.selectedFile = 0
	b.clampSelection()
	b.refreshPreview()
}

func (b *Browser) PrevFolder() {
	if b == nil || len(b.folders) == 0 || b.selectedFolder <= 0 {
		return
	}
	b.selectedFolder--
	b.selectedFile = 0
	b.clampSelection()
	b.refreshPreview()
}

func (b *Browser) NextFile() {
	if b == nil {
		return
	}
	b.selectedFile++
	b.clampSelection()
	b.refreshPreview()
}

func (b *Browser) PrevFile() {
	if b == nil || b.selectedFile <= 0 {
		return
	}
	b.selectedFile--
	b.clampSelection()
	b.refreshPreview()
}

// View renders the folder list, files of the selected folder, and the
// preview pane as plain text.
func (b *Browser) View() string {
	if b == nil || len(b.folders) == 0 {
		return "file hub: no shared files\n"
	}
	var out strings.Builder
	out.WriteString("Folders:\n")
	for i, folder := range b.folders {
		marker := "  "
		if i == b.selectedFolder {
			marker = "> "
		}
		fmt.Fprintf(&out, "%s%s\n", marker, folder)
	}
	out.WriteString("Files:\n")
	for i, file := range b.filesByFolder[b.CurrentFolder()] {
		marker := "  "
		if i == b.selectedFile {
			marker = "> "
		}
		fmt.Fprintf(&out, "%s%s\n", marker, filepath.Base(file))
	}
	if b.selectedContent != "" {
		out.WriteString("----\n")
		out.WriteString(b.selectedContent)
		if !strings.HasSuffix(b.selectedContent, "\n") {
			out.WriteString("\n")
		}
	}
	return out.String()
}
