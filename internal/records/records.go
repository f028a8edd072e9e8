package records

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	filePrefix = "label_"
	fileExt    = ".txt"
	headerText = "Label Number: "
)

var artifactPattern = regexp.MustCompile(`^label_(-?[0-9]+)\.txt$`)

var (
	// ErrWrite marks failures creating or replacing a record artifact.
	ErrWrite = errors.New("record write failed")
	// ErrNotDirectory is returned when the output path exists but is not a directory.
	ErrNotDirectory = errors.New("output path is not a directory")
)

// Artifact describes one record file owned by labelgen.
type Artifact struct {
	Label int64
	Path  string
	Size  int64
}

// Dir is the record sink rooted at an output directory.
type Dir struct {
	path string
}

// New returns a record sink for dir. The directory is not touched until
// Ensure, Write, or Clear is called.
func New(dir string) *Dir {
	return &Dir{path: filepath.Clean(dir)}
}

// Path returns the output directory.
func (d *Dir) Path() string {
	return d.path
}

// FileName returns the artifact name for label.
func FileName(label int64) string {
	return filePrefix + strconv.FormatInt(label, 10) + fileExt
}

// ParseFileName reports the label number encoded in an artifact name.
func ParseFileName(name string) (int64, bool) {
	m := artifactPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	label, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return label, true
}

// Ensure creates the output directory when missing and verifies it is a directory.
func (d *Dir) Ensure() error {
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return fmt.Errorf("create output directory %q: %w", d.path, err)
	}
	info, err := os.Stat(d.path)
	if err != nil {
		return fmt.Errorf("stat output directory %q: %w", d.path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, d.path)
	}
	return nil
}

// Render returns the artifact body for a label: a header line followed by the
// full document.
func Render(label int64, doc string) string {
	var b strings.Builder
	b.Grow(len(headerText) + 24 + len(doc))
	b.WriteString(headerText)
	b.WriteString(strconv.FormatInt(label, 10))
	b.WriteByte('\n')
	b.WriteString(doc)
	return b.String()
}

// Write creates or replaces the artifact for label and returns its path.
func (d *Dir) Write(label int64, doc string) (string, error) {
	target := filepath.Join(d.path, FileName(label))
	if err := writeFileAtomic(target, []byte(Render(label, doc)), 0o644); err != nil {
		return "", fmt.Errorf("%w: label %d: %w", ErrWrite, label, err)
	}
	return target, nil
}

// Read returns the document stored for label without its header line.
func (d *Dir) Read(label int64) (string, error) {
	data, err := os.ReadFile(filepath.Join(d.path, FileName(label)))
	if err != nil {
		return "", err
	}
	content := string(data)
	header, body, ok := strings.Cut(content, "\n")
	if !ok || header != headerText+strconv.FormatInt(label, 10) {
		return "", fmt.Errorf("label %d: unexpected record header %q", label, header)
	}
	return body, nil
}

// List returns the artifacts present in the output directory, ordered by
// label number. A missing directory yields an empty list.
func (d *Dir) List() ([]Artifact, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read output directory %q: %w", d.path, err)
	}
	var out []Artifact
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		label, ok := ParseFileName(entry.Name())
		if !ok {
			continue
		}
		artifact := Artifact{Label: label, Path: filepath.Join(d.path, entry.Name())}
		if info, err := entry.Info(); err == nil {
			artifact.Size = info.Size()
		}
		out = append(out, artifact)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

// Clear removes every artifact this package owns from the output directory and
// reports how many were removed. Files that do not match label_<n>.txt,
// directories, and symlinks are left alone. Clearing an empty or missing
// directory is a no-op.
func (d *Dir) Clear() (int, error) {
	artifacts, err := d.List()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, a := range artifacts {
		if err := os.Remove(a.Path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return removed, fmt.Errorf("remove %s: %w", a.Path, err)
		}
		removed++
	}
	return removed, nil
}
