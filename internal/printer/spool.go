package printer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"unicode"
)

// Spool writes each job to its own file in a directory instead of printing.
// Files are named <seq>-<job>.zpl. The sequence resumes after the highest
// one already in the directory, so names sort in submission order across
// sinks and runs.
type Spool struct {
	Dir string

	mu      sync.Mutex
	seq     int
	resumed bool
}

// NewSpool returns a spool sink writing under dir.
func NewSpool(dir string) *Spool {
	return &Spool{Dir: dir}
}

func (s *Spool) Print(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return deviceError(job, "create spool dir", err)
	}

	s.mu.Lock()
	if !s.resumed {
		s.seq = highestSpoolSeq(s.Dir)
		s.resumed = true
	}
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	name := fmt.Sprintf("%06d-%s.zpl", seq, spoolSlug(job.Name))
	if err := os.WriteFile(filepath.Join(s.Dir, name), job.Data, 0o644); err != nil {
		return deviceError(job, "spool", err)
	}
	return nil
}

func (s *Spool) Describe() string {
	return "file:" + s.Dir
}

func highestSpoolSeq(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	highest := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() || filepath.Ext(entry.Name()) != ".zpl" {
			continue
		}
		prefix, _, ok := strings.Cut(entry.Name(), "-")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(prefix); err == nil && n > highest {
			highest = n
		}
	}
	return highest
}

func spoolSlug(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "job"
	}
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
