// Package corpus loads a directory tree of structured documents.
//
// A malformed file never fails the load: its parse error is recorded on the
// File and left for the rule evaluators to report. Only I/O failures on the
// root or on a file that cannot be read abort the load.
package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	errs "github.com/c360studio/semstreams/pkg/errs"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/c360studio/semcheck/document"
)

// DefaultIgnoreFile is read from the corpus root when present.
const DefaultIgnoreFile = ".semcheckignore"

// ErrNotDirectory is returned when the corpus root is not a directory.
var ErrNotDirectory = errors.New("corpus root is not a directory")

// DefaultExtensions lists the file kinds loaded when Options.Extensions is empty.
var DefaultExtensions = []string{".jsonld"}

// DefaultExclude lists the subtrees skipped when Options.Exclude is nil.
var DefaultExclude = []string{"**/.deprecated", "**/node_modules"}

// Options controls which files are loaded.
type Options struct {
	// Extensions are matched case-insensitively, with the leading dot.
	Extensions []string

	// Exclude holds doublestar patterns matched against slash-separated
	// paths relative to the root. A matching directory prunes its subtree.
	Exclude []string

	// IgnoreFile is a gitignore-syntax file relative to the root. Empty
	// means DefaultIgnoreFile. A missing file is not an error.
	IgnoreFile string

	Logger *slog.Logger
}

// File is one loaded document.
type File struct {
	Path string // filesystem path
	Rel  string // slash-separated, relative to the root
	Size int64
	Raw  []byte
	Doc  *document.Document
	Err  error
}

// OK reports whether the file parsed.
func (f *File) OK() bool {
	return f.Err == nil && f.Doc != nil
}

// Name returns the base name of the file.
func (f *File) Name() string {
	return filepath.Base(f.Path)
}

// Corpus is the set of files found under one root, sorted by Rel.
type Corpus struct {
	Root  string
	Files []*File
}

// Stats summarizes corpus size.
type Stats struct {
	Files        int     `json:"files"`
	TotalBytes   int64   `json:"totalBytes"`
	AverageBytes float64 `json:"averageBytes"`
}

// Load reads every matching file under root.
func Load(root string, opts Options) (*Corpus, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, errs.WrapFatal(err, "corpus", "Load", "stat root "+root)
	}
	if !info.IsDir() {
		return nil, errs.WrapFatal(fmt.Errorf("%w: %s", ErrNotDirectory, root), "corpus", "Load", "stat root")
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	exclude := opts.Exclude
	if exclude == nil {
		exclude = DefaultExclude
	}
	for _, p := range exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, errs.WrapInvalid(fmt.Errorf("bad exclude pattern %q", p), "corpus", "Load", "validate options")
		}
	}
	gi := loadIgnore(root, opts.IgnoreFile)

	var files []*File
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if excluded(rel, exclude) || (gi != nil && gi.MatchesPath(rel)) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if !hasExtension(d.Name(), exts) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		f := &File{Path: path, Rel: rel, Size: int64(len(data)), Raw: data}
		f.Doc, f.Err = document.Parse(rel, data)
		if f.Err != nil {
			logger.Debug("Document failed to parse", "path", rel, "error", f.Err)
		}
		files = append(files, f)
		return nil
	})
	if err != nil {
		return nil, errs.WrapFatal(err, "corpus", "Load", "walk "+root)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })

	logger.Debug("Corpus loaded", "root", root, "files", len(files))
	return &Corpus{Root: root, Files: files}, nil
}

// Lookup returns the file with the given relative path.
func (c *Corpus) Lookup(rel string) (*File, bool) {
	rel = filepath.ToSlash(rel)
	i := sort.Search(len(c.Files), func(i int) bool { return c.Files[i].Rel >= rel })
	if i < len(c.Files) && c.Files[i].Rel == rel {
		return c.Files[i], true
	}
	return nil, false
}

// Parsed returns the files that parsed successfully.
func (c *Corpus) Parsed() []*File {
	out := make([]*File, 0, len(c.Files))
	for _, f := range c.Files {
		if f.OK() {
			out = append(out, f)
		}
	}
	return out
}

// Paths returns the filesystem path of every file.
func (c *Corpus) Paths() []string {
	out := make([]string, len(c.Files))
	for i, f := range c.Files {
		out[i] = f.Path
	}
	return out
}

// Stats returns file count and size totals.
func (c *Corpus) Stats() Stats {
	s := Stats{Files: len(c.Files)}
	for _, f := range c.Files {
		s.TotalBytes += f.Size
	}
	if s.Files > 0 {
		s.AverageBytes = float64(s.TotalBytes) / float64(s.Files)
	}
	return s
}

func excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func hasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

func loadIgnore(root, name string) *ignore.GitIgnore {
	if name == "" {
		name = DefaultIgnoreFile
	}
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, name))
	if err != nil {
		return nil
	}
	return gi
}
