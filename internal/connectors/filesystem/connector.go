// Package filesystem walks a local directory tree for ingestion.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
	"github.com/raggamuffin/raggamuffin/internal/logger"
)

// SourceType is the source type slug documents from this connector are filed under.
const SourceType = "file"

// DefaultGlob matches every .txt file at any depth.
const DefaultGlob = "**/*.txt"

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Connector reads files under a root directory that match a glob.
type Connector struct {
	rootPath string
	glob     string
}

// New creates a filesystem connector. An empty glob means DefaultGlob.
func New(rootPath, glob string) *Connector {
	if glob == "" {
		glob = DefaultGlob
	}
	return &Connector{rootPath: rootPath, glob: glob}
}

// Build adapts New to driven.ConnectorBuilder. The glob is checked up front
// so a malformed pattern fails before any source is created.
func Build(rootPath, glob string) (driven.Connector, error) {
	c := New(rootPath, glob)
	if _, err := path.Match(strings.ReplaceAll(c.glob, "**", "*"), ""); err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", c.glob, domain.ErrInvalidInput)
	}
	return c, nil
}

// Type returns the source type slug.
func (c *Connector) Type() string {
	return SourceType
}

// Validate checks that the root path exists and is a directory.
func (c *Connector) Validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(c.rootPath)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("path %s does not exist: %w", c.rootPath, domain.ErrInvalidInput)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", c.rootPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path %s is not a directory: %w", c.rootPath, domain.ErrInvalidInput)
	}
	return nil
}

// FullSync walks the root in lexical order and emits every matching,
// non-hidden regular file.
func (c *Connector) FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	docs := make(chan domain.RawDocument)
	errs := make(chan error, 1)

	go func() {
		defer close(docs)
		defer close(errs)

		err := filepath.WalkDir(c.rootPath, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if p != c.rootPath && isHidden(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}

			rel, err := filepath.Rel(c.rootPath, p)
			if err != nil {
				return err
			}
			if !Match(c.glob, filepath.ToSlash(rel)) {
				return nil
			}

			content, err := os.ReadFile(p)
			if err != nil {
				logger.Warn("Failed to read %s: %v", p, err)
				return nil
			}

			raw := domain.RawDocument{
				URI:      p,
				MIMEType: detectMIMEType(p),
				Content:  content,
				Metadata: domain.Metadata{
					"filename":  d.Name(),
					"extension": filepath.Ext(p),
				},
			}
			select {
			case docs <- raw:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			errs <- err
		}
	}()

	return docs, errs
}

// Match reports whether a slash-separated relative path matches pattern.
// A "**" segment matches zero or more path segments; other segments follow
// path.Match.
func Match(pattern, name string) bool {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(name, "/"))
}

func matchSegments(pattern, name []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(name); i++ {
				if matchSegments(rest, name[i:]) {
					return true
				}
			}
			return false
		}
		if len(name) == 0 {
			return false
		}
		ok, err := path.Match(pattern[0], name[0])
		if err != nil || !ok {
			return false
		}
		pattern, name = pattern[1:], name[1:]
	}
	return len(name) == 0
}

// detectMIMEType guesses a MIME type from the file extension.
func detectMIMEType(p string) string {
	ext := strings.ToLower(filepath.Ext(p))
	switch ext {
	case ".txt", ".text", ".log":
		return "text/plain"
	case ".md", ".markdown":
		return "text/markdown"
	case "":
		return "application/octet-stream"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if i := strings.Index(t, ";"); i >= 0 {
			t = t[:i]
		}
		return t
	}
	return "application/octet-stream"
}

// isHidden reports whether a file or directory name is hidden.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
