package file

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/raggamuffin/raggamuffin/internal/core/ports/driven"
	"github.com/raggamuffin/raggamuffin/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk, one
// <name>.txt per prompt. Files are created lazily on first Load.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts holds the built-in templates and the placeholders each
// one must keep.
var defaultPrompts = map[string]struct {
	content      string
	placeholders []string
}{
	driven.PromptSummarise: {
		content: `Summarise the following content in %d words or fewer.
Be concise and capture the key points.

Content:
%s

Summary:`,
		placeholders: []string{"%d", "%s"},
	},
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.raggamuffin/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get home directory")
		}
		promptDir = filepath.Join(home, configDirName, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name. A file that is
// missing, unreadable or has lost a required placeholder yields the
// built-in template.
func (s *PromptStore) Load(name string) (string, error) {
	def, known := defaultPrompts[name]

	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if known {
			return def.content, nil
		}
		return "", goerr.Wrap(s.initErr, "prompt store unavailable")
	}

	s.mu.RLock()
	prompt, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return prompt, nil
	}

	prompt, err := s.loadFromFile(name)
	switch {
	case err != nil && known:
		return def.content, nil
	case err != nil:
		return "", goerr.Wrap(err, "failed to load prompt", goerr.V("name", name))
	case known && !hasPlaceholders(prompt, def.placeholders):
		logger.Warn("Prompt %s is missing placeholders %v, using the default", name, def.placeholders)
		prompt = def.content
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and writes default files that do
// not exist yet.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = goerr.Wrap(err, "failed to create prompt directory", goerr.V("dir", s.promptDir))
		return
	}

	for name, def := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := os.WriteFile(path, []byte(def.content), 0600); err != nil {
			s.initErr = goerr.Wrap(err, "failed to write default prompt", goerr.V("name", name))
			return
		}
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func hasPlaceholders(prompt string, placeholders []string) bool {
	for _, p := range placeholders {
		if !strings.Contains(prompt, p) {
			return false
		}
	}
	return true
}
