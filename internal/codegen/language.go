package codegen

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/multicode/codegraph/pkg/schema"
)

// Options configures compiler construction for one target language.
type Options struct {
	Registry *Registry // nil: default built-in registry
	Logger   *slog.Logger
}

// Factory builds a compiler for one target language.
type Factory func(Options) Compiler

var (
	languagesMu sync.RWMutex
	languages   = make(map[string]Factory)
)

// RegisterLanguage makes a target language available to For. Last write wins.
func RegisterLanguage(lang string, f Factory) {
	languagesMu.Lock()
	defer languagesMu.Unlock()
	languages[lang] = f
}

// For returns a compiler for the requested target language. An unregistered
// language is a typed error for the call site to surface; there is no
// fallback to a different target.
func For(lang string, opts Options) (Compiler, error) {
	languagesMu.RLock()
	f, ok := languages[lang]
	languagesMu.RUnlock()
	if !ok {
		return nil, &schema.UnsupportedLanguageError{Language: lang}
	}
	return f(opts), nil
}

// Languages lists the registered target languages, sorted.
func Languages() []string {
	languagesMu.RLock()
	defer languagesMu.RUnlock()
	out := make([]string, 0, len(languages))
	for lang := range languages {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

func init() {
	RegisterLanguage("cpp", func(opts Options) Compiler {
		return NewCppCompiler(opts.Registry, opts.Logger)
	})
}
