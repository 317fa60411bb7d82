package terraform

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// Module is a module block discovered by the Scanner. Variables hold the raw
// attribute text of the block's top-level attributes: quoted strings are
// unwrapped, everything else (numbers, booleans, references) is passed
// through as text without type coercion.
type Module struct {
	Name      string
	Source    string
	Version   string
	Variables map[string]string
	FilePath  string
}

// Provider is a provider entry discovered inside a required_providers block.
type Provider struct {
	Name     string
	Version  string
	Source   string
	FilePath string
}

// Scanner locates modules, providers and scalar attributes in the *.tf files
// under a directory tree. Matching is first-match-wins in lexical file order;
// a source identifier is expected to match at most one module per search.
type Scanner struct{}

func NewScanner() *Scanner {
	return &Scanner{}
}

// skippedDirs are tool-internal directories that may contain vendored module
// copies and must never be scanned.
var skippedDirs = map[string]bool{
	".terraform": true,
	".git":       true,
}

// configFiles returns every *.tf file under root in lexical order.
func (s *Scanner) configFiles(root string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(root, "**", "*.tf"))
	if err != nil {
		return nil, errors.Errorf("listing terraform files under %q: %w", root, err)
	}

	files := matches[:0]
	for _, match := range matches {
		if containsSkippedDir(match) {
			continue
		}
		files = append(files, match)
	}
	return files, nil
}

func containsSkippedDir(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if skippedDirs[part] {
			return true
		}
	}
	return false
}

// FindModule returns the first module under root whose source base matches
// source. The needle may carry a ?ref= suffix; it is stripped before
// comparison. Returns ErrNotFound when no file declares a matching module.
func (s *Scanner) FindModule(source, root string) (*Module, error) {
	files, err := s.configFiles(root)
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		config, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.Errorf("reading %q: %w", file, err)
		}

		blk, ok := findModuleBySource(string(config), source)
		if !ok {
			continue
		}
		return newModule(string(config), blk, file), nil
	}

	return nil, errors.Errorf("module %q under %q: %w", baseSource(source), root, ErrNotFound)
}

// HasModule reports whether any file under root declares a module whose
// source base matches source.
func (s *Scanner) HasModule(source, root string) (bool, error) {
	files, err := s.configFiles(root)
	if err != nil {
		return false, err
	}

	for _, file := range files {
		config, err := os.ReadFile(file)
		if err != nil {
			return false, errors.Errorf("reading %q: %w", file, err)
		}
		if _, ok := findModuleBySource(string(config), source); ok {
			return true, nil
		}
	}
	return false, nil
}

func newModule(config string, blk block, file string) *Module {
	source := moduleSource(config, blk)

	version := ""
	if i := strings.Index(source, "?ref="); i >= 0 {
		version = source[i+len("?ref="):]
	}

	return &Module{
		Name:      blk.name,
		Source:    source,
		Version:   version,
		Variables: blockAttributes(blk.body(config)),
		FilePath:  file,
	}
}

var attrLineRe = regexp.MustCompile(`^[ \t]*([A-Za-z_][A-Za-z0-9_-]*)[ \t]*=[ \t]*(.+?)[ \t]*$`)

// blockAttributes extracts the single-line top-level attributes of a block
// body as raw text. Attributes whose value opens a nested block or array are
// skipped; this is a best-effort mapping, not a parse.
func blockAttributes(body string) map[string]string {
	attrs := map[string]string{}
	depth := 0
	for _, line := range strings.Split(body, "\n") {
		if depth == 0 {
			if m := attrLineRe.FindStringSubmatch(line); m != nil && delimDelta(m[2]) == 0 {
				attrs[m[1]] = unquote(m[2])
			}
		}
		depth += delimDelta(line)
	}
	return attrs
}

// unquote strips the surrounding quotes from a plain string literal. Values
// that are not a single quoted literal are returned verbatim.
func unquote(value string) string {
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		inner := value[1 : len(value)-1]
		if !strings.Contains(inner, `"`) {
			return inner
		}
	}
	return value
}

// FindProvider returns the named provider entry from the first
// required_providers block under root that declares it. Returns ErrNotFound
// when no file does.
func (s *Scanner) FindProvider(name, root string) (*Provider, error) {
	files, err := s.configFiles(root)
	if err != nil {
		return nil, err
	}

	entryRe := regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(name) + `[ \t]*=[ \t]*\{`)

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.Errorf("reading %q: %w", file, err)
		}
		config := string(data)

		loc := requiredProvidersRe.FindStringIndex(config)
		if loc == nil {
			continue
		}
		open := loc[1] - 1
		end := closingDelimiter(config, open)
		if end < 0 {
			continue
		}

		entryLoc := entryRe.FindStringIndex(config[open : end+1])
		if entryLoc == nil {
			continue
		}
		entryOpen := open + entryLoc[1] - 1
		entryEnd := closingDelimiter(config, entryOpen)
		if entryEnd < 0 {
			continue
		}

		attrs := blockAttributes(config[entryOpen+1 : entryEnd])
		return &Provider{
			Name:     name,
			Version:  attrs["version"],
			Source:   attrs["source"],
			FilePath: file,
		}, nil
	}

	return nil, errors.Errorf("provider %q under %q: %w", name, root, ErrNotFound)
}

// Parameters collects the literal value of attribute from every resource or
// data block of blockType under root, in file order. An empty result is a
// hard failure: it almost always means the caller searched for the wrong
// type or attribute.
func (s *Scanner) Parameters(blockType, attribute, root string) ([]string, error) {
	files, err := s.configFiles(root)
	if err != nil {
		return nil, err
	}

	blockRe := regexp.MustCompile(`(?m)^[ \t]*(?:resource|data)[ \t]+"` + regexp.QuoteMeta(blockType) + `"[ \t]+"[^"]+"[ \t]*\{`)
	attrRe := regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(attribute) + `[ \t]*=[ \t]*"([^"]*)"`)

	var values []string
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.Errorf("reading %q: %w", file, err)
		}
		config := string(data)

		for _, loc := range blockRe.FindAllStringIndex(config, -1) {
			open := loc[1] - 1
			end := closingDelimiter(config, open)
			if end < 0 {
				continue
			}
			if m := attrRe.FindStringSubmatch(config[open+1 : end]); m != nil {
				values = append(values, m[1])
			}
		}
	}

	if len(values) == 0 {
		return nil, errors.Errorf("no %q blocks with attribute %q under %q: %w", blockType, attribute, root, ErrNotFound)
	}
	return values, nil
}

var backendBucketRe = regexp.MustCompile(`bucket[ \t]*=[ \t]*"([0-9]+)-[^"]*"`)

// AccountID returns the AWS account ID embedded in the backend bucket name
// under root. Backend buckets follow the "<account id>-..." convention.
func (s *Scanner) AccountID(root string) (string, error) {
	files, err := s.configFiles(root)
	if err != nil {
		return "", err
	}

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", errors.Errorf("reading %q: %w", file, err)
		}
		if m := backendBucketRe.FindStringSubmatch(string(data)); m != nil {
			return m[1], nil
		}
	}

	return "", errors.Errorf("backend bucket with account id under %q: %w", root, ErrNotFound)
}
