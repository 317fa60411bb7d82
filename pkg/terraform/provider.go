package terraform

import (
	"fmt"
	"regexp"
	"strings"
)

// ProviderEditor edits provider version constraints inside required_providers
// blocks.
type ProviderEditor struct{}

func NewProviderEditor() *ProviderEditor {
	return &ProviderEditor{}
}

var requiredProvidersRe = regexp.MustCompile(`required_providers[ \t]*\{`)

// UpdateVersions rewrites the version constraint of each named provider
// inside the configuration's required_providers block. Target keys may carry
// a registry namespace ("nsbno/vy"); the entry name is the part after the
// last slash. Entries are rewritten in place with locator-bounded spans, so
// sibling attributes (source included) and interpolation braces in nearby
// values survive untouched.
//
// When the configuration has no required_providers block at all, a terraform
// block containing exactly the requested providers is prepended and the rest
// of the configuration is left as-is.
func (e *ProviderEditor) UpdateVersions(config string, targets map[string]string) string {
	loc := requiredProvidersRe.FindStringIndex(config)
	if loc == nil {
		return synthesizeRequiredProviders(targets) + "\n" + config
	}

	for _, target := range sortedKeys(targets) {
		config = updateProviderVersion(config, providerEntryName(target), targets[target])
	}
	return config
}

// updateProviderVersion rewrites one provider entry's version constraint.
// No-op when the entry is absent from the block.
func updateProviderVersion(config, name, constraint string) string {
	loc := requiredProvidersRe.FindStringIndex(config)
	if loc == nil {
		return config
	}
	open := loc[1] - 1
	end := closingDelimiter(config, open)
	if end < 0 {
		return config
	}

	entryRe := regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(name) + `[ \t]*=[ \t]*\{`)
	entryLoc := entryRe.FindStringIndex(config[open : end+1])
	if entryLoc == nil {
		return config
	}

	entryOpen := open + entryLoc[1] - 1
	entryEnd := closingDelimiter(config, entryOpen)
	if entryEnd < 0 {
		return config
	}

	entry := config[entryOpen : entryEnd+1]
	versionRe := regexp.MustCompile(`(version[ \t]*=[ \t]*)"[^"]*"`)
	updated := versionRe.ReplaceAllString(entry, `${1}"`+constraint+`"`)

	return config[:entryOpen] + updated + config[entryEnd+1:]
}

// synthesizeRequiredProviders renders a terraform block declaring exactly the
// requested providers. A target key with a namespace contributes a source
// attribute; a bare name only pins the version.
func synthesizeRequiredProviders(targets map[string]string) string {
	var b strings.Builder
	b.WriteString("terraform {\n")
	b.WriteString("  required_providers {\n")
	for _, target := range sortedKeys(targets) {
		fmt.Fprintf(&b, "    %s = {\n", providerEntryName(target))
		if strings.Contains(target, "/") {
			fmt.Fprintf(&b, "      source  = %q\n", target)
		}
		fmt.Fprintf(&b, "      version = %q\n", targets[target])
		b.WriteString("    }\n")
	}
	b.WriteString("  }\n")
	b.WriteString("}\n")
	return b.String()
}

// providerEntryName returns the name a provider is declared under inside
// required_providers, stripping any registry namespace.
func providerEntryName(target string) string {
	if i := strings.LastIndexByte(target, '/'); i >= 0 {
		return target[i+1:]
	}
	return target
}
