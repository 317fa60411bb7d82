package terraform

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ModuleEditor performs text-level edits on module blocks. All methods return
// a new configuration string and leave every byte outside the edited span
// untouched.
type ModuleEditor struct{}

func NewModuleEditor() *ModuleEditor {
	return &ModuleEditor{}
}

// UpdateVersions pins every module whose source base matches a key of targets
// to the mapped version, rewriting the source to "<base>?ref=<version>". An
// already-present ref is overwritten. Sources that do not appear in the
// configuration are skipped. Applying the same targets twice yields the same
// result as applying them once.
func (e *ModuleEditor) UpdateVersions(config string, targets map[string]string) string {
	for _, source := range sortedKeys(targets) {
		base := baseSource(source)
		re := regexp.MustCompile(`(source[ \t]*=[ \t]*)"` + regexp.QuoteMeta(base) + `(\?ref=[^"]*)?"`)
		config = re.ReplaceAllString(config, `${1}"`+base+`?ref=`+targets[source]+`"`)
	}
	return config
}

// AddModule appends a new module block to the end of the configuration. An
// empty version leaves the source without a ?ref= suffix. Variable values are
// serialized with serializeValue; an unsupported value aborts the edit.
func (e *ModuleEditor) AddModule(config, name, source, version string, variables map[string]any) (string, error) {
	withVersion := source
	if version != "" {
		withVersion = source + "?ref=" + version
	}

	var b strings.Builder
	fmt.Fprintf(&b, "module %q {\n", name)
	fmt.Fprintf(&b, "  source = %q\n", withVersion)
	for _, key := range sortedKeys(variables) {
		value, err := serializeValue(variables[key])
		if err != nil {
			return "", errors.Errorf("module %q, variable %q: %w", name, key, err)
		}
		fmt.Fprintf(&b, "  %s = %s\n", key, value)
	}
	b.WriteString("}\n")

	return config + "\n" + b.String(), nil
}

// AddVariables inserts variables immediately before the closing brace of the
// named module. The module must exist; a missing module is a hard failure
// because the caller asked for it by name.
func (e *ModuleEditor) AddVariables(config, moduleName string, variables map[string]any) (string, error) {
	blk, ok := findModuleByName(config, moduleName)
	if !ok {
		return "", errors.Errorf("could not find module %q: %w", moduleName, ErrNotFound)
	}

	var b strings.Builder
	for _, key := range sortedKeys(variables) {
		value, err := serializeValue(variables[key])
		if err != nil {
			return "", errors.Errorf("module %q, variable %q: %w", moduleName, key, err)
		}
		fmt.Fprintf(&b, "%s  %s = %s\n", blk.indent, key, value)
	}

	at := lineStart(config, blk.end)
	return config[:at] + b.String() + config[at:], nil
}

// AddDataSource appends a data block to the end of the configuration. All
// attribute values are emitted as quoted strings.
func (e *ModuleEditor) AddDataSource(config, resourceType, name string, attributes map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "data %q %q {\n", resourceType, name)
	for _, key := range sortedKeys(attributes) {
		fmt.Fprintf(&b, "  %s = %q\n", key, attributes[key])
	}
	b.WriteString("}\n")

	return config + "\n" + b.String()
}

// serializeValue encodes a variable value as Terraform attribute text.
// Booleans become bare literals, strings referencing another module or a
// variable stay unquoted, every other string is quoted and numbers pass
// through as-is. Nested objects are refused rather than guessed at.
func serializeValue(value any) (string, error) {
	switch v := value.(type) {
	case bool:
		return strconv.FormatBool(v), nil
	case string:
		if strings.HasPrefix(v, "module.") || strings.HasPrefix(v, "var.") {
			return v, nil
		}
		return strconv.Quote(v), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprintf("%v", v), nil
	default:
		return "", errors.Errorf("%w: %T", ErrUnsupportedValue, value)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
