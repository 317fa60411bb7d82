// Package config loads optional .vydev override files. The tool normally
// detects everything it needs, but a repository can pin answers in a
// .vydev.hcl, .vydev.yaml or .vydev.json file when detection gets it
// wrong.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/nsbno/vydev-migrate/pkg/migration"
)

// Overrides pins answers the tool would otherwise detect or prompt for.
// Empty fields mean "detect as usual".
type Overrides struct {
	TerraformFolder string `json:"terraform_folder,omitempty" yaml:"terraform_folder,omitempty" hcl:"terraform_folder,optional"`
	RepositoryName  string `json:"repository_name,omitempty"  yaml:"repository_name,omitempty"  hcl:"repository_name,optional"`
	ApplicationName string `json:"application_name,omitempty" yaml:"application_name,omitempty" hcl:"application_name,optional"`
	BuildTool       string `json:"build_tool,omitempty"       yaml:"build_tool,omitempty"       hcl:"build_tool,optional"`
	RuntimeTarget   string `json:"runtime_target,omitempty"   yaml:"runtime_target,omitempty"   hcl:"runtime_target,optional"`

	location string
}

// Location returns the path of the file the overrides came from.
func (o *Overrides) Location() string {
	return o.location
}

// Apply copies the set overrides onto cfg.
func (o *Overrides) Apply(cfg *migration.Config) {
	if o.TerraformFolder != "" {
		cfg.TerraformFolder = o.TerraformFolder
	}
	if o.RepositoryName != "" {
		cfg.RepositoryName = o.RepositoryName
	}
	if o.ApplicationName != "" {
		cfg.ApplicationName = o.ApplicationName
	}
	if o.BuildTool != "" {
		cfg.BuildTool = migration.BuildTool(o.BuildTool)
	}
	if o.RuntimeTarget != "" {
		cfg.RuntimeTarget = migration.RuntimeTarget(o.RuntimeTarget)
	}
}

func (o *Overrides) validate() error {
	switch o.BuildTool {
	case "", string(migration.BuildToolGradle), string(migration.BuildToolPython):
	default:
		return errors.Errorf("unknown build_tool %q, expected %q or %q",
			o.BuildTool, migration.BuildToolGradle, migration.BuildToolPython)
	}

	switch o.RuntimeTarget {
	case "", string(migration.RuntimeTargetECS), string(migration.RuntimeTargetLambda):
	default:
		return errors.Errorf("unknown runtime_target %q, expected %q or %q",
			o.RuntimeTarget, migration.RuntimeTargetECS, migration.RuntimeTargetLambda)
	}

	return nil
}

var overrideFiles = []string{".vydev.hcl", ".vydev.yaml", ".vydev.yml", ".vydev.json"}

// Discover looks for an override file in the given folder and loads the
// first one it finds. It returns nil when the folder has none.
func Discover(folder string) (*Overrides, error) {
	for _, name := range overrideFiles {
		path := filepath.Join(folder, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return Load(path)
	}
	return nil, nil
}

// Load reads an override file, picking the format from the extension.
func Load(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading override file: %w", err)
	}

	var overrides *Overrides
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		overrides, err = loadJSON(data)
	case ".yaml", ".yml":
		overrides, err = loadYAML(data)
	case ".hcl":
		overrides, err = loadHCL(data, path)
	default:
		return nil, errors.Errorf("unsupported override file extension %q", ext)
	}
	if err != nil {
		return nil, errors.Errorf("loading %q: %w", path, err)
	}

	if err := overrides.validate(); err != nil {
		return nil, errors.Errorf("validating %q: %w", path, err)
	}

	overrides.location = path
	return overrides, nil
}

func loadJSON(data []byte) (*Overrides, error) {
	var overrides Overrides
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&overrides); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return &overrides, nil
}

func loadYAML(data []byte) (*Overrides, error) {
	var overrides Overrides
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&overrides); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &overrides, nil
}

func loadHCL(data []byte, filename string) (*Overrides, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var overrides Overrides
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &overrides)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}
	return &overrides, nil
}
