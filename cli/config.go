package main

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/mod/semver"
)

// DefaultConfigFile is read from the working directory when --config is not given.
const DefaultConfigFile = "crux.json"

// version is overridden at build time with -ldflags "-X main.version=v1.2.3"
var version = "v0.1.0"

//go:embed crux.schema.json
var configSchema []byte

// Config is the optional project file. Explicit flags win over it.
type Config struct {
	MinVersion string `json:"minVersion,omitempty"`
	Format     string `json:"format,omitempty"`
	MaxDepth   int    `json:"maxDepth,omitempty"`
	Color      *bool  `json:"color,omitempty"`
	Telemetry  bool   `json:"telemetry,omitempty"`
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	const url = "schema://crux.schema.json"
	if err := compiler.AddResource(url, bytes.NewReader(configSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
})

// LoadConfig reads path. A missing file is only an error when the user named
// it explicitly.
func LoadConfig(path string, explicit bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return &Config{}, nil
		}
		return nil, &CLIError{
			Type:    "config",
			Message: fmt.Sprintf("cannot read %s", path),
			Details: err.Error(),
			Err:     err,
		}
	}
	return ParseConfig(data, path)
}

// ParseConfig validates data against the embedded schema and the running
// version, then decodes it.
func ParseConfig(data []byte, name string) (*Config, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &CLIError{
			Type:    "config",
			Message: fmt.Sprintf("%s is not valid JSON", name),
			Details: err.Error(),
			Err:     err,
		}
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile configuration schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, &CLIError{
			Type:    "config",
			Message: fmt.Sprintf("%s does not match the configuration schema", name),
			Details: err.Error(),
			Hint:    "Allowed keys: minVersion, format, maxDepth, color, telemetry",
			Err:     err,
		}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	if err := checkVersion(cfg.MinVersion, version); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// canonicalVersion adds the "v" prefix semver requires
func canonicalVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}

// checkVersion fails when the project needs a newer tool than current.
func checkVersion(minVersion, current string) error {
	if minVersion == "" {
		return nil
	}

	want := canonicalVersion(minVersion)
	if !semver.IsValid(want) {
		return &CLIError{
			Type:    "config",
			Message: fmt.Sprintf("invalid minVersion %q", minVersion),
			Hint:    "Use a semantic version such as \"0.1.0\"",
		}
	}

	if semver.Compare(canonicalVersion(current), want) < 0 {
		return &CLIError{
			Type:    "config",
			Message: fmt.Sprintf("this project requires crux %s or newer (running %s)", want, current),
			Hint:    "Upgrade crux or lower minVersion in " + DefaultConfigFile,
		}
	}
	return nil
}
