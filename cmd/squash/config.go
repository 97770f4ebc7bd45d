package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const defaultConfigFile = ".squash.toml"

// Config holds the options of the configuration file. Options set on the command line take precedence.
type Config struct {
	Output    string   `toml:"output"`
	Recursive bool     `toml:"recursive"`
	All       bool     `toml:"all"`
	Match     []string `toml:"match"`
	Include   []string `toml:"include"`
	Exclude   []string `toml:"exclude"`
	Sync      bool     `toml:"sync"`
	Bundle    bool     `toml:"bundle"`
	Preserve  []string `toml:"preserve"`
	Check     bool     `toml:"check"`
	AllowEval bool     `toml:"allow-eval"`
	SourceMap bool     `toml:"source-map"`
	Verbose   int      `toml:"verbose"`
}

// LoadConfig reads a configuration file. Without filename it reads the default file if it exists, and returns nil otherwise.
func LoadConfig(filename string) (*Config, error) {
	explicit := filename != ""
	if !explicit {
		filename = defaultConfigFile
	}

	b, err := os.ReadFile(filename)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read config %q: %w", filename, err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", filename, err)
	}
	Info.Println("use config", filename)
	return cfg, nil
}

// Apply sets the options that were not set on the command line.
func (cfg *Config) Apply(isSet func(string) bool, output *string) {
	if !isSet("output") && cfg.Output != "" {
		*output = cfg.Output
	}
	if !isSet("recursive") {
		recursive = recursive || cfg.Recursive
	}
	if !isSet("all") {
		hidden = hidden || cfg.All
	}
	if !isSet("match") {
		matches = append(matches, cfg.Match...)
	}
	if !isSet("include") && !isSet("exclude") {
		for _, pattern := range cfg.Include {
			filters = append(filters, "+"+pattern)
		}
		for _, pattern := range cfg.Exclude {
			filters = append(filters, "-"+pattern)
		}
	}
	if !isSet("sync") {
		sync = sync || cfg.Sync
	}
	if !isSet("bundle") {
		bundle = bundle || cfg.Bundle
	}
	if !isSet("preserve") && cfg.Preserve != nil {
		preserve = cfg.Preserve
	}
	if !isSet("check") {
		check = check || cfg.Check
	}
	if !isSet("allow-eval") {
		allowEval = allowEval || cfg.AllowEval
	}
	if !isSet("source-map") {
		sourceMap = sourceMap || cfg.SourceMap
	}
	if !isSet("verbose") && verbose < cfg.Verbose {
		verbose = cfg.Verbose
	}
}
