// Package config holds the TOML-backed configuration for the CLI and HTTP
// server entrypoints: default file paths, the HTTP listen address, the
// driver's safety-bound multiplier, and whether to attempt Graphviz
// rendering.
//
// Grounded on the teacher's internal/tqw/marshaledtypes.go (toml struct tags
// on a plain Go struct) and tqw.go's toml.Unmarshal call; the teacher
// decodes world-file TOML into nested structs the same way this decodes a
// flat settings file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the full set of CLI/server settings. Every field has a usable
// zero value, so a missing config file is not an error: Load returns
// Default() for that case.
type Config struct {
	Grammar GrammarConfig `toml:"grammar"`
	Server  ServerConfig  `toml:"server"`
	Driver  DriverConfig  `toml:"driver"`
	Visual  VisualConfig  `toml:"visual"`
}

// GrammarConfig names the default grammar/input files and the reserved
// symbol spellings. The CLI falls back to DefaultGrammarFile when no
// --grammar is given; it does not read DefaultInputFile.
type GrammarConfig struct {
	DefaultGrammarFile string `toml:"default_grammar_file"`
	DefaultInputFile   string `toml:"default_input_file"`
	Epsilon            string `toml:"epsilon"`
	EndMarker          string `toml:"end_marker"`
}

// ServerConfig configures the HTTP entrypoint.
type ServerConfig struct {
	ListenAddress string `toml:"listen_address"`
}

// DriverConfig holds a safety-bound multiplier for the shift-reduce driver.
// The driver does not read it; its bound uses a fixed multiplier of 10.
type DriverConfig struct {
	SafetyBoundMultiplier int `toml:"safety_bound_multiplier"`
}

// VisualConfig configures the Graphviz adapter. OutputFile and
// FullOutputFile mirror the original program's two generated images,
// automaton_lr1_simplified.png (kernel items only) and automaton_lr1.png
// (kernel and closure items). The CLI reads only DotBinary: it renders only
// when --graph or --graph-full names an output path, and does not consult
// Enabled, OutputFile or FullOutputFile.
type VisualConfig struct {
	Enabled        bool   `toml:"enabled"`
	DotBinary      string `toml:"dot_binary"`
	OutputFile     string `toml:"output_file"`
	FullOutputFile string `toml:"full_output_file"`
}

// Default returns the built-in configuration used when no config file is
// present or given.
func Default() Config {
	return Config{
		Grammar: GrammarConfig{
			DefaultGrammarFile: "grammar.txt",
			DefaultInputFile:   "input.txt",
			Epsilon:            "ε",
			EndMarker:          "$",
		},
		Server: ServerConfig{
			ListenAddress: ":8080",
		},
		Driver: DriverConfig{
			SafetyBoundMultiplier: 10,
		},
		Visual: VisualConfig{
			Enabled:        true,
			DotBinary:      "dot",
			OutputFile:     "automaton.png",
			FullOutputFile: "automaton_full.png",
		},
	}
}

// Load reads a TOML file at path into a Config seeded from Default(), so
// that a config file only needs to mention the keys it overrides. A
// non-existent path is not an error: Load returns Default() unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	return cfg, nil
}
