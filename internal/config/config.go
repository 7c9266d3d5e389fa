// Package config reads optional TOML files supplying CLI defaults for
// the ingest and query subcommands (spec.md §6.3), patterned on
// internal/parser/toml/parser.go's struct-tag-via-BurntSushi/toml
// approach, for a different document shape ([ingest]/[query] tables
// instead of [database]/[[tables]]).
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// Ingest holds defaults for the "myco ingest" subcommand.
type Ingest struct {
	Agents int     `toml:"agents"`
	Steps  int     `toml:"steps"`
	Seed   uint32  `toml:"seed"`
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	SpawnX float64 `toml:"spawn_x"`
	SpawnY float64 `toml:"spawn_y"`
}

// Query holds defaults for the "myco query" subcommand.
type Query struct {
	Radius int    `toml:"radius"`
	Format string `toml:"format"`
}

// Config is the top-level document shape of a myco TOML config file.
type Config struct {
	Ingest Ingest `toml:"ingest"`
	Query  Query  `toml:"query"`
}

// Default returns the built-in defaults used when no --config is given.
func Default() Config {
	return Config{
		Ingest: Ingest{
			Agents: 8,
			Steps:  200,
			Seed:   0x9E3779B9,
			Width:  64,
			Height: 64,
		},
		Query: Query{
			Radius: 5,
			Format: "table",
		},
	}
}

// ParseFile opens path and parses it as a myco TOML config, starting
// from Default() so a file that sets only part of the document still
// yields sane values for the rest.
func ParseFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: open file %q: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads TOML content from r, starting from Default().
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode error: %w", err)
	}
	return cfg, nil
}
