/*
Package config provides type-safe extraction of checker settings from
map[string]any, usually loaded from a YAML or JSON file.

# Overview

Config wraps a map and provides typed accessors that fall back to a default
when a key is missing or holds the wrong type. Keys may be dotted paths into
nested maps:

	cfg, err := config.FromFile("offensive.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	name := cfg.String("error_name", "ContractError")
	driver := cfg.String("report.driver", "memory")
	limit := cfg.Int("report.limit", 1000)

A nested map can be taken as a Config of its own with Sub:

	aliases := cfg.Sub("aliases")
	for _, alias := range aliases.Keys() {
	    target := aliases.String(alias, "")
	    ...
	}

# Type Coercion

Duration accepts strings parsed with time.ParseDuration, numbers
interpreted as seconds, and time.Duration values. Int accepts whole
float64 values, which is what JSON decoding produces.

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
