package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
)

// applyConfigFile fills flag values from a JSON file keyed by flag name.
// Flags given explicitly on the command line win over the file.
func applyConfigFile(fs *flag.FlagSet, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	for key, value := range raw {
		if set[key] {
			continue
		}
		f := fs.Lookup(key)
		if f == nil {
			return fmt.Errorf("unknown config key in %s: %s", path, key)
		}
		if err := f.Value.Set(fmt.Sprint(value)); err != nil {
			return fmt.Errorf("config key %s: %w", key, err)
		}
	}
	return nil
}
