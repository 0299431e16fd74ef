package cli

import (
	"flag"
	"os"

	"github.com/brimdata/zavro/zqe"
	"gopkg.in/yaml.v3"
)

// ApplyConfig sets flags in each of flagSets from the YAML mapping in the
// file at path.  Each key names a flag.  Flags given on the command line
// are left alone, as are keys that name no flag of a set, so one file may
// serve every command.
func ApplyConfig(path string, flagSets ...*flag.FlagSet) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	for _, fs := range flagSets {
		if err := applyConfig(fs, b, path); err != nil {
			return err
		}
	}
	return nil
}

func applyConfig(fs *flag.FlagSet, b []byte, path string) error {
	var conf map[string]yaml.Node
	if err := yaml.Unmarshal(b, &conf); err != nil {
		return zqe.E(zqe.Invalid, "%s: %w", path, err)
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	for name, node := range conf {
		if set[name] || fs.Lookup(name) == nil {
			continue
		}
		if node.Kind != yaml.ScalarNode {
			return zqe.E(zqe.Invalid, "%s: line %d: value of %s must be a scalar", path, node.Line, name)
		}
		if err := fs.Set(name, node.Value); err != nil {
			return zqe.E(zqe.Invalid, "%s: %s: %w", path, name, err)
		}
	}
	return nil
}

// FileExists reports whether path names a regular file or is "-".
func FileExists(path string) bool {
	if path == "-" {
		return true
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
