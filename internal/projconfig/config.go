// Package projconfig loads the optional deptree.toml project file
// (component I). Every field is a default for a CLI flag the user did not
// pass explicitly; an explicit flag always wins over the file.
package projconfig

import (
	"os"

	"github.com/BurntSushi/toml"

	"deptree/internal/errs"
)

type Config struct {
	SourceRoot string   `toml:"source_root"`
	Exclude    Exclude  `toml:"exclude"`
	Output     Output   `toml:"output"`
}

type Exclude struct {
	Scripts []string `toml:"scripts"`
}

type Output struct {
	Format            string `toml:"format"`
	IncludeOrphans    bool   `toml:"include_orphans"`
	IncludeNamespaces bool   `toml:"include_namespaces"`
}

// Load reads and decodes path. Load reports every read failure, a missing
// file included, as IoFailure, and a malformed document as ParseFailure;
// LoadIfPresent is the variant that treats an absent file as no config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.AddContext(errs.Wrap(err, errs.CodeIoFailure, "reading project config"), errs.CtxPath, path)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, errs.AddContext(errs.Wrap(err, errs.CodeParseFailure, "decoding project config"), errs.CtxPath, path)
	}
	return &cfg, nil
}

// LoadIfPresent returns (nil, nil) when path does not exist, and otherwise
// behaves like Load.
func LoadIfPresent(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errs.AddContext(errs.Wrap(err, errs.CodeIoFailure, "statting project config"), errs.CtxPath, path)
	}
	return Load(path)
}
