package app

import (
	"fmt"
	"os"

	"github.com/barryq93/promPGRestore/internal/types"
	"gopkg.in/ini.v1"
)

var requiredOptions = []string{"host", "user", "database", "password"}

// Config holds the non-default sections of the databases file in file order.
type Config struct {
	sections []types.Connection
	index    map[string]int
}

func (c *Config) Sections() []types.Connection {
	out := make([]types.Connection, len(c.sections))
	copy(out, c.sections)
	return out
}

func (c *Config) Section(name string) (types.Connection, bool) {
	i, ok := c.index[name]
	if !ok {
		return types.Connection{}, false
	}
	return c.sections[i], true
}

func (c *Config) Len() int {
	return len(c.sections)
}

// LoadConfig parses an INI file with one section per database. Any defect in
// any section fails the whole load.
func LoadConfig(filename string) (*Config, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read file: %v", types.ErrConfig, err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%w: file is empty: %s", types.ErrConfig, filename)
	}

	// Values are credentials: keep '#', ';' and surrounding quotes verbatim.
	file, err := ini.LoadSources(ini.LoadOptions{
		InsensitiveKeys:         true,
		IgnoreInlineComment:     true,
		PreserveSurroundedQuote: true,
	}, filename)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", types.ErrConfig, filename, err)
	}

	defaults := file.Section(ini.DefaultSection)
	config := &Config{index: make(map[string]int)}
	for _, sec := range file.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		conn := types.Connection{Section: sec.Name()}
		values := make(map[string]string, len(requiredOptions))
		for _, option := range requiredOptions {
			value, ok := lookup(sec, defaults, option)
			if !ok {
				return nil, fmt.Errorf("%w: no option %q in section: %q", types.ErrConfig, option, sec.Name())
			}
			values[option] = value
		}
		conn.Host = values["host"]
		conn.User = values["user"]
		conn.Database = values["database"]
		conn.Password = values["password"]
		conn.Port, _ = lookup(sec, defaults, "port")
		conn.SSLMode, _ = lookup(sec, defaults, "sslmode")

		config.index[conn.Section] = len(config.sections)
		config.sections = append(config.sections, conn)
	}
	return config, nil
}

// lookup reads option from sec, falling back to the DEFAULT section.
func lookup(sec, defaults *ini.Section, option string) (string, bool) {
	if sec.HasKey(option) {
		return sec.Key(option).String(), true
	}
	if defaults != nil && defaults.HasKey(option) {
		return defaults.Key(option).String(), true
	}
	return "", false
}
