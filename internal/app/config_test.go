package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/barryq93/promPGRestore/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "databases.ini")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name       string
		configData string
		checkFunc  func(*testing.T, *Config, error)
	}{
		{
			name: "SingleSection",
			configData: `
[db1]
host = localhost
user = u
database = testdb
password = p
`,
			checkFunc: func(t *testing.T, cfg *Config, err error) {
				require.NoError(t, err)
				require.Equal(t, 1, cfg.Len())
				conn, ok := cfg.Section("db1")
				require.True(t, ok)
				assert.Equal(t, types.Connection{
					Section:  "db1",
					Host:     "localhost",
					User:     "u",
					Database: "testdb",
					Password: "p",
				}, conn)
			},
		},
		{
			name: "PreservesFileOrder",
			configData: `
[zeta]
host = h3
user = u
database = d3
password = p

[alpha]
host = h1
user = u
database = d1
password = p

[mid]
host = h2
user = u
database = d2
password = p
`,
			checkFunc: func(t *testing.T, cfg *Config, err error) {
				require.NoError(t, err)
				var names []string
				for _, s := range cfg.Sections() {
					names = append(names, s.Section)
				}
				assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)
			},
		},
		{
			name: "DefaultSectionSkippedAndInherited",
			configData: `
[DEFAULT]
user = backup
password = shared

[db1]
host = h1
database = d1

[db2]
host = h2
database = d2
password = own
`,
			checkFunc: func(t *testing.T, cfg *Config, err error) {
				require.NoError(t, err)
				assert.Equal(t, 2, cfg.Len())
				_, ok := cfg.Section("DEFAULT")
				assert.False(t, ok)

				db1, _ := cfg.Section("db1")
				assert.Equal(t, "backup", db1.User)
				assert.Equal(t, "shared", db1.Password)
				db2, _ := cfg.Section("db2")
				assert.Equal(t, "own", db2.Password)
			},
		},
		{
			name: "OnlyDefaultSection",
			configData: `
[DEFAULT]
host = localhost
`,
			checkFunc: func(t *testing.T, cfg *Config, err error) {
				require.NoError(t, err)
				assert.Equal(t, 0, cfg.Len())
				assert.Empty(t, cfg.Sections())
			},
		},
		{
			name: "OptionalPortAndSSLMode",
			configData: `
[db1]
Host = localhost
USER = u
database = testdb
password = p
port = 5433
sslmode = require
`,
			checkFunc: func(t *testing.T, cfg *Config, err error) {
				require.NoError(t, err)
				conn, _ := cfg.Section("db1")
				assert.Equal(t, "localhost", conn.Host)
				assert.Equal(t, "u", conn.User)
				assert.Equal(t, "5433", conn.Port)
				assert.Equal(t, "require", conn.SSLMode)
			},
		},
		{
			name: "SpecialCharactersKeptVerbatim",
			configData: `
[db1]
host = db.example.com ; primary
user =   backup
database = testdb
password = s3cr#t;x

[db2]
host = h2
user = u
database = d2
password = "pw"

[db3]
host = h3
user = u
database = d3
password = a=b 'c' #d
`,
			checkFunc: func(t *testing.T, cfg *Config, err error) {
				require.NoError(t, err)
				db1, _ := cfg.Section("db1")
				assert.Equal(t, "db.example.com ; primary", db1.Host)
				assert.Equal(t, "backup", db1.User)
				assert.Equal(t, "s3cr#t;x", db1.Password)
				db2, _ := cfg.Section("db2")
				assert.Equal(t, `"pw"`, db2.Password)
				db3, _ := cfg.Section("db3")
				assert.Equal(t, "a=b 'c' #d", db3.Password)
			},
		},
		{
			name: "QuotedDefaultInherited",
			configData: `
[DEFAULT]
password = 'shared;pw'

[db1]
host = h1
user = u
database = d1
`,
			checkFunc: func(t *testing.T, cfg *Config, err error) {
				require.NoError(t, err)
				db1, _ := cfg.Section("db1")
				assert.Equal(t, "'shared;pw'", db1.Password)
			},
		},
		{
			name: "MissingPassword",
			configData: `
[db1]
host = localhost
user = u
database = testdb
password = p

[db2]
host = localhost
user = u
database = other
`,
			checkFunc: func(t *testing.T, cfg *Config, err error) {
				assert.Nil(t, cfg)
				assert.ErrorIs(t, err, types.ErrConfig)
				assert.Contains(t, err.Error(), `"password"`)
				assert.Contains(t, err.Error(), `"db2"`)
			},
		},
		{
			name:       "EmptyFile",
			configData: "",
			checkFunc: func(t *testing.T, cfg *Config, err error) {
				assert.Nil(t, cfg)
				assert.ErrorIs(t, err, types.ErrConfig)
				assert.Contains(t, err.Error(), "file is empty")
			},
		},
		{
			name:       "MalformedSyntax",
			configData: "[db1\nhost localhost\n",
			checkFunc: func(t *testing.T, cfg *Config, err error) {
				assert.Nil(t, cfg)
				assert.ErrorIs(t, err, types.ErrConfig)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tt.configData))
			tt.checkFunc(t, cfg, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.ini"))
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, types.ErrConfig)
	assert.Contains(t, err.Error(), "cannot read file")
}

func TestConfigSectionsReturnsCopy(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "[db1]\nhost=h\nuser=u\ndatabase=d\npassword=p\n"))
	require.NoError(t, err)

	sections := cfg.Sections()
	sections[0].Host = "changed"
	conn, _ := cfg.Section("db1")
	assert.Equal(t, "h", conn.Host)
}
