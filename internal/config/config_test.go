package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "main.toml"), []byte(content), 0o600)
	require.NoError(t, err, "failed to write test config")

	return dir
}

const minimalConfig = `
title = "settingsd test"

[webserver]
port = 8080
url = "http://localhost:8080"

[db]
driver = "sqlite"
path = ":memory:"
`

func TestReadConfig(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		env     string
		check   func(t *testing.T, c Config)
		wantErr error
	}{
		{
			name:    "minimal config applies defaults",
			content: minimalConfig,
			check: func(t *testing.T, c Config) {
				assert.Equal(t, "sqlite", c.DB.Driver)
				assert.Equal(t, "memory", c.Cache.Backend)
				assert.Equal(t, "settings", c.Cache.Prefix)
				assert.Equal(t, time.Hour, c.Cache.TTL)
				assert.Equal(t, 5, c.Webserver.ShutDownTime)
			},
		},
		{
			name: "explicit cache section",
			content: minimalConfig + `
[cache]
enabled = true
backend = "redis"
prefix = "cfg"
ttl = "10m"

[cache.redis]
addr = "localhost:6379"
`,
			check: func(t *testing.T, c Config) {
				assert.True(t, c.Cache.Enabled)
				assert.Equal(t, "redis", c.Cache.Backend)
				assert.Equal(t, "cfg", c.Cache.Prefix)
				assert.Equal(t, 10*time.Minute, c.Cache.TTL)
				assert.Equal(t, "localhost:6379", c.Cache.Redis.Addr)
			},
		},
		{
			name: "missing webserver port",
			content: `
[webserver]
url = "http://localhost"
`,
			wantErr: ErrWebServerPortCanNotBeZero,
		},
		{
			name: "missing webserver url",
			content: `
[webserver]
port = 8080
`,
			wantErr: ErrEmptyURL,
		},
		{
			name: "audit section parsed",
			content: minimalConfig + `
[audit]
enabled = true
`,
			check: func(t *testing.T, c Config) {
				assert.True(t, c.Audit.Enabled)
			},
		},
		{
			name: "bad db driver",
			content: `
[webserver]
port = 8080
url = "http://localhost"

[db]
driver = "oracle"
`,
			wantErr: ErrUnknownDBDriver,
		},
		{
			name: "bad cache backend",
			content: minimalConfig + `
[cache]
backend = "memcached"
`,
			wantErr: ErrUnknownCacheBackend,
		},
		{
			name: "crypt enabled without key",
			content: minimalConfig + `
[crypt]
enabled = true
`,
			wantErr: ErrCryptKeyEmpty,
		},
		{
			name:    "env json override",
			content: minimalConfig,
			env:     `{"Title": "overridden"}`,
			check: func(t *testing.T, c Config) {
				assert.Equal(t, "overridden", c.Title)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.env != "" {
				t.Setenv(EnvConfigJSON, tc.env)
			}

			dir := writeConfigFile(t, tc.content)

			c, err := ReadConfig(dir)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)

			if tc.check != nil {
				tc.check(t, c)
			}
		})
	}
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(t.TempDir())
	require.Error(t, err)
}

func TestDumpConfigJSON(t *testing.T) {
	dir := writeConfigFile(t, minimalConfig)

	c, err := ReadConfig(dir)
	require.NoError(t, err)

	out, err := DumpConfigJSON(c)
	require.NoError(t, err)
	assert.Contains(t, out, "settingsd test")
}
