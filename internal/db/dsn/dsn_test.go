package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/settingsd/settingsd/internal/config"
)

func TestCreate(t *testing.T) {
	testCases := []struct {
		name     string
		cfg      config.Config
		expected string
	}{
		{
			name: "mysql",
			cfg: config.Config{DB: config.DB{
				Driver:   "mysql",
				User:     "settingsd",
				Password: "secret",
				Host:     "db.local",
				Port:     3306,
				Name:     "settings",
				Extras:   "parseTime=true",
			}},
			expected: "settingsd:secret@tcp(db.local:3306)/settings?parseTime=true",
		},
		{
			name: "postgres",
			cfg: config.Config{DB: config.DB{
				Driver:   "postgres",
				User:     "settingsd",
				Password: "secret",
				Host:     "db.local",
				Port:     5432,
				Name:     "settings",
				Extras:   "sslmode=disable",
			}},
			expected: "host=db.local user=settingsd password=secret dbname=settings port=5432 sslmode=disable",
		},
		{
			name: "sqlite with path",
			cfg: config.Config{DB: config.DB{
				Driver: "sqlite",
				Path:   "/var/lib/settingsd/settings.db",
			}},
			expected: "/var/lib/settingsd/settings.db",
		},
		{
			name:     "sqlite without path defaults to memory",
			cfg:      config.Config{DB: config.DB{Driver: "sqlite"}},
			expected: ":memory:",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Create(&tc.cfg))
		})
	}
}
