package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valkolaci/poolsched/pkg/types"
)

const exampleConfig = `
timezone: Europe/Budapest
schedules:
  everyday:
    - start: "0 20 1 * *"
      end: "0 6 2 * *"
      size: 0
    - start: "0 20 2 * *"
      end: "0 6 3 * *"
      size: 0
  weekend:
    - start: "0 20 5 * *"
      end: "0 6 1 * *"
      size: 0
  none: {}
rules:
  - compartment: sandbox/devops
    schedule: everyday
  - compartment: enap/cmp-uat
    schedule: weekend
  - compartment: enap/cmp-prod
    schedule: none
exceptions:
  - comment: Weekend testing
    compartment: sandbox/devops
    start: 2025-12-19 18:00
    end: 2025-12-22 06:00
    size: on
  - comment: Holiday
    start: 2025-12-24 00:00
    end: 2025-12-28 00:00
    size: 0
`

func TestParseExampleConfig(t *testing.T) {
	snap, err := Parse([]byte(exampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "Europe/Budapest", snap.Location.String())

	require.Len(t, snap.Catalog, 3)
	everyday, ok := snap.Catalog.Lookup("everyday")
	require.True(t, ok)
	assert.Len(t, everyday.Entries, 2)
	assert.Equal(t, 0, everyday.Entries[0].Size)

	none, ok := snap.Catalog.Lookup("none")
	require.True(t, ok)
	assert.Empty(t, none.Entries)

	require.Len(t, snap.Rules, 3)
	assert.Equal(t, "everyday", snap.Rules[0].Schedule)
	assert.Equal(t, "sandbox/devops", snap.Rules[0].Filter.Compartment)
	assert.Equal(t, "", snap.Rules[0].Filter.Cluster)

	require.Len(t, snap.Exceptions, 2)

	// First exception suspends management: no size override.
	first := snap.Exceptions[0]
	assert.Nil(t, first.Size)
	assert.Equal(t, "Weekend testing", first.Comment)
	require.NotNil(t, first.Start)
	assert.Equal(t, time.Date(2025, 12, 19, 18, 0, 0, 0, snap.Location), *first.Start)

	// Second exception forces size 0 with no target filter.
	second := snap.Exceptions[1]
	require.NotNil(t, second.Size)
	assert.Equal(t, 0, *second.Size)
	assert.True(t, second.Filter.Matches(types.Target{
		Compartment: "anything", Cluster: "x", NodePool: "y",
	}))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing timezone",
			yaml: "schedules: {}\n",
		},
		{
			name: "unknown timezone",
			yaml: "timezone: Mars/Olympus\n",
		},
		{
			name: "bad cron field in schedule",
			yaml: `
timezone: UTC
schedules:
  bad:
    - start: "0 20 32 * *"
      end: "0 6 1 * *"
      size: 0
`,
		},
		{
			name: "missing schedule size",
			yaml: `
timezone: UTC
schedules:
  bad:
    - start: "0 20 1 * *"
      end: "0 6 1 * *"
`,
		},
		{
			name: "negative schedule size",
			yaml: `
timezone: UTC
schedules:
  bad:
    - start: "0 20 1 * *"
      end: "0 6 1 * *"
      size: -1
`,
		},
		{
			name: "rule references unknown schedule",
			yaml: `
timezone: UTC
schedules:
  everyday: []
rules:
  - schedule: weekday
`,
		},
		{
			name: "rule without schedule",
			yaml: `
timezone: UTC
rules:
  - compartment: sandbox
`,
		},
		{
			name: "malformed exception datetime",
			yaml: `
timezone: UTC
exceptions:
  - start: not-a-date
`,
		},
		{
			name: "negative exception size",
			yaml: `
timezone: UTC
exceptions:
  - size: -3
`,
		},
		{
			name: "wrong shape for schedules",
			yaml: `
timezone: UTC
schedules:
  - start: "0 20 1 * *"
`,
		},
		{
			name: "unknown top-level key",
			yaml: `
timezone: UTC
schedule:
  everyday: []
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseErrorCarriesOptionPath(t *testing.T) {
	_, err := Parse([]byte(`
timezone: UTC
schedules:
  everyday:
    - start: "0 20 32 * *"
      end: "0 6 1 * *"
      size: 0
`))
	require.Error(t, err)

	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "schedules.everyday[1].start", cfgErr.Option)
}

func TestTimezoneEnvOverride(t *testing.T) {
	t.Setenv(EnvTimezone, "UTC")

	snap, err := Parse([]byte("timezone: Europe/Budapest\n"))
	require.NoError(t, err)
	assert.Equal(t, "UTC", snap.Location.String())
}

func TestConfigPath(t *testing.T) {
	t.Setenv(EnvConfigFile, "")
	assert.Equal(t, DefaultConfigFile, ConfigPath(""))
	assert.Equal(t, "explicit.yaml", ConfigPath("explicit.yaml"))

	t.Setenv(EnvConfigFile, "/etc/poolsched/rules.yaml")
	assert.Equal(t, "/etc/poolsched/rules.yaml", ConfigPath(""))
	assert.Equal(t, "explicit.yaml", ConfigPath("explicit.yaml"))
}

func TestStoreSwapIsolation(t *testing.T) {
	first, err := Parse([]byte("timezone: UTC\n"))
	require.NoError(t, err)
	second, err := Parse([]byte("timezone: Europe/Budapest\n"))
	require.NoError(t, err)

	store := NewStore(first)

	held := store.Snapshot()
	store.Swap(second)

	// A reader that grabbed the snapshot before the swap keeps it.
	assert.Equal(t, "UTC", held.Location.String())
	assert.Equal(t, "Europe/Budapest", store.Snapshot().Location.String())
}
