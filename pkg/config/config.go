package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/valkolaci/poolsched/pkg/cronspec"
	"github.com/valkolaci/poolsched/pkg/schedule"
	"github.com/valkolaci/poolsched/pkg/types"
)

const (
	// DefaultConfigFile is used when no path is given and
	// POOLSCHED_CONFIG is unset
	DefaultConfigFile = "rules.yaml"

	// EnvConfigFile overrides the config file path
	EnvConfigFile = "POOLSCHED_CONFIG"

	// EnvTimezone overrides the timezone option
	EnvTimezone = "POOLSCHED_TIMEZONE"
)

// Error is a configuration validation error tied to one option path,
// e.g. "schedules.everyday[2].start".
type Error struct {
	Option string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid config option %s: %v", e.Option, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func optionErr(option string, err error) error {
	return &Error{Option: option, Err: err}
}

func optionErrf(option, format string, args ...interface{}) error {
	return &Error{Option: option, Err: fmt.Errorf(format, args...)}
}

// rawConfig mirrors the YAML document shape before validation
type rawConfig struct {
	Timezone   string                 `yaml:"timezone"`
	Schedules  map[string][]rawWindow `yaml:"schedules"`
	Rules      []rawRule              `yaml:"rules"`
	Exceptions []rawException         `yaml:"exceptions"`
}

type rawWindow struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
	Size  *int   `yaml:"size"`
}

type rawRule struct {
	Schedule    string `yaml:"schedule"`
	Compartment string `yaml:"compartment"`
	Cluster     string `yaml:"cluster"`
	NodePool    string `yaml:"nodepool"`
}

type rawException struct {
	Start       string      `yaml:"start"`
	End         string      `yaml:"end"`
	Compartment string      `yaml:"compartment"`
	Cluster     string      `yaml:"cluster"`
	NodePool    string      `yaml:"nodepool"`
	Size        interface{} `yaml:"size"`
	Comment     string      `yaml:"comment"`
}

// ConfigPath returns the config file path: the explicit argument if
// non-empty, then the POOLSCHED_CONFIG environment variable, then the
// default.
func ConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvConfigFile); env != "" {
		return env
	}
	return DefaultConfigFile
}

// Load reads and validates the configuration file into an immutable
// Snapshot. A snapshot is either fully valid or not produced at all.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse validates configuration bytes into an immutable Snapshot
func Parse(data []byte) (*Snapshot, error) {
	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if env := os.Getenv(EnvTimezone); env != "" {
		raw.Timezone = env
	}

	location, err := parseTimezone(raw.Timezone)
	if err != nil {
		return nil, err
	}

	catalog, err := parseSchedules(raw.Schedules)
	if err != nil {
		return nil, err
	}

	rules, err := parseRules(raw.Rules, catalog)
	if err != nil {
		return nil, err
	}

	exceptions, err := parseExceptions(raw.Exceptions, location)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Location:   location,
		Catalog:    catalog,
		Rules:      rules,
		Exceptions: exceptions,
	}, nil
}

func parseTimezone(name string) (*time.Location, error) {
	if name == "" {
		return nil, optionErrf("timezone", "missing but mandatory")
	}
	location, err := time.LoadLocation(name)
	if err != nil {
		return nil, optionErr("timezone", err)
	}
	return location, nil
}

func parseSchedules(raw map[string][]rawWindow) (schedule.Catalog, error) {
	catalog := make(schedule.Catalog, len(raw))
	for name, windows := range raw {
		entries := make([]schedule.WindowEntry, 0, len(windows))
		for i, w := range windows {
			option := fmt.Sprintf("schedules.%s[%d]", name, i+1)
			if w.Size == nil {
				return nil, optionErrf(option+".size", "missing but mandatory")
			}
			if *w.Size < 0 {
				return nil, optionErrf(option+".size", "%d is smaller than minimum 0", *w.Size)
			}
			if w.Start == "" {
				return nil, optionErrf(option+".start", "missing but mandatory")
			}
			if w.End == "" {
				return nil, optionErrf(option+".end", "missing but mandatory")
			}
			start, err := cronspec.ParseWindowSpec(w.Start)
			if err != nil {
				return nil, optionErr(option+".start", err)
			}
			end, err := cronspec.ParseWindowSpec(w.End)
			if err != nil {
				return nil, optionErr(option+".end", err)
			}
			entries = append(entries, schedule.WindowEntry{Size: *w.Size, Start: start, End: end})
		}
		catalog[name] = schedule.Schedule{Entries: entries}
	}
	return catalog, nil
}

func parseRules(raw []rawRule, catalog schedule.Catalog) ([]types.Rule, error) {
	rules := make([]types.Rule, 0, len(raw))
	for i, r := range raw {
		option := fmt.Sprintf("rules[%d]", i+1)
		if r.Schedule == "" {
			return nil, optionErrf(option+".schedule", "missing but mandatory")
		}
		if _, ok := catalog.Lookup(r.Schedule); !ok {
			return nil, optionErrf(option+".schedule", "unknown schedule %q", r.Schedule)
		}
		rules = append(rules, types.Rule{
			Filter: types.TargetFilter{
				Compartment: r.Compartment,
				Cluster:     r.Cluster,
				NodePool:    r.NodePool,
			},
			Schedule: r.Schedule,
		})
	}
	return rules, nil
}

func parseExceptions(raw []rawException, location *time.Location) ([]types.Exception, error) {
	exceptions := make([]types.Exception, 0, len(raw))
	for i, e := range raw {
		option := fmt.Sprintf("exceptions[%d]", i+1)
		start, err := parseDatetime(e.Start, location)
		if err != nil {
			return nil, optionErr(option+".start", err)
		}
		end, err := parseDatetime(e.End, location)
		if err != nil {
			return nil, optionErr(option+".end", err)
		}
		size, err := parseExceptionSize(e.Size)
		if err != nil {
			return nil, optionErr(option+".size", err)
		}
		exceptions = append(exceptions, types.Exception{
			Filter: types.TargetFilter{
				Compartment: e.Compartment,
				Cluster:     e.Cluster,
				NodePool:    e.NodePool,
			},
			Start:   start,
			End:     end,
			Size:    size,
			Comment: e.Comment,
		})
	}
	return exceptions, nil
}

// datetimeLayouts are the accepted exception bound formats, tried in
// order. All are interpreted in the configured timezone.
var datetimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseDatetime(text string, location *time.Location) (*time.Time, error) {
	if text == "" {
		return nil, nil
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, text, location); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid datetime %q", text)
}

// parseExceptionSize distinguishes an absent override from a real
// size. The literal "on" (and an empty or missing value) means the
// exception suspends management without forcing a size; 0 is a
// genuine override.
func parseExceptionSize(value interface{}) (*int, error) {
	var size int
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		switch strings.ToLower(v) {
		case "", "on":
			return nil, nil
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid size %q: not an integer", v)
		}
		size = parsed
	case bool:
		// YAML 1.1 readers resolve "on" to a boolean
		if v {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid size %v", v)
	case int:
		size = v
	case float64:
		size = int(v)
	default:
		return nil, fmt.Errorf("invalid size type %T", value)
	}
	if size < 0 {
		return nil, fmt.Errorf("%d is smaller than minimum 0", size)
	}
	return &size, nil
}
