package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/a1s/gridbuf/internal/config/data"
)

// Default values
const (
	DefaultAPITimeout    = 30 * time.Second
	DefaultCacheTTL      = 5 * time.Second
	DefaultColumns       = 4
	DefaultDiffThreshold = 10_000
	DefaultSortColumn    = "NAME"
)

// Gridbuf represents the gridbuf global configuration.
type Gridbuf struct {
	RefreshRate   float32     `yaml:"refreshRate"`
	Synchronous   bool        `yaml:"synchronous"`
	DiffThreshold int         `yaml:"diffThreshold"`
	SortColumn    string      `yaml:"sortColumn"`
	Source        data.Source `yaml:"source"`
	UI            data.UI     `yaml:"ui"`
	Logger        data.Logger `yaml:"logger"`

	mx sync.RWMutex
}

// NewGridbuf creates a Gridbuf with default settings.
func NewGridbuf() *Gridbuf {
	return &Gridbuf{
		RefreshRate:   DefaultRefreshRate,
		DiffThreshold: DefaultDiffThreshold,
		SortColumn:    DefaultSortColumn,
		UI: data.UI{
			Columns: DefaultColumns,
		},
		Logger: data.Logger{
			Level: DefaultLogLevel,
		},
	}
}

// Validate ensures Gridbuf has valid settings.
func (g *Gridbuf) Validate() {
	g.mx.Lock()
	defer g.mx.Unlock()

	if g.RefreshRate <= 0 {
		g.RefreshRate = DefaultRefreshRate
	}
	if g.DiffThreshold <= 0 {
		g.DiffThreshold = DefaultDiffThreshold
	}
	if g.SortColumn == "" {
		g.SortColumn = DefaultSortColumn
	}
	if g.UI.Columns <= 0 {
		g.UI.Columns = DefaultColumns
	}
	if g.Logger.Level == "" {
		g.Logger.Level = DefaultLogLevel
	}
	if g.Source.Timeout <= 0 {
		g.Source.Timeout = DefaultAPITimeout
	}
	if g.Source.CacheTTL <= 0 {
		g.Source.CacheTTL = DefaultCacheTTL
	}
}

// Override applies CLI flag overrides to the configuration.
func (g *Gridbuf) Override(flags *data.Flags) error {
	if flags == nil {
		return nil
	}

	g.mx.Lock()
	defer g.mx.Unlock()

	if flags.RefreshRate != nil && *flags.RefreshRate > 0 {
		g.RefreshRate = *flags.RefreshRate
	}
	if IsBoolSet(flags.Synchronous) {
		g.Synchronous = true
	}
	if IsBoolSet(flags.Headless) {
		g.UI.Headless = true
	}
	if flags.Columns != nil && *flags.Columns > 0 {
		g.UI.Columns = *flags.Columns
	}
	if IsStringSet(flags.SortColumn) {
		g.SortColumn = *flags.SortColumn
	}
	if IsStringSet(flags.LogLevel) {
		g.Logger.Level = *flags.LogLevel
	}
	if IsStringSet(flags.LogFile) {
		g.Logger.File = *flags.LogFile
	}

	if IsStringSet(flags.Source) {
		src, err := data.ParseSource(*flags.Source)
		if err != nil {
			return fmt.Errorf("invalid --source: %w", err)
		}
		src.Columns = g.Source.Columns
		src.Profile, src.Region = g.Source.Profile, g.Source.Region
		src.Timeout, src.CacheTTL = g.Source.Timeout, g.Source.CacheTTL
		g.Source = src
	}
	if IsStringSet(flags.Profile) {
		g.Source.Profile = *flags.Profile
	}
	if IsStringSet(flags.Region) {
		g.Source.Region = *flags.Region
	}

	return nil
}

// RefreshInterval returns the refresh rate as a duration.
func (g *Gridbuf) RefreshInterval() time.Duration {
	g.mx.RLock()
	defer g.mx.RUnlock()

	return time.Duration(float64(g.RefreshRate) * float64(time.Second))
}

// CurrentSource returns a copy of the configured source.
func (g *Gridbuf) CurrentSource() data.Source {
	g.mx.RLock()
	defer g.mx.RUnlock()

	src := g.Source
	src.Columns = append([]string(nil), g.Source.Columns...)
	return src
}
