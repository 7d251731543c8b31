package dao

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/fvbommel/sortorder"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/a1s/gridbuf/internal/model1"
)

// yamlDocument is the layout of a YAML source file.
//
//	columns: [NAME, STATUS]
//	items:
//	  - id: web-1
//	    NAME: web
//	    STATUS: running
type yamlDocument struct {
	Columns []string            `yaml:"columns"`
	Items   []map[string]string `yaml:"items"`
}

// YAMLSource lists the items of a YAML file.
type YAMLSource struct {
	path   string
	header model1.Header
}

// NewYAMLSource returns a source reading path. When columns is empty the
// columns declared in the file are used.
func NewYAMLSource(path string, columns []string) (*YAMLSource, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	s := YAMLSource{path: path}
	if len(columns) > 0 {
		s.header = model1.NewHeader(columns...)
		return &s, nil
	}
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	s.header = model1.NewHeader(doc.Columns...)

	return &s, nil
}

// Header returns the source columns.
func (s *YAMLSource) Header() model1.Header {
	return s.header
}

// List reads the file and returns one row per item. Items without an id fall
// back on their first column value.
func (s *YAMLSource) List(ctx context.Context) (model1.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	rows := make(model1.Rows, 0, len(doc.Items))
	for i, item := range doc.Items {
		row := toRow(s.header, item)
		if row.ID == "" {
			return nil, fmt.Errorf("item %d in %q has no id", i, s.path)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *YAMLSource) load() (*yamlDocument, error) {
	bytes, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML source %q: %w", s.path, err)
	}
	var doc yamlDocument
	if err := yaml.Unmarshal(bytes, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML source %q: %w", s.path, err)
	}
	return &doc, nil
}

// INISource lists the sections of an INI file. Each section is an item whose
// id is the section name.
type INISource struct {
	path   string
	header model1.Header
}

// NewINISource returns a source reading path. When columns is empty the
// columns are NAME followed by every key found, in natural order.
func NewINISource(path string, columns []string) (*INISource, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	s := INISource{path: path}
	if len(columns) > 0 {
		s.header = model1.NewHeader(columns...)
		return &s, nil
	}
	f, err := s.load()
	if err != nil {
		return nil, err
	}
	keys := make(map[string]struct{})
	for _, sec := range f.Sections() {
		for _, k := range sec.KeyStrings() {
			keys[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(keys))
	for k := range keys {
		if k != nameColumn {
			names = append(names, k)
		}
	}
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case sortorder.NaturalLess(a, b):
			return -1
		case sortorder.NaturalLess(b, a):
			return 1
		default:
			return 0
		}
	})
	s.header = model1.NewHeader(append([]string{nameColumn}, names...)...)

	return &s, nil
}

// Header returns the source columns.
func (s *INISource) Header() model1.Header {
	return s.header
}

// List reads the file and returns one row per non default section.
func (s *INISource) List(ctx context.Context) (model1.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.load()
	if err != nil {
		return nil, err
	}

	var rows model1.Rows
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		item := sec.KeysHash()
		item[IDColumn] = sec.Name()
		if _, ok := item[nameColumn]; !ok {
			item[nameColumn] = sec.Name()
		}
		rows = append(rows, toRow(s.header, item))
	}
	return rows, nil
}

func (s *INISource) load() (*ini.File, error) {
	f, err := ini.Load(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to load INI source %q: %w", s.path, err)
	}
	return f, nil
}

const nameColumn = "NAME"

func toRow(h model1.Header, item map[string]string) model1.Row {
	row := model1.NewRow(len(h))
	for i, c := range h {
		v, ok := item[c.Name]
		if !ok {
			v = model1.NAValue
		}
		if c.Decorator != nil {
			v = c.Decorator(v)
		}
		row.Fields[i] = v
	}
	row.ID = item[IDColumn]
	if row.ID == "" && len(row.Fields) > 0 && row.Fields[0] != model1.NAValue {
		row.ID = row.Fields[0]
	}
	return row
}
