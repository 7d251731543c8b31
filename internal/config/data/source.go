package data

import (
	"fmt"
	"path/filepath"
	"strings"
)

const s3Scheme = "s3://"

// ParseSource turns a source location into a Source. Locations are either
// s3://bucket/prefix or a path whose extension selects the file format.
func ParseSource(loc string) (Source, error) {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return Source{}, fmt.Errorf("empty source location")
	}

	if rest, ok := strings.CutPrefix(loc, s3Scheme); ok {
		bucket, prefix, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return Source{}, fmt.Errorf("source %q has no bucket", loc)
		}
		return Source{Kind: "s3", Bucket: bucket, Prefix: prefix}, nil
	}

	switch strings.ToLower(filepath.Ext(loc)) {
	case ".yaml", ".yml":
		return Source{Kind: "yaml", Path: loc}, nil
	case ".ini", ".cfg", ".conf":
		return Source{Kind: "ini", Path: loc}, nil
	default:
		return Source{}, fmt.Errorf("unsupported source format %q", loc)
	}
}

// String returns the source location.
func (s Source) String() string {
	if s.Kind == "s3" {
		return s3Scheme + s.Bucket + "/" + s.Prefix
	}
	return s.Path
}
