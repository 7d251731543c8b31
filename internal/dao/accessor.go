package dao

import (
	"context"
	"fmt"
	"sort"

	"github.com/a1s/gridbuf/internal/aws"
	"github.com/a1s/gridbuf/internal/config/data"
)

// AccessorFunc builds an accessor for a source definition.
type AccessorFunc func(ctx context.Context, src data.Source) (Accessor, error)

// Accessors maps source kinds to their constructors.
type Accessors map[SourceKind]AccessorFunc

// accessors holds all registered constructors.
var accessors = Accessors{
	SourceYAML: func(_ context.Context, src data.Source) (Accessor, error) {
		return NewYAMLSource(src.Path, src.Columns)
	},
	SourceINI: func(_ context.Context, src data.Source) (Accessor, error) {
		return NewINISource(src.Path, src.Columns)
	},
	SourceS3: func(ctx context.Context, src data.Source) (Accessor, error) {
		client, err := aws.NewS3Client(ctx, aws.ClientConfig{
			Profile: src.Profile,
			Region:  src.Region,
			Timeout: src.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return NewS3Source(client, src.Bucket, src.Prefix, NewRowCache(src.CacheTTL))
	},
}

// RegisterAccessor adds or replaces the constructor for kind.
func RegisterAccessor(kind SourceKind, fn AccessorFunc) {
	accessors[kind] = fn
}

// AccessorFor returns a new accessor for the given source.
func AccessorFor(ctx context.Context, src data.Source) (Accessor, error) {
	fn, ok := accessors[SourceKind(src.Kind)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, src.Kind)
	}

	acc, err := fn(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s accessor: %w", src.Kind, err)
	}
	return acc, nil
}

// ListAccessors returns all registered source kinds.
func ListAccessors() []string {
	kinds := make([]string, 0, len(accessors))
	for k := range accessors {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	return kinds
}
