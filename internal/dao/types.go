package dao

import (
	"context"
	"errors"

	"github.com/a1s/gridbuf/internal/model1"
)

var (
	// ErrUnknownSource is returned for an unsupported source kind.
	ErrUnknownSource = errors.New("unknown source kind")

	// ErrNoPath is returned when a file source has no path.
	ErrNoPath = errors.New("no source path configured")
)

// Accessor lists the rows of a source.
type Accessor interface {
	// Header returns the columns every listed row carries.
	Header() model1.Header

	// List returns the current rows.
	List(ctx context.Context) (model1.Rows, error)
}

// SourceKind identifies an accessor implementation.
type SourceKind string

const (
	SourceYAML SourceKind = "yaml"
	SourceINI  SourceKind = "ini"
	SourceS3   SourceKind = "s3"
)

// IDColumn is the item key holding the row identity.
const IDColumn = "id"
