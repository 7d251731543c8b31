package dao

import (
	"context"
	"errors"
	"testing"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a1s/gridbuf/internal/aws"
	"github.com/a1s/gridbuf/internal/model1"
)

func TestS3SourceList(t *testing.T) {
	c := fakeS3{out: &s3.ListObjectsV2Output{
		CommonPrefixes: []types.CommonPrefix{
			{Prefix: awssdk.String("logs/sub/")},
			{},
		},
		Contents: []types.Object{
			{Key: awssdk.String("logs/")},
			{
				Key:          awssdk.String("logs/a.txt"),
				Size:         awssdk.Int64(42),
				StorageClass: types.ObjectStorageClassStandard,
			},
		},
	}}

	s, err := NewS3Source(&c, "bucket", "logs", nil)
	require.NoError(t, err)

	rows, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model1.Rows{
		{ID: "logs/sub/", Fields: model1.Fields{"sub/", model1.NAValue, "FOLDER", model1.NAValue}},
		{ID: "logs/a.txt", Fields: model1.Fields{"a.txt", "42", "STANDARD", model1.NAValue}},
	}, rows)

	require.Len(t, c.inputs, 1)
	assert.Equal(t, "bucket", awssdk.ToString(c.inputs[0].Bucket))
	assert.Equal(t, "logs/", awssdk.ToString(c.inputs[0].Prefix))
	assert.Equal(t, "/", awssdk.ToString(c.inputs[0].Delimiter))
}

func TestS3SourceCache(t *testing.T) {
	c := fakeS3{out: &s3.ListObjectsV2Output{
		Contents: []types.Object{{Key: awssdk.String("a")}},
	}}
	s, err := NewS3Source(&c, "bucket", "", NewRowCache(time.Minute))
	require.NoError(t, err)

	for range 3 {
		rows, err := s.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	}
	assert.Len(t, c.inputs, 1)
	assert.Equal(t, "s3://bucket/", s.key())
}

func TestS3SourceErrors(t *testing.T) {
	_, err := NewS3Source(&fakeS3{}, "", "", nil)
	assert.ErrorIs(t, err, aws.ErrNoBucket)

	boom := errors.New("boom")
	s, err := NewS3Source(&fakeS3{err: boom}, "bucket", "", nil)
	require.NoError(t, err)
	_, err = s.List(context.Background())
	assert.ErrorIs(t, err, boom)
}

// Helpers...

type fakeS3 struct {
	out    *s3.ListObjectsV2Output
	err    error
	inputs []*s3.ListObjectsV2Input
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}
