package dao

import (
	"context"
	"path"
	"strconv"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/a1s/gridbuf/internal/aws"
	"github.com/a1s/gridbuf/internal/model1"
)

// S3Source lists the objects and folders directly under a bucket prefix.
type S3Source struct {
	client s3.ListObjectsV2APIClient
	bucket string
	prefix string
	cache  *RowCache
}

// NewS3Source returns a source listing bucket/prefix through client. A nil
// cache disables caching.
func NewS3Source(client s3.ListObjectsV2APIClient, bucket, prefix string, cache *RowCache) (*S3Source, error) {
	if bucket == "" {
		return nil, aws.ErrNoBucket
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	return &S3Source{
		client: client,
		bucket: bucket,
		prefix: prefix,
		cache:  cache,
	}, nil
}

// Header returns the S3 object header
func (s *S3Source) Header() model1.Header {
	return model1.Header{
		{Name: "NAME"},
		{Name: "SIZE", Attrs: model1.Attrs{Number: true}},
		{Name: "CLASS"},
		{Name: "AGE", Attrs: model1.Attrs{Time: true}},
	}
}

func (s *S3Source) key() string {
	return "s3://" + s.bucket + "/" + s.prefix
}

// List pages through the objects under the prefix. Common prefixes are listed
// as folders.
func (s *S3Source) List(ctx context.Context) (model1.Rows, error) {
	if s.cache != nil {
		if rows, ok := s.cache.Get(s.key()); ok {
			return rows, nil
		}
	}

	input := s3.ListObjectsV2Input{
		Bucket:    awssdk.String(s.bucket),
		Delimiter: awssdk.String("/"),
	}
	if s.prefix != "" {
		input.Prefix = awssdk.String(s.prefix)
	}

	var rows model1.Rows
	paginator := s3.NewListObjectsV2Paginator(s.client, &input)
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, aws.WrapAWSError(err, "list objects")
		}

		for _, p := range output.CommonPrefixes {
			if p.Prefix == nil {
				continue
			}
			name := strings.TrimSuffix(strings.TrimPrefix(*p.Prefix, s.prefix), "/") + "/"
			rows = append(rows, model1.Row{
				ID:     *p.Prefix,
				Fields: model1.Fields{name, model1.NAValue, "FOLDER", model1.NAValue},
			})
		}
		for _, obj := range output.Contents {
			key := awssdk.ToString(obj.Key)
			if key == s.prefix {
				continue
			}
			rows = append(rows, model1.Row{
				ID: key,
				Fields: model1.Fields{
					path.Base(key),
					strconv.FormatInt(awssdk.ToInt64(obj.Size), 10),
					string(obj.StorageClass),
					model1.ToAge(awssdk.ToTime(obj.LastModified)),
				},
			})
		}
	}

	if s.cache != nil {
		s.cache.Set(s.key(), rows)
	}
	return rows, nil
}
