package aws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

type Error string

const (
	ErrNoCredentials      = Error("no AWS credentials found")
	ErrExpiredCredentials = Error("AWS credentials have expired")
	ErrInvalidProfile     = Error("invalid AWS profile")
	ErrNoBucket           = Error("no S3 bucket configured")
)

func (e Error) Error() string {
	return string(e)
}

// DefaultRegion is used when neither the flags nor the profile name a region.
const DefaultRegion = "us-east-1"

// ClientConfig describes how to reach AWS.
type ClientConfig struct {
	Profile string
	Region  string
	Timeout time.Duration
}

// NewS3Client loads the shared AWS configuration for cfg and returns an S3
// client. An explicit profile must exist in the shared config files.
func NewS3Client(ctx context.Context, cfg ClientConfig) (*s3.Client, error) {
	if cfg.Profile != "" {
		names, err := NewProfileDiscovery().ProfileNames()
		if err != nil {
			return nil, err
		}
		if _, ok := names[cfg.Profile]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidProfile, cfg.Profile)
		}
	}
	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, WrapAWSError(err, "load AWS config")
	}

	return s3.NewFromConfig(awsCfg), nil
}

// WrapAWSError wraps AWS SDK errors with additional context.
func WrapAWSError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "AccessDeniedException":
			return fmt.Errorf("access denied for %s: %w", operation, err)
		case "ExpiredToken", "ExpiredTokenException":
			return fmt.Errorf("%w: %s", ErrExpiredCredentials, operation)
		case "NoSuchBucket":
			return fmt.Errorf("%s: bucket does not exist: %w", operation, err)
		case "InvalidClientTokenId":
			return fmt.Errorf("%w: %s", ErrNoCredentials, operation)
		default:
			return fmt.Errorf("%s failed: %s (%s)", operation, apiErr.ErrorMessage(), apiErr.ErrorCode())
		}
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}
