package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ErrInvalidDataURL is returned for avatars that are not "data:<mime>;base64,<data>".
var ErrInvalidDataURL = errors.New("invalid base64 image")

const maxAvatarBytes = 5 << 20

// ObjectPutter is the part of *s3.Client the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3AvatarUploader stores profile pictures in a bucket served from PublicURL.
type S3AvatarUploader struct {
	client    ObjectPutter
	bucket    string
	publicURL string
	now       func() time.Time
}

func NewS3AvatarUploader(client ObjectPutter, bucket, publicURL string) *S3AvatarUploader {
	return &S3AvatarUploader{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}
}

// NewS3Client loads the default AWS credential chain for region.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config for S3: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// DecodeDataURL splits a base64 data URL into its content type, a file
// extension for it, and the decoded bytes.
func DecodeDataURL(dataURL string) (contentType, ext string, data []byte, err error) {
	meta, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(meta, "data:") || !strings.HasSuffix(meta, ";base64") {
		return "", "", nil, ErrInvalidDataURL
	}
	contentType = strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", nil, fmt.Errorf("%w: content type %q is not an image", ErrInvalidDataURL, contentType)
	}

	switch contentType {
	case "image/jpeg", "image/jpg":
		ext = ".jpg"
	default:
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		} else {
			ext = "." + strings.TrimPrefix(contentType, "image/")
		}
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if len(data) == 0 || len(data) > maxAvatarBytes {
		return "", "", nil, fmt.Errorf("%w: image must be between 1 byte and %d bytes", ErrInvalidDataURL, maxAvatarBytes)
	}
	return contentType, ext, data, nil
}

// UploadAvatar puts the image under profile-pictures/ and returns its public URL.
func (u *S3AvatarUploader) UploadAvatar(ctx context.Context, userID uint, dataURL string) (string, error) {
	contentType, ext, data, err := DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("profile-pictures/user-%d-%d%s", userID, u.now().UnixNano(), ext)

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return fmt.Sprintf("%s/%s", u.publicURL, key), nil
}
