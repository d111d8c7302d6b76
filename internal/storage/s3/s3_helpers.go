package s3

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DeleteCover removes an uploaded cover that the admin discarded. Only keys
// under covers/ are accepted.
func (s *CoverStore) DeleteCover(ctx context.Context, key string) error {
	if !strings.HasPrefix(key, "covers/") || strings.Contains(key, "..") {
		return fmt.Errorf("s3: refusing to delete %q", key)
	}
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3: delete object %s: %w", key, err)
	}
	return nil
}
