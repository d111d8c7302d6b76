package s3

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/5w1tchy/oku-storefront/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, publicBase string) *CoverStore {
	t.Helper()
	s, err := New(context.Background(), config.StorageConfig{
		Endpoint:        "https://acc.r2.example.com",
		Region:          "auto",
		Bucket:          "covers-bucket",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		PublicBaseURL:   publicBase,
	})
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2025, 4, 9, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestCoverKey(t *testing.T) {
	s := newTestStore(t, "")
	key, err := s.CoverKey("image/PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "covers/2025/04/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)

	_, err = s.CoverKey("application/pdf")
	assert.ErrorIs(t, err, ErrContentType)
}

func TestPresignCoverUpload(t *testing.T) {
	s := newTestStore(t, "https://cdn.oku.kg/")
	up, err := s.PresignCoverUpload(context.Background(), "image/jpeg")
	require.NoError(t, err)

	assert.Contains(t, up.UploadURL, "X-Amz-Signature=")
	assert.Contains(t, up.UploadURL, up.Key)
	assert.Equal(t, "https://cdn.oku.kg/"+up.Key, up.PublicURL)
	assert.Equal(t, time.Date(2025, 4, 9, 12, 15, 0, 0, time.UTC), up.ExpiresAt)
}

func TestPublicURL_PresignsWithoutBase(t *testing.T) {
	s := newTestStore(t, "")
	u, err := s.PublicURL(context.Background(), "covers/2025/04/x.jpg")
	require.NoError(t, err)
	assert.Contains(t, u, "X-Amz-Signature=")
}

func TestDeleteCover_RejectsForeignKeys(t *testing.T) {
	s := newTestStore(t, "")
	assert.Error(t, s.DeleteCover(context.Background(), "banners/x.jpg"))
	assert.Error(t, s.DeleteCover(context.Background(), "covers/../secrets"))
}
