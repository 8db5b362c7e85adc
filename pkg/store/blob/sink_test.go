package blob

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPutter struct {
	mock.Mock
}

func (m *mockPutter) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func TestLocalSink_Put(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	sink, err := NewLocalSink(dir)
	require.NoError(t, err)

	location, err := sink.Put(context.Background(), "obesity-trend.png", "image/png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "obesity-trend.png"), location)

	content, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, "png", string(content))

	_, err = sink.Put(context.Background(), "../escape.png", "image/png", nil)
	assert.Error(t, err)
}

func TestS3Sink_Put(t *testing.T) {
	client := &mockPutter{}
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return *in.Bucket == "atlas" &&
			*in.Key == "exports/2024/obesity-trend.svg" &&
			*in.ContentType == "image/svg+xml" &&
			string(body) == "<svg/>"
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	sink := NewS3SinkWithClient(client, "atlas", "/exports/2024/")
	location, err := sink.Put(context.Background(), "obesity-trend.svg", "image/svg+xml", []byte("<svg/>"))
	require.NoError(t, err)
	assert.Equal(t, "s3://atlas/exports/2024/obesity-trend.svg", location)
	client.AssertExpectations(t)
}

func TestS3Sink_PutError(t *testing.T) {
	client := &mockPutter{}
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	sink := NewS3SinkWithClient(client, "atlas", "")
	_, err := sink.Put(context.Background(), "a.png", "image/png", []byte("x"))
	assert.ErrorContains(t, err, "s3://atlas/a.png")
}

func TestParseS3URI(t *testing.T) {
	bucket, prefix, err := ParseS3URI("s3://atlas/exports/daily/")
	require.NoError(t, err)
	assert.Equal(t, "atlas", bucket)
	assert.Equal(t, "exports/daily", prefix)

	bucket, prefix, err = ParseS3URI("s3://atlas")
	require.NoError(t, err)
	assert.Equal(t, "atlas", bucket)
	assert.Empty(t, prefix)

	_, _, err = ParseS3URI("https://atlas/exports")
	assert.Error(t, err)
}
