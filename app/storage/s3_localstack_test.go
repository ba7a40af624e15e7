package storage

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-pkgz/testutils/containers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Store_FetchLocalstack(t *testing.T) {
	if os.Getenv("TEST_LOCALSTACK") == "" {
		t.Skip("set TEST_LOCALSTACK=1 to run tests with localstack container")
	}
	ctx := context.Background()
	lc := containers.NewLocalstackTestContainer(ctx, t)
	defer func() { _ = lc.Close(ctx) }()

	client, bucket := lc.MakeS3Connection(ctx, t)
	msg := "From: sender@example.com\r\nSubject: hi\r\n\r\nbody text\r\n"
	_, err := client.PutObject(ctx, &s3.PutObjectInput{Bucket: aws.String(bucket), Key: aws.String("inbox/msg 1"),
		Body: bytes.NewReader([]byte(msg))})
	require.NoError(t, err)

	store, err := New(Params{Endpoint: strings.TrimPrefix(lc.Endpoint, "http://"), AccessKey: "test",
		SecretKey: "test", Region: "us-east-1"})
	require.NoError(t, err)

	data, err := store.Fetch(ctx, bucket, "inbox/msg 1")
	require.NoError(t, err)
	assert.Equal(t, msg, string(data))

	_, err = store.Fetch(ctx, bucket, "inbox/missing")
	require.ErrorIs(t, err, ErrNotFound)
}
