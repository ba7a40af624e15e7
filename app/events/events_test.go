package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const awsEvent = `{
  "Records": [
    {
      "eventVersion": "2.1",
      "eventSource": "aws:s3",
      "awsRegion": "us-east-1",
      "eventTime": "2026-10-19T10:00:00.000Z",
      "eventName": "ObjectCreated:Put",
      "userIdentity": {"principalId": "AWS:AIDAEXAMPLE"},
      "requestParameters": {"sourceIPAddress": "127.0.0.1"},
      "responseElements": {"x-amz-request-id": "C3D13FE58DE4C810"},
      "s3": {
        "s3SchemaVersion": "1.0",
        "configurationId": "incoming",
        "bucket": {"name": "spamham-mail", "ownerIdentity": {"principalId": "A3NL1KOZZKExample"}, "arn": "arn:aws:s3:::spamham-mail"},
        "object": {"key": "inbox/my+email%2B1.eml", "size": 1024, "eTag": "d41d8cd98f00b204e9800998ecf8427e", "sequencer": "0055AED6DCD90281E5"}
      }
    },
    {
      "eventVersion": "2.1",
      "eventName": "ObjectRemoved:Delete",
      "s3": {"bucket": {"name": "spamham-mail"}, "object": {"key": "inbox/old.eml"}}
    }
  ]
}`

const minioEvent = `{"EventName":"s3:ObjectCreated:Put","Key":"incoming/abc.eml","Records":[{"eventVersion":"2.0",
"eventSource":"minio:s3","awsRegion":"","eventTime":"2026-10-19T10:00:00.000Z","eventName":"s3:ObjectCreated:Put",
"userIdentity":{"principalId":"minioadmin"},"requestParameters":{"region":""},"responseElements":{},
"s3":{"s3SchemaVersion":"1.0","configurationId":"Config","bucket":{"name":"incoming","ownerIdentity":{"principalId":"minioadmin"},
"arn":"arn:aws:s3:::incoming"},"object":{"key":"abc.eml","size":10,"eTag":"\"e1\"","contentType":"message/rfc822",
"sequencer":"17A"}},"source":{"host":"127.0.0.1","port":"","userAgent":"MinIO"}}]}`

func TestParse(t *testing.T) {
	t.Run("aws event", func(t *testing.T) {
		res, err := Parse([]byte(awsEvent))
		require.NoError(t, err)
		assert.Equal(t, []ObjectRef{{Bucket: "spamham-mail", Key: "inbox/my email+1.eml", Size: 1024,
			ETag: "d41d8cd98f00b204e9800998ecf8427e", Sequencer: "0055AED6DCD90281E5"}}, res)
	})

	t.Run("minio event", func(t *testing.T) {
		res, err := Parse([]byte(minioEvent))
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, ObjectRef{Bucket: "incoming", Key: "abc.eml", Size: 10, ETag: "e1", Sequencer: "17A"}, res[0])
		assert.Equal(t, "incoming/abc.eml", res[0].String())
	})

	t.Run("test event without records", func(t *testing.T) {
		res, err := Parse([]byte(`{"Service":"Amazon S3","Event":"s3:TestEvent","Bucket":"spamham-mail"}`))
		require.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("bad json", func(t *testing.T) {
		_, err := Parse([]byte(`{"Records": [`))
		require.Error(t, err)
	})

	t.Run("bad key encoding", func(t *testing.T) {
		_, err := Parse([]byte(`{"Records":[{"eventName":"ObjectCreated:Put","s3":{"bucket":{"name":"b"},"object":{"key":"a%zz"}}}]}`))
		require.Error(t, err)
	})

	t.Run("missing bucket", func(t *testing.T) {
		_, err := Parse([]byte(`{"Records":[{"eventName":"ObjectCreated:Put","s3":{"object":{"key":"a.eml"}}}]}`))
		require.Error(t, err)
	})
}

func TestIsCreated(t *testing.T) {
	assert.True(t, isCreated("ObjectCreated:Put"))
	assert.True(t, isCreated("s3:ObjectCreated:CompleteMultipartUpload"))
	assert.False(t, isCreated("ObjectRemoved:Delete"))
	assert.False(t, isCreated("s3:ObjectAccessed:Get"))
	assert.False(t, isCreated(""))
}

func TestDispatch(t *testing.T) {
	var handled []string
	h := HandlerFunc(func(_ context.Context, ref ObjectRef) error {
		handled = append(handled, ref.Key)
		if ref.Key == "bad.eml" {
			return errors.New("broken message")
		}
		return nil
	})
	dedup := NewDedup(time.Minute, 100)
	objs := []ObjectRef{{Bucket: "b", Key: "one.eml", ETag: "e1"}, {Bucket: "b", Key: "bad.eml"}, {Bucket: "b", Key: "one.eml", ETag: "e1"}}

	res := Dispatch(context.Background(), h, dedup, objs)
	require.Len(t, res, 3)
	assert.Equal(t, Status{ObjectRef: objs[0]}, res[0])
	assert.Equal(t, Status{ObjectRef: objs[1], Error: "broken message"}, res[1])
	assert.Equal(t, Status{ObjectRef: objs[2], Skipped: true}, res[2])
	assert.Equal(t, []string{"one.eml", "bad.eml"}, handled)

	// failed object is not remembered and can be retried
	res = Dispatch(context.Background(), h, dedup, objs[1:2])
	assert.Equal(t, "broken message", res[0].Error)
	assert.Equal(t, []string{"one.eml", "bad.eml", "bad.eml"}, handled)

	t.Run("without dedup", func(t *testing.T) {
		handled = nil
		res := Dispatch(context.Background(), h, nil, objs[:1])
		assert.Equal(t, Status{ObjectRef: objs[0]}, res[0])
		res = Dispatch(context.Background(), h, nil, objs[:1])
		assert.Equal(t, Status{ObjectRef: objs[0]}, res[0])
		assert.Equal(t, []string{"one.eml", "one.eml"}, handled)
	})

	t.Run("panicking handler", func(t *testing.T) {
		dedup := NewDedup(time.Minute, 100)
		ref := ObjectRef{Bucket: "b", Key: "panic.eml", ETag: "p1"}
		panicky := HandlerFunc(func(context.Context, ObjectRef) error { panic("boom") })
		assert.PanicsWithValue(t, "boom", func() { Dispatch(context.Background(), panicky, dedup, []ObjectRef{ref}) })

		calls := 0
		ok := HandlerFunc(func(context.Context, ObjectRef) error { calls++; return nil })
		res := Dispatch(context.Background(), ok, dedup, []ObjectRef{ref})
		assert.Equal(t, Status{ObjectRef: ref}, res[0], "redelivery handled after panic")
		assert.Equal(t, 1, calls)
	})

	t.Run("canceled context", func(t *testing.T) {
		handled = nil
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		res := Dispatch(ctx, h, nil, objs[:1])
		assert.Equal(t, context.Canceled.Error(), res[0].Error)
		assert.Empty(t, handled)
	})
}
