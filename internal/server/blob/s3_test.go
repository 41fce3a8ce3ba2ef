package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	putIn  *s3.PutObjectInput
	putErr error

	getOut *s3.GetObjectOutput
	getErr error

	delIn  *s3.DeleteObjectsInput
	delErr error

	listOut *s3.ListObjectsV2Output
	listErr error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putIn = in
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeS3) DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	f.delIn = in
	if f.delErr != nil {
		return nil, f.delErr
	}
	return &s3.DeleteObjectsOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func TestS3Store_Put(t *testing.T) {
	f := &fakeS3{}
	s := &S3Store{client: f, bucket: "backups"}

	err := s.Put(context.Background(), "a/user.json", Object{
		Content:     []byte("{}"),
		ContentType: "application/json",
		Metadata:    map[string]string{"origin": "test"},
	})
	require.NoError(t, err)

	require.NotNil(t, f.putIn)
	assert.Equal(t, "backups", aws.ToString(f.putIn.Bucket))
	assert.Equal(t, "a/user.json", aws.ToString(f.putIn.Key))
	assert.Equal(t, "application/json", aws.ToString(f.putIn.ContentType))
	assert.Equal(t, "test", f.putIn.Metadata["origin"])
}

func TestS3Store_Get(t *testing.T) {
	f := &fakeS3{getOut: &s3.GetObjectOutput{
		Body:        io.NopCloser(bytes.NewReader([]byte("hello"))),
		ContentType: aws.String("text/plain"),
		Metadata:    map[string]string{"k": "v"},
	}}
	s := &S3Store{client: f, bucket: "backups"}

	obj, err := s.Get(context.Background(), "a/personas/x")
	require.NoError(t, err)
	require.NotNil(t, obj)
	assert.Equal(t, []byte("hello"), obj.Content)
	assert.Equal(t, "text/plain", obj.ContentType)
	assert.Equal(t, "v", obj.Metadata["k"])
}

func TestS3Store_Get_NotFound(t *testing.T) {
	for name, err := range map[string]error{
		"NoSuchKey": &types.NoSuchKey{},
		"NotFound":  &smithy.GenericAPIError{Code: "NotFound", Message: "not found"},
	} {
		f := &fakeS3{getErr: err}
		s := &S3Store{client: f, bucket: "backups"}

		obj, getErr := s.Get(context.Background(), "missing")
		require.NoError(t, getErr, name)
		assert.Nil(t, obj, name)
	}
}

func TestS3Store_Get_BackendError(t *testing.T) {
	f := &fakeS3{getErr: errors.New("connection refused")}
	s := &S3Store{client: f, bucket: "backups"}

	_, err := s.Get(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestS3Store_Delete(t *testing.T) {
	f := &fakeS3{}
	s := &S3Store{client: f, bucket: "backups"}

	require.NoError(t, s.Delete(context.Background(), []string{"a", "b"}))
	require.NotNil(t, f.delIn)
	require.Len(t, f.delIn.Delete.Objects, 2)
	assert.Equal(t, "a", aws.ToString(f.delIn.Delete.Objects[0].Key))

	// empty batch is a no-op, no API call
	f.delIn = nil
	require.NoError(t, s.Delete(context.Background(), nil))
	assert.Nil(t, f.delIn)
}

func TestS3Store_ListKeys(t *testing.T) {
	f := &fakeS3{listOut: &s3.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("a%40b/personas/one")},
			{Key: aws.String("a%40b/personas/two")},
		},
	}}
	s := &S3Store{client: f, bucket: "backups"}

	keys, err := s.ListKeys(context.Background(), "a%40b/personas/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a%40b/personas/one", "a%40b/personas/two"}, keys)
}
