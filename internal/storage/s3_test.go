package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	return &s3.PutObjectOutput{}, f.err
}

func TestUploadImage(t *testing.T) {
	client := &fakeS3{}
	store := NewS3StoreWithClient(client, "ap-south-1", "bandhan-uploads", "https://cdn.example.com/", 1024)

	att, err := store.Upload(context.Background(), "my photo.png", "image/png", 10, strings.NewReader("0123456789"))
	require.NoError(t, err)

	assert.Equal(t, models.AttachmentImage, att.Kind)
	assert.Equal(t, "my photo.png", att.Name)
	assert.True(t, strings.HasPrefix(att.URL, "https://cdn.example.com/support-attachments/"))
	assert.True(t, strings.HasSuffix(att.URL, "-my_photo.png"))
	assert.Equal(t, "bandhan-uploads", aws.ToString(client.input.Bucket))
	assert.Equal(t, int64(10), aws.ToInt64(client.input.ContentLength))
	assert.NoError(t, att.Validate())
}

func TestUploadDefaultURL(t *testing.T) {
	store := NewS3StoreWithClient(&fakeS3{}, "ap-south-1", "b", "", 0)
	att, err := store.Upload(context.Background(), "doc.pdf", "application/pdf", 3, strings.NewReader("pdf"))
	require.NoError(t, err)
	assert.Equal(t, models.AttachmentDocument, att.Kind)
	assert.True(t, strings.HasPrefix(att.URL, "https://b.s3.ap-south-1.amazonaws.com/support-attachments/"))
}

func TestUploadRejects(t *testing.T) {
	client := &fakeS3{}
	store := NewS3StoreWithClient(client, "ap-south-1", "b", "", 5)

	_, err := store.Upload(context.Background(), "big.png", "image/png", 6, strings.NewReader("123456"))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = store.Upload(context.Background(), "run.exe", "application/x-msdownload", 2, strings.NewReader("MZ"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = store.Upload(context.Background(), "empty.png", "image/png", 0, strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)

	assert.Nil(t, client.input)
}

func TestUploadPropagatesS3Error(t *testing.T) {
	store := NewS3StoreWithClient(&fakeS3{err: assert.AnError}, "ap-south-1", "b", "", 0)
	_, err := store.Upload(context.Background(), "a.png", "image/png", 1, strings.NewReader("a"))
	assert.ErrorIs(t, err, assert.AnError)
}

func TestKindFor(t *testing.T) {
	kind, err := KindFor("image/jpeg; charset=binary")
	require.NoError(t, err)
	assert.Equal(t, models.AttachmentImage, kind)

	kind, err = KindFor("text/plain")
	require.NoError(t, err)
	assert.Equal(t, models.AttachmentDocument, kind)
}
