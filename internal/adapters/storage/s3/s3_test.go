package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"asciify/internal/ports"
)

type fakeAPI struct {
	objects map[string][]byte
	puts    []*awss3.PutObjectInput
	failPut error
}

func newFakeAPI() *fakeAPI { return &fakeAPI{objects: make(map[string][]byte)} }

func (f *fakeAPI) PutObject(_ context.Context, in *awss3.PutObjectInput, _ ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	if f.failPut != nil {
		return nil, f.failPut
	}
	b, _ := io.ReadAll(in.Body)
	f.objects[aws.ToString(in.Key)] = b
	return &awss3.PutObjectOutput{ETag: aws.String(`"etag-1"`)}, nil
}

func (f *fakeAPI) GetObject(_ context.Context, in *awss3.GetObjectInput, _ ...func(*awss3.Options)) (*awss3.GetObjectOutput, error) {
	b, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, fmt.Errorf("NoSuchKey")
	}
	return &awss3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(b)),
		ContentType:   aws.String("text/plain"),
		ContentLength: aws.Int64(int64(len(b))),
	}, nil
}

func (f *fakeAPI) DeleteObject(_ context.Context, in *awss3.DeleteObjectInput, _ ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &awss3.DeleteObjectOutput{}, nil
}

func TestPutGetDelete(t *testing.T) {
	api := newFakeAPI()
	c := NewWithAPI(api, "emerge")
	ctx := context.Background()

	out, err := c.PutObject(ctx, ports.PutObjectInput{
		ObjectKey:   "asciify-1",
		ContentType: "text/plain",
		Reader:      strings.NewReader("@@\n"),
		Size:        3,
	})
	if err != nil {
		t.Fatalf("PutObject: %v", err)
	}
	if out.ETag != "etag-1" || out.Size != 3 {
		t.Errorf("unexpected output %+v", out)
	}
	if got := aws.ToInt64(api.puts[0].ContentLength); got != 3 {
		t.Errorf("expected explicit content length 3, got %d", got)
	}
	if aws.ToString(api.puts[0].Bucket) != "emerge" {
		t.Errorf("expected bucket emerge, got %s", aws.ToString(api.puts[0].Bucket))
	}

	rc, ct, size, err := c.GetObject(ctx, "asciify-1")
	if err != nil {
		t.Fatalf("GetObject: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "@@\n" || ct != "text/plain" || size != 3 {
		t.Errorf("unexpected object %q %s %d", body, ct, size)
	}

	if err := c.DeleteObject(ctx, "asciify-1"); err != nil {
		t.Fatalf("DeleteObject: %v", err)
	}
	if _, ok := api.objects["asciify-1"]; ok {
		t.Error("expected object to be deleted")
	}
}

func TestPutRejectsSizeMismatch(t *testing.T) {
	api := newFakeAPI()
	c := NewWithAPI(api, "emerge")

	_, err := c.PutObject(context.Background(), ports.PutObjectInput{
		ObjectKey: "asciify-1",
		Reader:    strings.NewReader("abc"),
		Size:      10,
	})
	if err == nil {
		t.Fatal("expected size mismatch error")
	}
	if len(api.puts) != 0 {
		t.Error("expected no request to reach the backend")
	}
}

func TestPutPropagatesBackendError(t *testing.T) {
	api := newFakeAPI()
	api.failPut = fmt.Errorf("AccessDenied")
	c := NewWithAPI(api, "emerge")

	_, err := c.PutObject(context.Background(), ports.PutObjectInput{
		ObjectKey: "asciify-1",
		Reader:    strings.NewReader("abc"),
		Size:      3,
	})
	if err == nil || !strings.Contains(err.Error(), "AccessDenied") {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}, ""); err == nil {
		t.Error("expected error for empty bucket")
	}
}
