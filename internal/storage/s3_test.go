package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicBaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  S3Config
		want string
	}{
		{"explicit", S3Config{Bucket: "b", PublicBaseURL: "https://cdn.example/"}, "https://cdn.example"},
		{"endpoint", S3Config{Bucket: "b", Endpoint: "http://localhost:9000/"}, "http://localhost:9000/b"},
		{"aws region", S3Config{Bucket: "b", Region: "eu-west-1"}, "https://b.s3.eu-west-1.amazonaws.com"},
		{"aws default region", S3Config{Bucket: "b"}, "https://b.s3.us-east-1.amazonaws.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PublicBaseURL(tt.cfg))
		})
	}
}

func TestNewS3Service_RequiresBucket(t *testing.T) {
	_, err := NewS3Service(s3.New(s3.Options{Region: "us-east-1"}), S3Config{})
	assert.Error(t, err)
}

// fakeS3 answers the handful of path-style calls S3Service makes.
type fakeS3 struct {
	mu       sync.Mutex
	puts     []string
	deletes  int
	listHits int
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, _ = io.Copy(io.Discard, r.Body)

	q := r.URL.Query()
	switch {
	case r.Method == http.MethodPut:
		f.puts = append(f.puts, r.URL.Path)
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPost && q.Has("delete"):
		f.deletes++
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?><DeleteResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/"></DeleteResult>`)
	case r.Method == http.MethodGet && q.Get("list-type") == "2":
		f.listHits++
		w.Header().Set("Content-Type", "application/xml")
		if q.Get("continuation-token") == "" {
			fmt.Fprint(w, listPage("avatars/1/a.png", true, "page-2"))
			return
		}
		fmt.Fprint(w, listPage("avatars/1/b.png", false, ""))
	default:
		http.Error(w, "unexpected request", http.StatusBadRequest)
	}
}

func listPage(key string, truncated bool, next string) string {
	var token string
	if next != "" {
		token = "<NextContinuationToken>" + next + "</NextContinuationToken>"
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
<Name>media</Name><Prefix>avatars/1/</Prefix><KeyCount>1</KeyCount><MaxKeys>1000</MaxKeys>
<IsTruncated>%t</IsTruncated>%s
<Contents><Key>%s</Key><Size>3</Size><LastModified>2024-01-01T00:00:00.000Z</LastModified></Contents>
</ListBucketResult>`, truncated, token, key)
}

func newFakeS3Service(t *testing.T) (*S3Service, *fakeS3) {
	t.Helper()
	fake := &fakeS3{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(srv.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("test", "test", ""),
	})
	svc, err := NewS3Service(client, S3Config{Bucket: "media", Endpoint: srv.URL})
	require.NoError(t, err)
	return svc, fake
}

func TestS3Service_Put(t *testing.T) {
	svc, fake := newFakeS3Service(t)

	url, err := svc.Put(context.Background(), Object{
		Key:         "/avatars/1/my face.png",
		ContentType: "image/png",
		Size:        3,
		Body:        strings.NewReader("png"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, "/media/avatars/1/my%20face.png"), url)
	require.Len(t, fake.puts, 1)
	assert.Equal(t, "/media/avatars/1/my face.png", fake.puts[0])

	_, err = svc.Put(context.Background(), Object{Key: "", Body: strings.NewReader("x")})
	assert.Error(t, err)
	_, err = svc.Put(context.Background(), Object{Key: "k"})
	assert.Error(t, err)
}

func TestS3Service_ListObjectsFollowsPages(t *testing.T) {
	svc, fake := newFakeS3Service(t)

	objects, err := svc.ListObjects(context.Background(), "avatars/1/")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "avatars/1/a.png", objects[0].Key)
	assert.Equal(t, "avatars/1/b.png", objects[1].Key)
	assert.EqualValues(t, 3, objects[0].Size)
	require.NotNil(t, objects[0].LastModified)
	assert.Equal(t, 2, fake.listHits)
}

func TestS3Service_DeleteObjectsBatches(t *testing.T) {
	svc, fake := newFakeS3Service(t)

	keys := make([]string, 1001)
	for i := range keys {
		keys[i] = fmt.Sprintf("avatars/1/%d.png", i)
	}
	require.NoError(t, svc.DeleteObjects(context.Background(), keys...))
	assert.Equal(t, 2, fake.deletes)

	require.NoError(t, svc.DeleteObjects(context.Background()))
	assert.Equal(t, 2, fake.deletes)
}
