package application

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/holocard-api/internal/domain/entity"
	"github.com/oksasatya/holocard-api/internal/infrastructure/memory"
)

const fakeBase = "https://objects.test/bucket/"

type fakeObjectStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	deleted    []string
	uploadErr  error
	deleteErr  error
	uploadHook func()
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (f *fakeObjectStore) Upload(ctx context.Context, key, _ string, r io.Reader) (string, error) {
	if f.uploadHook != nil {
		f.uploadHook()
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = b
	return fakeBase + key, nil
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeObjectStore) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, fakeBase) {
		return "", false
	}
	return strings.TrimPrefix(url, fakeBase), true
}

func (f *fakeObjectStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func (f *fakeObjectStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

type fakeVerifier struct {
	identity *entity.Identity
	err      error
}

func (f fakeVerifier) Verify(context.Context, string) (*entity.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	cp := *f.identity
	return &cp, nil
}

type fakeIndexer struct {
	mu   sync.Mutex
	docs []entity.CardSummary
	err  error
}

func (f *fakeIndexer) Index(_ context.Context, s entity.CardSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = append(f.docs, s)
	return f.err
}

type fakePublisher struct {
	mu   sync.Mutex
	jobs []any
	err  error
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, body)
	return nil
}

var errStorageDown = errors.New("storage unavailable")

func nullLogger() (*logrus.Logger, *test.Hook) {
	return test.NewNullLogger()
}

func seedUser(t *testing.T, store *memory.Store, id, email string) *entity.User {
	t.Helper()
	u := &entity.User{ID: id, Email: email, Name: "User " + id}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

// webpBytes returns a lossless WebP whose VP8L header declares w x h. Only
// the header is meaningful; the pixel stream is a fixed 1x1 payload.
func webpBytes(w, h int) []byte {
	hdr := make([]byte, 4)
	binary.LittleEndian.PutUint32(hdr, uint32(w-1)|uint32(h-1)<<14|1<<28)
	vp8l := append([]byte{0x2f}, hdr...)
	vp8l = append(vp8l, 0x07, 0x10, 0x11, 0x11, 0x88, 0x88, 0xfe, 0x07)

	chunk := []byte("VP8L")
	chunk = binary.LittleEndian.AppendUint32(chunk, uint32(len(vp8l)))
	chunk = append(chunk, vp8l...)
	if len(vp8l)%2 == 1 {
		chunk = append(chunk, 0)
	}

	out := []byte("RIFF")
	out = binary.LittleEndian.AppendUint32(out, uint32(4+len(chunk)))
	out = append(out, "WEBP"...)
	return append(out, chunk...)
}
