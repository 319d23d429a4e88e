package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/holocard-api/internal/application"
	"github.com/oksasatya/holocard-api/internal/domain/entity"
	"github.com/oksasatya/holocard-api/internal/infrastructure/memory"
	"github.com/oksasatya/holocard-api/internal/interface/middleware"
	"github.com/oksasatya/holocard-api/pkg/helpers"
)

const objectBase = "https://objects.test/b/"

type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memObjects) Upload(_ context.Context, key, _ string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	return objectBase + key, nil
}

func (m *memObjects) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memObjects) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, objectBase) {
		return "", false
	}
	return strings.TrimPrefix(url, objectBase), true
}

type stubVerifier struct{ id *entity.Identity }

func (s stubVerifier) Verify(context.Context, string) (*entity.Identity, error) {
	cp := *s.id
	return &cp, nil
}

type testApp struct {
	engine  *gin.Engine
	store   *memory.Store
	codec   *helpers.SessionCodec
	objects *memObjects
	reaper  *application.AsyncReaper
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger, _ := test.NewNullLogger()

	store := memory.NewStore()
	objects := &memObjects{objects: map[string][]byte{}}
	codec := helpers.NewSessionCodec("handler-secret", helpers.DefaultSessionTTL)

	verifier := stubVerifier{id: &entity.Identity{ProviderID: "sub-1", Email: "ada@example.com", EmailVerified: true, Name: "Ada"}}
	auth := application.NewAuthService(store.Users(), verifier, codec, logger)
	cards := application.NewCardService(store.Cards(), store.Users(), logger)
	profiles := application.NewProfileService(store.Users(), cards, logger)
	reaper := application.NewAsyncReaper(objects, logger, time.Second)
	t.Cleanup(reaper.Close)
	assets := application.NewAssetService(cards, objects, reaper, logger)

	errs := NewErrorResponder(logger, false)
	cookies := helpers.NewCookie("token", "", false, false)
	ah := NewAuthHandler(auth, profiles, cookies, errs)
	ph := NewProfileHandler(profiles, errs)
	uh := NewUploadHandler(assets, 1<<20, errs)
	ch := NewCardHandler(cards, "https://holo.example", errs)

	r := gin.New()
	api := r.Group("/api")
	required := middleware.RequireSession(auth, "token")
	optional := middleware.OptionalSession(auth, "token")
	api.POST("/auth/google", ah.GoogleLogin)
	api.POST("/auth/logout", ah.Logout)
	api.GET("/auth/me", required, ah.Me)
	api.POST("/auth/refresh", required, ah.Refresh)
	api.GET("/profile", required, ph.Get)
	api.PUT("/profile", required, ph.Update)
	api.POST("/upload/card-image", required, uh.ReplaceCardImage)
	api.DELETE("/upload/card-image", required, uh.DeleteCardImage)
	api.GET("/card/:publicId", optional, ch.GetPublic)
	api.GET("/card/:publicId/share", ch.Share)
	api.GET("/cards/search", required, ch.Search)
	r.GET("/health", NewHealthHandler(nil).Health)

	return &testApp{engine: r, store: store, codec: codec, objects: objects, reaper: reaper}
}

func (a *testApp) seed(t *testing.T, id, email string) string {
	t.Helper()
	require.NoError(t, a.store.Users().Create(context.Background(), &entity.User{ID: id, Email: email, Name: "User " + id}))
	tok, _, err := a.codec.Issue(id)
	require.NoError(t, err)
	return tok
}

func (a *testApp) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) doJSON(method, path, token string, v any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(v)
	return a.do(method, path, token, bytes.NewReader(b), "application/json")
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e), w.Body.String())
	return e
}

func imageForm(t *testing.T, field, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="card.png"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func pngData(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}
