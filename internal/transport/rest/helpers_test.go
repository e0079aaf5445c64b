package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/forkful-backend/pkg/ctxutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testDeps holds one mock per service; tests set the funcs they need.
type testDeps struct {
	validator *validatorMock
	recipes   *recipeServiceMock
	comments  *commentServiceMock
	photos    *photoServiceMock
	guides    *guideServiceMock
	tasks     *taskServiceMock
	auth      *authServiceMock
	blobs     *blobOpenerMock
}

func newTestDeps() *testDeps {
	return &testDeps{
		validator: &validatorMock{},
		recipes:   &recipeServiceMock{},
		comments:  &commentServiceMock{},
		photos:    &photoServiceMock{},
		guides:    &guideServiceMock{},
		tasks:     &taskServiceMock{},
		auth:      &authServiceMock{},
		blobs:     &blobOpenerMock{},
	}
}

func (d *testDeps) router(l Limits) http.Handler {
	log := testLogger()
	return NewRouter(Handlers{
		Health:   NewHealthHandler("test"),
		Validate: NewValidateHandler(d.validator, log),
		Recipes:  NewRecipeHandler(d.recipes, log),
		Comments: NewCommentHandler(d.comments, log),
		Photos:   NewPhotoHandler(d.photos, 1<<20, log),
		Guides:   NewGuideHandler(d.guides, log),
		Auth:     NewAuthHandler(d.auth, log),
		Admin:    NewAdminHandler(d.recipes, d.photos, d.guides, d.tasks, log),
		Media:    NewMediaHandler(d.blobs, log),
	}, l)
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	if s, ok := v.(string); ok {
		return bytes.NewBufferString(s)
	}
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func asAdmin(req *http.Request) *http.Request {
	ctx := ctxutil.WithUserID(req.Context(), uuid.New())
	ctx = ctxutil.WithUserRole(ctx, ctxutil.RoleAdmin)
	return req.WithContext(ctx)
}

func asUser(req *http.Request) *http.Request {
	ctx := ctxutil.WithUserID(req.Context(), uuid.New())
	ctx = ctxutil.WithUserRole(ctx, "member")
	return req.WithContext(ctx)
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

type denyLimiter struct{}

func (denyLimiter) Allow(string) (bool, time.Duration) { return false, 30 * time.Second }

func withClientIP(req *http.Request, ip string) *http.Request {
	return req.WithContext(ctxutil.WithClientIP(req.Context(), ip))
}
