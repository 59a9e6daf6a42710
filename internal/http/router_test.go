package http

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/require"

	"authgate/internal/auth"
	"authgate/internal/config"
	"authgate/internal/logging"
	"authgate/internal/ratelimit"
	"authgate/internal/user"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store, err := user.OpenFileStore(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)

	codec, err := auth.NewPasetoCodec([]byte("test secret"), 0)
	require.NoError(t, err)

	svc := auth.NewService(store, auth.NewSHA512Hasher(), codec)
	logger := logging.NewLogger(true)

	cfg := &config.Config{
		Server: config.ServerConfig{Env: "test"},
	}

	return NewRouter(cfg, auth.NewHandler(svc, ratelimit.NewDisabledLimiter(), logger), auth.NewMiddleware(svc), logger)
}

func registerAlice(t *testing.T, router http.Handler) (id, token string) {
	t.Helper()

	result := apitest.Handler(router).
		Post("/api/users").
		JSON(`{"name": "Alice", "email": "a@x.com", "password": "longpass1"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Present("$.id")).
		Assert(jsonpath.Present("$.token")).
		End()

	var body struct {
		ID    string `json:"id"`
		Token string `json:"token"`
	}
	result.JSON(&body)
	require.NotEmpty(t, body.ID)
	require.NotEmpty(t, body.Token)

	return body.ID, body.Token
}

func TestAPI_RegisterLoginShow(t *testing.T) {
	router := newTestRouter(t)

	id, token := registerAlice(t, router)

	// Login returns the same id with a fresh token.
	apitest.Handler(router).
		Post("/api/login").
		JSON(`{"email": "a@x.com", "password": "longpass1"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.id", id)).
		Assert(jsonpath.Present("$.token")).
		End()

	// The profile never exposes the digest.
	apitest.Handler(router).
		Get("/api/users/"+id).
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.id", id)).
		Assert(jsonpath.Equal("$.name", "Alice")).
		Assert(jsonpath.Equal("$.email", "a@x.com")).
		Assert(jsonpath.NotPresent("$.password_digest")).
		Assert(jsonpath.NotPresent("$.passwordDigest")).
		End()
}

func TestAPI_RegisterDuplicateEmail(t *testing.T) {
	router := newTestRouter(t)

	registerAlice(t, router)

	apitest.Handler(router).
		Post("/api/users").
		JSON(`{"name": "Someone Else", "email": "a@x.com", "password": "different9"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Present("$.message")).
		End()
}

func TestAPI_LoginFailures(t *testing.T) {
	router := newTestRouter(t)

	registerAlice(t, router)

	// Wrong password and unknown email produce the same response.
	for _, body := range []string{
		`{"email": "a@x.com", "password": "wrongpass1"}`,
		`{"email": "nobody@x.com", "password": "longpass1"}`,
	} {
		apitest.Handler(router).
			Post("/api/login").
			JSON(body).
			Expect(t).
			Status(http.StatusBadRequest).
			Assert(jsonpath.Equal("$.message", "invalid email or password")).
			End()
	}
}

func TestAPI_ShowRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	id, token := registerAlice(t, router)

	apitest.Handler(router).
		Get("/api/users/" + id).
		Expect(t).
		Status(http.StatusUnauthorized).
		End()

	apitest.Handler(router).
		Get("/api/users/"+id).
		Header("Authorization", "Bearer wrong").
		Expect(t).
		Status(http.StatusUnauthorized).
		End()

	// Authenticated but unknown id is a 404, not a 401.
	apitest.Handler(router).
		Get("/api/users/00000000-0000-0000-0000-000000000000").
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusNotFound).
		End()

	// A non-uuid id is also just not found.
	apitest.Handler(router).
		Get("/api/users/does-not-parse").
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusNotFound).
		End()
}

func TestAPI_Health(t *testing.T) {
	router := newTestRouter(t)

	apitest.Handler(router).
		Get("/health").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.status", "api is running")).
		End()
}
