package middleware

import (
    "io"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/stadium-entry/internal/config"
)

func TestResourceOf(t *testing.T) {
    tests := map[string]string{
        "/users":             "users",
        "/users/7":           "users",
        "/users/national/N1": "users",
        "/tickets/":          "tickets",
        "/":                  "root",
        "":                   "root",
    }
    for in, want := range tests {
        assert.Equal(t, want, resourceOf(in), in)
    }
}

func TestCacheKeyDistinguishesPaths(t *testing.T) {
    e := echo.New()
    cfg := config.CacheConfig{Prefix: "cache"}
    key := func(target string) string {
        return cacheKeyFrom(cfg, e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder()))
    }
    a, b := key("/users/1"), key("/users/2")
    assert.NotEqual(t, a, b)
    assert.True(t, strings.HasPrefix(a, "cache:users:"))
    assert.Equal(t, a, key("/users/1"))
    assert.NotEqual(t, key("/tickets?x=1"), key("/tickets?x=2"))
}

func TestPayloadRoundTrip(t *testing.T) {
    hdr := http.Header{"Content-Type": {"application/json"}}
    bs, err := encodePayload(http.StatusOK, hdr, []byte(`[]`))
    require.NoError(t, err)

    status, got, body, ok := decodePayload(bs)
    require.True(t, ok)
    assert.Equal(t, http.StatusOK, status)
    assert.Equal(t, hdr, got)
    assert.Equal(t, "[]", string(body))

    _, _, _, ok = decodePayload([]byte{0, 1})
    assert.False(t, ok)
}

func TestMiddlewaresPassThroughWithoutRedis(t *testing.T) {
    e := echo.New()
    calls := 0
    h := func(c echo.Context) error {
        calls++
        return c.String(http.StatusOK, "ok")
    }
    chain := NewRedisCache(config.CacheConfig{Enabled: true}, nil)(
        InvalidateOnWrite(config.CacheConfig{Enabled: true}, nil, "users")(
            NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil)(h)))

    for i := 0; i < 3; i++ {
        rec := httptest.NewRecorder()
        require.NoError(t, chain(e.NewContext(httptest.NewRequest(http.MethodGet, "/users", nil), rec)))
        assert.Equal(t, http.StatusOK, rec.Code)
        assert.Empty(t, rec.Header().Get("X-Cache"))
    }
    assert.Equal(t, 3, calls)
}

func TestBuildRateKey(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/verify", nil)
    req.RemoteAddr = "10.0.0.9:1234"
    c := e.NewContext(req, httptest.NewRecorder())
    c.SetPath("/verify")

    assert.Equal(t, "rl:ip:10.0.0.9", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c))
    assert.Equal(t, "rl:route:POST /verify", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "route"}, c))
    assert.Equal(t, "rl:ip:10.0.0.9:route:POST /verify", buildRateKey(config.RateLimitConfig{Prefix: "rl"}, c))
}

func TestBuildRateKeyByHolder(t *testing.T) {
    e := echo.New()
    cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "national_id"}
    tests := []struct {
        name string
        body string
        want string
    }{
        {"holder in body", `{"national_id":" N1 ","ticket_number":"ABCD1234"}`, "rl:holder:N1"},
        {"no holder", `{"ticket_number":"ABCD1234"}`, "rl:ip:10.0.0.9"},
        {"not json", `national_id=N1`, "rl:ip:10.0.0.9"},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            req := httptest.NewRequest(http.MethodPost, "/verify", strings.NewReader(tt.body))
            req.RemoteAddr = "10.0.0.9:1234"
            c := e.NewContext(req, httptest.NewRecorder())

            assert.Equal(t, tt.want, buildRateKey(cfg, c))

            rest, err := io.ReadAll(c.Request().Body)
            require.NoError(t, err)
            assert.Equal(t, tt.body, string(rest), "body must stay readable for the handler")
        })
    }
}

func TestCaptureWriterLimit(t *testing.T) {
    rec := httptest.NewRecorder()
    cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
    _, _ = cw.Write([]byte("abcd"))
    _, _ = cw.Write([]byte("ef"))

    assert.Equal(t, "abcd", cw.buf.String())
    assert.Equal(t, int64(6), cw.size)
    assert.Equal(t, "abcdef", rec.Body.String())
}
