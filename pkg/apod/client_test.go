package apod

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"apodweb/pkg/consts"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

const okPayload = `{"copyright":"Soumyadeep Mukherjee","date":"2022-01-01","media_type":"image","title":"The Full Moon of 2021","url":"https://apod.nasa.gov/apod/image/2201/MoonstripsAnnotatedIG_crop1024.jpg"}`

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *test.Hook) {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	logger, hook := test.NewNullLogger()

	return NewClient(ClientConfig{
		BaseURL:    srv.URL + "/planetary/apod",
		Credential: func() string { return "secret" },
		HTTPClient: srv.Client(),
		Verbose:    true,
		Logger:     logger,
		Sampler: &Sampler{
			now:    fixedClock(time.Date(2022, 1, 2, 8, 0, 0, 0, time.UTC)),
			int63n: func(n int64) int64 { return n - 1 },
		},
	}), hook
}

func TestFetchToday(t *testing.T) {

	var path string
	var query url.Values
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		query = r.URL.Query()
		fmt.Fprint(w, okPayload)
	})

	p, err := c.Fetch(context.Background(), Today)
	require.NoError(t, err)

	require.Equal(t, "/planetary/apod", path)

	require.Equal(t, "secret", query.Get(consts.ParamApiKey))
	_, hasDate := query[consts.ParamDate]
	require.False(t, hasDate)

	require.Equal(t, "2022-01-01", p.Date)
	require.Equal(t, "Image credit and copyright: Soumyadeep Mukherjee", p.Credit)
	require.True(t, p.IsImage)
	require.Equal(t, "http://apod.nasa.gov/apod/", p.NasaURL)
}

func TestFetchRandom(t *testing.T) {

	var query url.Values
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		fmt.Fprint(w, okPayload)
	})

	p, err := c.Fetch(context.Background(), Random)
	require.NoError(t, err)

	require.Equal(t, "2022-01-01", query.Get(consts.ParamDate))
	require.Equal(t, "http://apod.nasa.gov/apod/ap220101.html", p.NasaURL)
}

func TestFetchReadsCredentialEveryCall(t *testing.T) {

	var keys []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.URL.Query().Get(consts.ParamApiKey))
		fmt.Fprint(w, okPayload)
	})

	var calls int32
	c.credential = func() string {
		return fmt.Sprintf("key-%d", atomic.AddInt32(&calls, 1))
	}

	for i := 0; i < 2; i++ {
		_, err := c.Fetch(context.Background(), Today)
		require.NoError(t, err)
	}

	require.Equal(t, []string{"key-1", "key-2"}, keys)
}

func TestFetchErrors(t *testing.T) {

	tests := []struct {
		name     string
		handler  http.HandlerFunc
		mode     Mode
		expected Kind
		status   int
	}{
		{
			name: "forbidden",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprint(w, `{"error":{"code":"API_KEY_INVALID"}}`)
			},
			expected: UpstreamStatus,
			status:   http.StatusForbidden,
		}, {
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			expected: UpstreamStatus,
			status:   http.StatusNotFound,
		}, {
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `<html>nope</html>`)
			},
			expected: MalformedPayload,
		}, {
			name: "missing url",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"date":"2022-01-01"}`)
			},
			expected: MalformedPayload,
		}, {
			name: "random without date",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"url":"http://x/y.jpg"}`)
			},
			mode:     Random,
			expected: MalformedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, tt.handler)

			p, err := c.Fetch(context.Background(), tt.mode)
			require.Nil(t, p)
			require.True(t, IsKind(err, tt.expected), err.Error())

			if tt.status != 0 {
				e, ok := err.(*Error)
				require.True(t, ok)
				require.Equal(t, tt.status, e.StatusCode)
			}
		})
	}
}

func TestFetchConnectionRefused(t *testing.T) {

	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewClient(ClientConfig{BaseURL: base, Credential: func() string { return "secret" }})

	p, err := c.Fetch(context.Background(), Today)
	require.Nil(t, p)
	require.True(t, IsKind(err, Transport), err.Error())
}

func TestRequestDeliversOneResult(t *testing.T) {

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, okPayload)
	})

	results := []<-chan Result{
		c.Request(context.Background(), Today),
		c.Request(context.Background(), Random),
	}

	for _, ch := range results {
		res, ok := <-ch
		require.True(t, ok)
		require.NoError(t, res.Err)
		require.Equal(t, "2022-01-01", res.Picture.Date)

		_, ok = <-ch
		require.False(t, ok)
	}
}

func TestFetchDiagnostics(t *testing.T) {

	c, hook := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, okPayload)
	})

	_, err := c.Fetch(context.Background(), Random)
	require.NoError(t, err)

	var lines []string
	for _, e := range hook.AllEntries() {
		lines = append(lines, e.Message)
	}
	all := strings.Join(lines, "\n")

	require.Contains(t, all, "APOD request starting for random picture")
	require.Contains(t, all, "api_key=REDACTED")
	require.NotContains(t, all, "secret")
	require.Contains(t, all, "NASA SAYS")
	require.Contains(t, all, "AFTER PROCESSING APOD DATA")

	hook.Reset()
	c.verbose = false

	_, err = c.Fetch(context.Background(), Today)
	require.NoError(t, err)
	require.Empty(t, hook.AllEntries())
}

func TestMakeRequest(t *testing.T) {
	tests := []struct {
		name     string
		baseUrl  string
		params   url.Values
		expected string
	}{
		{
			name:     "Get url with no params",
			baseUrl:  "https://hehe.org/hehe",
			expected: "https://hehe.org/hehe",
		},
		{
			name:     "Get url with one param",
			baseUrl:  "https://hehe.org/hehe",
			params:   url.Values{"count": {"1"}},
			expected: "https://hehe.org/hehe?count=1",
		}, {
			name:     "Get url with several params",
			baseUrl:  "https://hehe.org/hehe",
			params:   url.Values{"count": {"1"}, "not": {"hehe"}},
			expected: "https://hehe.org/hehe?count=1&not=hehe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {

			actual, err := makeRequest(tt.baseUrl, tt.params)

			require.NoError(t, err)
			require.Equal(t, tt.expected, actual)
		})
	}
}
