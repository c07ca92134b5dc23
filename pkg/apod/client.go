package apod

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"apodweb"
	"apodweb/pkg/consts"

	"github.com/sirupsen/logrus"
)

// ClientConfig configures a Client. Zero values fall back to the public
// service, http.DefaultClient and the standard logrus logger.
type ClientConfig struct {
	BaseURL string
	// Credential is asked for the api key on every request.
	Credential func() string
	HTTPClient *http.Client
	// Verbose enables diagnostic lines for queries and payloads.
	Verbose bool
	Logger  logrus.FieldLogger
	Sampler *Sampler
}

// Client requests pictures from the APOD service.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	baseURL    string
	credential func() string
	http       *http.Client
	verbose    bool
	log        logrus.FieldLogger
	sampler    *Sampler
}

// Result is the outcome of an asynchronous request.
type Result struct {
	Picture *apodweb.Picture
	Err     error
}

func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		baseURL:    cfg.BaseURL,
		credential: cfg.Credential,
		http:       cfg.HTTPClient,
		verbose:    cfg.Verbose,
		log:        cfg.Logger,
		sampler:    cfg.Sampler,
	}

	if c.baseURL == "" {
		c.baseURL = consts.ApodURL
	}
	if c.credential == nil {
		c.credential = func() string { return "" }
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	if c.sampler == nil {
		c.sampler = NewSampler()
	}

	return c
}

// Request runs Fetch in its own goroutine. The channel receives exactly one
// Result and is closed afterwards.
func (c *Client) Request(ctx context.Context, mode Mode) <-chan Result {
	out := make(chan Result, 1)

	go func() {
		defer close(out)
		p, err := c.Fetch(ctx, mode)
		out <- Result{Picture: p, Err: err}
	}()

	return out
}

// Fetch makes a single call to the service and normalizes the answer.
// Every failure is returned as *Error.
func (c *Client) Fetch(ctx context.Context, mode Mode) (*apodweb.Picture, error) {
	c.debugf("APOD request starting for %s", mode.describe())

	query := c.sampler.Query(mode, c.credential())

	u, err := makeRequest(c.baseURL, query)
	if err != nil {
		return nil, &Error{Kind: Transport, Cause: err}
	}

	c.debugf("request info: %s", redact(u))

	body, err := c.get(ctx, u)
	if err != nil {
		c.debugf("Error in APOD request: %s", err)
		return nil, err
	}

	c.debugf("NASA SAYS \n%s", body)

	picture, err := Normalize(mode, body)
	if err != nil {
		c.debugf("Error converting APOD response into format needed in app, reason: %s", err)
		return nil, err
	}

	if c.verbose {
		if out, err := json.Marshal(picture); err == nil {
			c.debugf("AFTER PROCESSING APOD DATA \n%s", out)
		}
	}

	return picture, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &Error{Kind: Transport, Cause: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Kind: Transport, Cause: err}
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: Transport, Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		c.debugf("APOD answered %s: %s", resp.Status, body)
		return nil, &Error{
			Kind:       UpstreamStatus,
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("NASA API Failure: %s", resp.Status),
		}
	}

	return body, nil
}

func (c *Client) debugf(format string, args ...interface{}) {
	if c.verbose {
		c.log.Infof(format, args...)
	}
}

// makeRequest sets the query on the base url.
func makeRequest(baseUrl string, params url.Values) (string, error) {
	ur, err := url.Parse(baseUrl)
	if err != nil {
		return "", err
	}

	q := ur.Query()
	for k, v := range params {
		q[k] = v
	}

	ur.RawQuery = q.Encode()
	return ur.String(), nil
}

// redact hides the api key in logged urls.
func redact(u string) string {
	ur, err := url.Parse(u)
	if err != nil {
		return u
	}

	q := ur.Query()
	if q.Get(consts.ParamApiKey) != "" {
		q.Set(consts.ParamApiKey, "REDACTED")
	}

	ur.RawQuery = q.Encode()
	return ur.String()
}
