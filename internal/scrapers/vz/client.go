// client.go contains the http plumbing shared by every page of the site, the
// parsers for the individual pages live in their own files.

package vz

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"vzchat-backend/internal/components/assert"
	"vzchat-backend/internal/components/telemetry"
	"vzchat-backend/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const DEFAULT_BASE_URL = "https://sexvz.net"

// the site's php session cookie, it is the only credential there is
const SESSION_COOKIE = "PHPSESSID"

const (
	report_client_fetch_page = "client.fetch-page"
	report_client_login      = "client.login"
	report_client_online     = "client.online-users"
	report_client_profile    = "client.profile"
	report_client_messages   = "client.message-page"
	report_client_crawl      = "client.crawl"
	report_client_threads    = "client.all-threads"
	report_client_thread     = "client.thread"
	report_client_send       = "client.send-message"
)

const (
	endpoint_login     = "/action_login.php"
	endpoint_login_ref = "/login.php"
	endpoint_online    = "/online.php"
	endpoint_profile   = "/view_profile.php"
	endpoint_inbox     = "/msg_in.php"
	endpoint_outbox    = "/msg_out.php"
	endpoint_thread    = "/msg_read.php"
	endpoint_send      = "/ajax2.php"
)

type ClientOptions struct {
	// BaseUrl defaults to DEFAULT_BASE_URL.
	BaseUrl string
	// RequestsPerSecond throttles outgoing requests, <= 0 disables throttling.
	RequestsPerSecond float64
	// Dump receives every http exchange, nil disables dumping.
	Dump restyutil.Output
}

// Client scrapes the site on behalf of any number of sessions, it holds no
// per-session state and is safe for concurrent use.
type Client struct {
	BaseUrl *url.URL

	http *resty.Client
	// login does not follow redirects so the cookie set by the login response
	// itself can be read.
	login *resty.Client
	tel   telemetry.API

	// boundary generates multipart boundaries for SendMessage.
	boundary func() (string, error)
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("vz_scraper", tel)

	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DEFAULT_BASE_URL
	}
	parsedBaseUrl, err := url.Parse(strings.TrimRight(baseUrl, "/"))
	if err != nil {
		return nil, err
	}
	assert.AbsoluteUrl(parsedBaseUrl.Scheme, parsedBaseUrl.Host)

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		// burst >= 1 so no request is ever dropped, only delayed
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	dumper := restyutil.NewDumper(opts.Dump)

	c := &Client{
		BaseUrl: parsedBaseUrl,
		http: newHttpClient(
			parsedBaseUrl,
			resty.DomainCheckRedirectPolicy(parsedBaseUrl.Hostname()),
			limiter,
			dumper,
			tel,
		),
		login: newHttpClient(
			parsedBaseUrl,
			resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			}),
			limiter,
			dumper,
			tel,
		),
		tel:      tel,
		boundary: randomBoundary,
	}
	return c, nil
}

func newHttpClient(
	baseUrl *url.URL,
	redirectPolicy resty.RedirectPolicy,
	limiter *rate.Limiter,
	dumper *restyutil.Dumper,
	tel telemetry.API,
) *resty.Client {
	httpClient := resty.New()
	httpClient.SetBaseURL(baseUrl.String())
	// sessions are passed explicitly on every request, a jar would mix the
	// cookies of different sessions.
	httpClient.SetCookieJar(nil)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)

	httpClient.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:128.0) Gecko/20100101 Firefox/128.0")
	httpClient.SetRedirectPolicy(redirectPolicy)

	if limiter != nil {
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, tel)
	dumper.Instrument(httpClient)

	return httpClient
}

// pageUrl returns the absolute url of a page on the site.
func (c *Client) pageUrl(endpoint string, query url.Values) string {
	u := *c.BaseUrl
	u.Path = endpoint
	u.RawQuery = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// ProfileUrl returns the url of the profile page of the given user id.
func (c *Client) ProfileUrl(id string) string {
	return c.pageUrl(endpoint_profile, url.Values{"c": {id}})
}

// FetchPage requests a page with the session's cookie and returns the raw
// html. The body is returned whatever the status code, transport errors are
// returned unchanged.
func (c *Client) FetchPage(ctx context.Context, session Session, endpoint string) (string, error) {
	if session.IsZero() {
		return "", ErrUnauthenticated
	}

	c.tel.ReportDebug("fetch page", endpoint)

	res, err := c.http.R().
		SetContext(ctx).
		SetCookie(session.cookie()).
		Get(endpoint)
	if err != nil {
		c.tel.ReportBroken(
			report_client_fetch_page,
			fmt.Errorf("fetch: %w", err),
			endpoint,
		)
		return "", err
	}
	return string(res.Body()), nil
}

// fetchDocument fetches and parses a page, reportId names the calling
// operation in reports.
func (c *Client) fetchDocument(ctx context.Context, session Session, endpoint, reportId string) (*goquery.Document, error) {
	contents, err := c.FetchPage(ctx, session, endpoint)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contents))
	if err != nil {
		c.tel.ReportBroken(
			reportId,
			fmt.Errorf("parse: %w", err),
			endpoint,
		)
		return nil, err
	}
	return doc, nil
}
