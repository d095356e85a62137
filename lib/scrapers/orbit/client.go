package orbit

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"orbitcal-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/orbit")

// the fully-qualified id of the grid widget that owns pagination, the
// server only honors Page$N postbacks addressed to it
const DefaultGridControlId = "ctl00$ContentPlaceHolder1$gvData"

// Client owns one authenticated scraping session against the portal's
// schedule page. it must not be shared between concurrent runs, every
// postback depends on state extracted from the previous response.
type Client struct {
	TargetUrl     *url.URL
	Http          *resty.Client
	GridControlId string
}

type ClientOptions struct {
	// the absolute url of the schedule page
	TargetUrl string
	// session cookies obtained out-of-band (through Login or a browser)
	Cookies map[string]string
	// defaults to DefaultGridControlId
	GridControlId string
	// defaults to 30s
	Timeout time.Duration
}

func NewClient(opts ClientOptions) (*Client, error) {
	target, err := url.Parse(opts.TargetUrl)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 30
	}
	gridControlId := opts.GridControlId
	if gridControlId == "" {
		gridControlId = DefaultGridControlId
	}

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeaders(map[string]string{
		"user-agent":      "Mozilla/5.0 (X11; Linux x86_64; rv:144.0) Gecko/20100101 Firefox/144.0",
		"accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"accept-language": "en-US,en;q=0.5",
		"referer":         opts.TargetUrl,
	})
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(target.Hostname()))
	client.SetTimeout(timeout)

	for name, value := range opts.Cookies {
		client.SetCookie(&http.Cookie{
			Name:   name,
			Value:  value,
			Path:   "/",
			Domain: target.Hostname(),
		})
	}

	telemetry.InstrumentResty(client, "scrapers/orbit/http")

	return &Client{
		TargetUrl:     target,
		Http:          client,
		GridControlId: gridControlId,
	}, nil
}
