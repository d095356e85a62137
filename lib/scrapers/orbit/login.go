package orbit

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"orbitcal-backend/lib/htmlutil"
	"orbitcal-backend/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

var LoginFailed = fmt.Errorf("failed to login to your account")

// SessionCookieName identifies the portal session. presentation mode
// is pinned to GridView so the schedule renders as the data grid the
// scraper expects.
const (
	SessionCookieName          = "BCI_OL_KEY"
	PresentationTypeCookieName = "OrbitLivePresentationTypeByCookie"
	PresentationTypeGridView   = "GridView"
)

type LoginOptions struct {
	// the absolute url of Login.aspx, including any ReturnUrl query
	LoginUrl string
	Username string
	Password string
}

// Login performs the credential login flow: GET the login page for an
// initial view-state pair and anonymous session cookie, POST the
// credentials, then confirm the server moved off the login page. it
// returns the session cookies the scraping Client consumes.
func Login(ctx context.Context, opts LoginOptions) (map[string]string, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	loginUrl, err := url.Parse(opts.LoginUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.SetHeader("user-agent", "Mozilla/5.0 (X11; Linux x86_64; rv:144.0) Gecko/20100101 Firefox/144.0")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(loginUrl.Hostname()))
	client.SetTimeout(time.Second * 10)

	telemetry.InstrumentResty(client, "scrapers/orbit/login")

	res, err := client.R().
		SetContext(ctx).
		Get(opts.LoginUrl)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch login page")
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse login page")
		return nil, err
	}

	state := ExtractFormState(doc)
	if state["__VIEWSTATE"] == "" || state["__EVENTVALIDATION"] == "" {
		span.SetStatus(codes.Error, "login page carries no form state")
		return nil, ErrMalformedDocument
	}

	form := FormState(basePostbackForm("", ""))
	form.Merge(state)
	form.Merge(FormState{
		"ReturnUrl": loginUrl.Query().Get("ReturnUrl"),
		"ctl00$ContentPlaceHolder1$edtUsername": opts.Username,
		"ctl00$ContentPlaceHolder1$edtPassword": opts.Password,
		"ctl00$ContentPlaceHolder1$btnLogin":    "כניסה",
	})

	res, err = client.R().
		SetContext(ctx).
		SetFormData(map[string]string(form)).
		Post(opts.LoginUrl)
	if err != nil {
		span.SetStatus(codes.Error, "failed to make login request")
		return nil, err
	}

	finalUrl := res.Request.URL
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		finalUrl = res.RawResponse.Request.URL.String()
	}
	if strings.Contains(strings.ToLower(finalUrl), "login") {
		// still on the login page, surface the server's own error
		// message when it renders one
		doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
		if err == nil {
			msg := htmlutil.CleanText(doc.Find("span[id*=Error], span[id*=error]").Text())
			if msg != "" {
				span.SetStatus(codes.Error, msg)
				return nil, fmt.Errorf("%w: %s", LoginFailed, msg)
			}
		}
		span.SetStatus(codes.Error, LoginFailed.Error())
		return nil, LoginFailed
	}

	var sessionKey string
	for _, c := range jar.Cookies(loginUrl) {
		if c.Name == SessionCookieName {
			sessionKey = c.Value
		}
	}
	if sessionKey == "" {
		span.SetStatus(codes.Error, "session cookie missing after login")
		return nil, LoginFailed
	}

	return map[string]string{
		SessionCookieName:          sessionKey,
		PresentationTypeCookieName: PresentationTypeGridView,
	}, nil
}
