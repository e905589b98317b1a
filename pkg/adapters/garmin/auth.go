package garmin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/aescanero/garmin-metrics/pkg/domain"
	"github.com/aescanero/garmin-metrics/pkg/ports"
	"github.com/dghubble/oauth1"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	signinPath        = "/sso/signin"
	preauthorizedPath = "/oauth-service/oauth/preauthorized"
	exchangePath      = "/oauth-service/oauth/exchange/user/2.0"

	defaultTokenLifetime = time.Hour
)

var (
	csrfPattern   = regexp.MustCompile(`name="_csrf"\s+value="([^"]+)"`)
	ticketPattern = regexp.MustCompile(`embed\?ticket=([^"]+)"`)
	titlePattern  = regexp.MustCompile(`<title>([^<]*)</title>`)
)

// oauth1Token is the intermediate token issued for a service ticket
type oauth1Token struct {
	token    string
	secret   string
	mfaToken string
}

// login signs in through SSO, trades the service ticket for an OAuth1 token
// and exchanges that for the OAuth2 bearer token used by the API.
func (c *Client) login(ctx context.Context) (*ports.Session, error) {
	c.logger.Info("logging in to Garmin Connect")

	ticket, err := c.signin(ctx)
	if err != nil {
		return nil, err
	}

	token1, err := c.preauthorize(ctx, ticket)
	if err != nil {
		return nil, err
	}

	return c.exchange(ctx, token1)
}

// signin runs the SSO sign-in form and returns the service ticket
func (c *Client) signin(ctx context.Context) (string, error) {
	const op = "garmin.login"

	params := map[string]string{
		"id":          "gauth-widget",
		"embedWidget": "true",
		"gauthHost":   c.ssoURL + "/sso/embed",
		"service":     c.ssoURL + "/sso/embed",
		"source":      c.ssoURL + "/sso/embed",
	}

	resp, err := c.sso.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(signinPath)
	if err != nil {
		return "", domain.NewOpError(op, domain.KindUpstream, "", fmt.Errorf("failed to load sign-in page: %w", err))
	}
	if resp.IsError() {
		return "", domain.NewOpError(op, statusKind(resp.StatusCode()), "", fmt.Errorf("sign-in page status %d", resp.StatusCode()))
	}

	csrf := csrfPattern.FindSubmatch(resp.Body())
	if csrf == nil {
		return "", domain.NewOpError(op, domain.KindAuthentication, "", errors.New("CSRF token not found on sign-in page"))
	}

	resp, err = c.sso.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetHeader("Referer", resp.Request.URL).
		SetFormData(map[string]string{
			"username": c.email,
			"password": c.password,
			"embed":    "true",
			"_csrf":    string(csrf[1]),
		}).
		Post(signinPath)
	if err != nil {
		return "", domain.NewOpError(op, domain.KindUpstream, "", fmt.Errorf("failed to submit credentials: %w", err))
	}

	ticket := ticketPattern.FindSubmatch(resp.Body())
	if ticket == nil {
		title := "unknown"
		if m := titlePattern.FindSubmatch(resp.Body()); m != nil {
			title = string(m[1])
		}
		c.logger.Error("Garmin sign-in rejected",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("page_title", title))
		return "", domain.NewOpError(op, domain.KindAuthentication, "", fmt.Errorf("sign-in rejected (page %q)", title))
	}

	return string(ticket[1]), nil
}

// preauthorize trades a service ticket for an OAuth1 token. The request is
// signed with the consumer credentials only.
func (c *Client) preauthorize(ctx context.Context, ticket string) (*oauth1Token, error) {
	const op = "garmin.preauthorize"

	resp, err := c.signed(ctx, oauth1.NewToken("", "")).R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ticket":             ticket,
			"login-url":          c.ssoURL + "/sso/embed",
			"accepts-mfa-tokens": "true",
		}).
		Get(preauthorizedPath)
	if err != nil {
		return nil, domain.NewOpError(op, domain.KindUpstream, "", fmt.Errorf("failed to request OAuth1 token: %w", err))
	}
	if resp.IsError() {
		return nil, domain.NewOpError(op, statusKind(resp.StatusCode()), "", fmt.Errorf("preauthorized status %d", resp.StatusCode()))
	}

	values, err := url.ParseQuery(resp.String())
	if err != nil {
		return nil, domain.NewOpError(op, domain.KindUpstream, "", fmt.Errorf("failed to parse OAuth1 token: %w", err))
	}

	token := &oauth1Token{
		token:    values.Get("oauth_token"),
		secret:   values.Get("oauth_token_secret"),
		mfaToken: values.Get("mfa_token"),
	}
	if token.token == "" || token.secret == "" {
		return nil, domain.NewOpError(op, domain.KindAuthentication, "", errors.New("preauthorized returned no OAuth1 token"))
	}

	return token, nil
}

// exchange trades the OAuth1 token for the OAuth2 bearer session
func (c *Client) exchange(ctx context.Context, token1 *oauth1Token) (*ports.Session, error) {
	const op = "garmin.exchange"

	form := map[string]string{}
	if token1.mfaToken != "" {
		form["mfa_token"] = token1.mfaToken
	}

	var token tokenResponse
	resp, err := c.signed(ctx, oauth1.NewToken(token1.token, token1.secret)).R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&token).
		Post(exchangePath)
	if err != nil {
		return nil, domain.NewOpError(op, domain.KindUpstream, "", fmt.Errorf("failed to exchange OAuth1 token: %w", err))
	}
	if resp.IsError() {
		return nil, domain.NewOpError(op, statusKind(resp.StatusCode()), "", fmt.Errorf("exchange status %d", resp.StatusCode()))
	}

	if token.AccessToken == "" {
		return nil, domain.NewOpError(op, domain.KindAuthentication, "", errors.New("exchange returned no access token"))
	}

	lifetime := time.Duration(token.ExpiresIn) * time.Second
	if lifetime <= 0 {
		lifetime = defaultTokenLifetime
	}

	c.logger.Info("logged in to Garmin Connect", zap.Duration("token_lifetime", lifetime))

	return &ports.Session{
		AccessToken: token.AccessToken,
		TokenType:   orDefault(token.TokenType, "Bearer"),
		ExpiresAt:   c.now().Add(lifetime),
	}, nil
}

// signed returns an API client whose requests carry an OAuth1 HMAC-SHA1
// signature for the consumer and the given token.
func (c *Client) signed(ctx context.Context, token *oauth1.Token) *resty.Client {
	hc := c.oauth.Client(ctx, token)
	hc.Timeout = c.timeout

	return resty.NewWithClient(hc).
		SetBaseURL(c.apiURL).
		SetHeader("User-Agent", userAgent)
}

// statusKind classifies a failed login step by HTTP status
func statusKind(status int) domain.ErrorKind {
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return domain.KindAuthentication
	}
	return domain.KindUpstream
}
