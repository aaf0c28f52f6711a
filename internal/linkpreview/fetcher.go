package linkpreview

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	maxBodySize  = 1 << 20 // 1 MB
	fetchTimeout = 5 * time.Second
	maxRedirects = 3

	// Some sites refuse requests carrying a non-browser user agent.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// ogImagePattern matches <meta property="og:image" content="...">,
// case-insensitive on the property name.
var ogImagePattern = regexp.MustCompile(`(?i)<meta\s+property=["']og:image["']\s+content=["']([^"']+)["']`)

// Fetcher retrieves a page and extracts its Open Graph preview image.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a Fetcher with an SSRF-safe HTTP client and a bounded
// fetch timeout. An empty userAgent falls back to a browser-like default.
func NewFetcher(userAgent string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = fetchTimeout
	}
	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: safeDialContext(timeout),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}
	return NewFetcherWithClient(userAgent, client)
}

// NewFetcherWithClient creates a Fetcher with a custom HTTP client.
func NewFetcherWithClient(userAgent string, client *http.Client) *Fetcher {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Fetcher{client: client, userAgent: userAgent}
}

// FetchImage retrieves pageURL and returns the first og:image URL it
// declares. It fails soft: any network error, non-2xx status, or missing tag
// yields ("", false) so the preview feature never breaks its caller.
// A relative image URL is resolved against the origin of pageURL as
// requested, not against any redirect target.
func (f *Fetcher) FetchImage(ctx context.Context, pageURL string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", false
	}

	m := ogImagePattern.FindSubmatch(body)
	if m == nil {
		return "", false
	}
	imageURL := string(m[1])

	if !strings.HasPrefix(imageURL, "http") {
		resolved, ok := resolveAgainstOrigin(pageURL, imageURL)
		if !ok {
			return "", false
		}
		imageURL = resolved
	}

	return imageURL, true
}

// resolveAgainstOrigin resolves a relative reference against the scheme+host
// of base.
func resolveAgainstOrigin(base, ref string) (string, bool) {
	baseURL, err := url.Parse(base)
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return "", false
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	origin := &url.URL{Scheme: baseURL.Scheme, Host: baseURL.Host}
	return origin.ResolveReference(refURL).String(), true
}

// privateRanges are CIDR blocks for private / loopback IPs.
var privateRanges []*net.IPNet

func init() {
	for _, cidr := range []string{
		"127.0.0.0/8",
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"::1/128",
		"fc00::/7",
		"fe80::/10",
	} {
		_, block, _ := net.ParseCIDR(cidr)
		privateRanges = append(privateRanges, block)
	}
}

func isPrivateIP(ip net.IP) bool {
	for _, block := range privateRanges {
		if block.Contains(ip) {
			return true
		}
	}
	return false
}

// safeDialContext resolves DNS then rejects private IPs before connecting.
// The preview endpoint takes attacker-supplied URLs, so it must not be
// usable to probe the internal network.
func safeDialContext(timeout time.Duration) func(ctx context.Context, network, addr string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, err
		}

		ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
		if err != nil {
			return nil, err
		}

		for _, ip := range ips {
			if isPrivateIP(ip.IP) {
				return nil, fmt.Errorf("connection to private IP %s is not allowed", ip.IP)
			}
		}

		dialer := &net.Dialer{Timeout: timeout}
		return dialer.DialContext(ctx, network, net.JoinHostPort(ips[0].IP.String(), port))
	}
}
