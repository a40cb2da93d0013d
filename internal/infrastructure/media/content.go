package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

const (
	maxContentBytes = 10 << 20
	maxRedirects    = 3
)

// ErrBlockedAddress is returned when a remote image resolves to an address
// that is not publicly routable.
var ErrBlockedAddress = errors.New("media: address not allowed")

// sharedAddressSpace is the carrier-grade NAT range (RFC 6598).
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

// Content is decoded image bytes with their sniffed type.
type Content struct {
	Data        []byte
	ContentType string
	Extension   string
}

// Resolver turns the raw value of an image field into bytes.
type Resolver struct {
	client *http.Client
}

// NewResolver returns a Resolver whose fetches only reach public addresses.
// The check runs on every dial, so redirects and DNS answers are covered.
func NewResolver(timeout time.Duration) *Resolver {
	return newResolver(timeout, isPublicAddr)
}

func newResolver(timeout time.Duration, allow func(netip.Addr) bool) *Resolver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	dialer := &net.Dialer{
		Timeout: timeout,
		Control: func(_, address string, _ syscall.RawConn) error {
			host, _, err := net.SplitHostPort(address)
			if err != nil {
				return fmt.Errorf("%w: %s", ErrBlockedAddress, address)
			}
			ip, err := netip.ParseAddr(host)
			if err != nil || !allow(ip.Unmap()) {
				return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
			}
			return nil
		},
	}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: timeout,
		MaxIdleConns:        10,
		IdleConnTimeout:     30 * time.Second,
	}
	client := &http.Client{
		Timeout:   timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("media: stopped after %d redirects", maxRedirects)
			}
			if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
				return fmt.Errorf("%w: scheme %s", ErrBlockedAddress, req.URL.Scheme)
			}
			return nil
		},
	}
	return &Resolver{client: client}
}

func isPublicAddr(ip netip.Addr) bool {
	return ip.IsValid() &&
		ip.IsGlobalUnicast() &&
		!ip.IsPrivate() &&
		!ip.IsLoopback() &&
		!ip.IsLinkLocalUnicast() &&
		!ip.IsUnspecified() &&
		!sharedAddressSpace.Contains(ip)
}

func (r *Resolver) Resolve(ctx context.Context, raw string) (Content, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Content{}, ErrEmptyContent
	}

	var (
		data []byte
		err  error
	)
	switch {
	case strings.HasPrefix(raw, "data:"):
		data, err = decodeDataURI(raw)
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		data, err = r.fetch(ctx, raw)
	default:
		data, err = decodeBase64(raw)
	}
	if err != nil {
		return Content{}, err
	}
	if len(data) == 0 {
		return Content{}, ErrEmptyContent
	}
	if len(data) > maxContentBytes {
		return Content{}, fmt.Errorf("%w: larger than %d bytes", ErrInvalidContent, maxContentBytes)
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return Content{}, fmt.Errorf("%w: unsupported type %s", ErrInvalidContent, mt.String())
	}
	return Content{Data: data, ContentType: mt.String(), Extension: mt.Extension()}, nil
}

func decodeDataURI(raw string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(raw, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data uri", ErrInvalidContent)
	}
	if strings.HasSuffix(meta, ";base64") {
		return decodeBase64(payload)
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	return []byte(s), nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if b, err := enc.DecodeString(s); err == nil {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: not base64", ErrInvalidContent)
}

func (r *Resolver) fetch(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media: fetch %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("media: fetch %s: status %d", src, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxContentBytes+1))
}
