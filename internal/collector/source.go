package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"StockLens/internal/model"
)

// FetchStatus classifies the outcome of a single source attempt.
type FetchStatus int

const (
	StatusSuccess FetchStatus = iota
	StatusRateLimited
	StatusNotFound
	StatusTransportError
)

func (s FetchStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusRateLimited:
		return "rate_limited"
	case StatusNotFound:
		return "not_found"
	case StatusTransportError:
		return "transport_error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// FetchResult is what a source returns for one request.
// Series is only meaningful when Status is StatusSuccess.
type FetchResult struct {
	Status FetchStatus
	Series model.PriceSeries
	Err    error
}

func success(series model.PriceSeries) FetchResult {
	return FetchResult{Status: StatusSuccess, Series: series}
}

func failure(status FetchStatus, err error) FetchResult {
	return FetchResult{Status: status, Err: err}
}

// Source fetches raw daily bars for a symbol over [start, end].
type Source interface {
	Name() string
	FetchDaily(ctx context.Context, symbol string, start, end time.Time) FetchResult
}

// DefaultTimeout bounds every outbound call.
const DefaultTimeout = 10 * time.Second

var (
	ErrInvalidSymbol = errors.New("invalid symbol")
	ErrInvalidRange  = errors.New("invalid date range")
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.^=\-]{1,12}$`)

// NormalizeSymbol trims and upper-cases symbol and validates its shape.
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if !symbolPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}
	return s, nil
}

// newHTTPClient builds a client with an optional proxy.
func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}
