// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package manifest

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/helmfile2compose/h2c-servicemonitor/pkg/defaults"
	"github.com/helmfile2compose/h2c-servicemonitor/pkg/errors"
)

const (
	FetcherUserAgent = "h2c-servicemonitor/1.0"

	// MaxFetchSize caps a remote manifest body.
	MaxFetchSize = 32 << 20
)

// FetcherOption defines a configuration option for Fetcher.
type FetcherOption func(*Fetcher)

// Fetcher downloads manifests over HTTP.
type Fetcher struct {
	UserAgent string
	Client    *http.Client

	// Limiter throttles requests across concurrent loads. Nil disables it.
	Limiter *rate.Limiter
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) FetcherOption {
	return func(f *Fetcher) {
		f.UserAgent = userAgent
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		if client != nil {
			f.Client = client
		}
	}
}

// WithRateLimit caps requests per second with the given burst. A
// non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) FetcherOption {
	return func(f *Fetcher) {
		if rps <= 0 {
			f.Limiter = nil
			return
		}
		f.Limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewFetcher creates a Fetcher with bounded timeouts.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   defaults.HTTPConnectTimeout,
		KeepAlive: defaults.HTTPKeepAlive,
	}).DialContext
	transport.TLSHandshakeTimeout = defaults.HTTPTLSHandshakeTimeout
	transport.ResponseHeaderTimeout = defaults.HTTPResponseHeaderTimeout

	f := &Fetcher{
		UserAgent: FetcherUserAgent,
		Limiter:   rate.NewLimiter(rate.Limit(defaults.HTTPFetchRate), defaults.HTTPFetchBurst),
		Client: &http.Client{
			Timeout:   defaults.HTTPClientTimeout,
			Transport: transport,
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the body of url. Non-2xx responses are errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeUnavailable, "manifest fetch throttled", err,
				map[string]any{"url": url})
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "invalid manifest URL", err,
			map[string]any{"url": url})
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeUnavailable, "failed to fetch manifest", err,
			map[string]any{"url": url})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		code := errors.ErrCodeUnavailable
		if resp.StatusCode == http.StatusNotFound {
			code = errors.ErrCodeNotFound
		}
		return nil, errors.NewWithContext(code,
			fmt.Sprintf("failed to fetch manifest: %s", resp.Status),
			map[string]any{"url": url, "status": resp.StatusCode})
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxFetchSize+1))
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to read manifest body", err,
			map[string]any{"url": url})
	}
	if len(data) > MaxFetchSize {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest, "manifest body too large",
			map[string]any{"url": url, "limit": MaxFetchSize})
	}
	return data, nil
}
