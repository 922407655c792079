// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

// Package network builds proxy-aware HTTP clients and proxy environments for
// child processes.
package network

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// ErrInvalidProxy is returned for proxy settings that are not a usable URL.
var ErrInvalidProxy = errors.New("invalid proxy URL")

// NewHTTPClient creates an HTTP client with timeout. An explicit proxy wins
// over HTTP_PROXY, HTTPS_PROXY and NO_PROXY from the environment.
func NewHTTPClient(timeout time.Duration, proxy string) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = http.ProxyFromEnvironment

	if proxy != "" {
		proxyURL, err := ParseProxy(proxy)
		if err != nil {
			return nil, err
		}

		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &http.Client{Timeout: timeout, Transport: transport}, nil
}

// ParseProxy accepts "host:port" or a full http, https or socks5 URL.
func ParseProxy(proxy string) (*url.URL, error) {
	if !strings.Contains(proxy, "://") {
		proxy = "http://" + proxy
	}

	u, err := url.Parse(proxy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProxy, err)
	}

	switch u.Scheme {
	case "http", "https", "socks5":
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidProxy, u.Scheme)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidProxy)
	}

	return u, nil
}

// IsProxyURL validates if the given string is a valid proxy URL.
func IsProxyURL(proxy string) bool {
	if proxy == "" {
		return false
	}

	_, err := ParseProxy(proxy)

	return err == nil
}

// ProxyEnv returns proxy variables for child processes, in both cases.
// A configured proxy replaces whatever the environment holds; NO_PROXY is
// always passed through.
func ProxyEnv(configured string) []string {
	var proxyEnv []string

	httpProxy, httpsProxy := configured, configured
	if configured == "" {
		httpProxy = getenvEither("http_proxy", "HTTP_PROXY")
		httpsProxy = getenvEither("https_proxy", "HTTPS_PROXY")
	}

	if httpProxy != "" {
		proxyEnv = append(proxyEnv, "http_proxy="+httpProxy, "HTTP_PROXY="+httpProxy)
	}

	if httpsProxy != "" {
		proxyEnv = append(proxyEnv, "https_proxy="+httpsProxy, "HTTPS_PROXY="+httpsProxy)
	}

	if noProxy := getenvEither("no_proxy", "NO_PROXY"); noProxy != "" {
		proxyEnv = append(proxyEnv, "no_proxy="+noProxy, "NO_PROXY="+noProxy)
	}

	return proxyEnv
}

// getenvEither checks lowercase first, which takes precedence per Unix convention.
func getenvEither(lower, upper string) string {
	if v := os.Getenv(lower); v != "" {
		return v
	}

	return os.Getenv(upper)
}
