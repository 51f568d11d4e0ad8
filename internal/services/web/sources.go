package web

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/gdresist/optimizer/internal/services/web/loader"
	"github.com/gdresist/optimizer/internal/services/web/routepath"
)

// localScheme marks list URLs read straight from DataDir.
const localScheme = "file"

// listSources resolves the configured list URLs once, at startup. Page
// requests never influence where lists are fetched from.
func listSources(config Config) (map[string]string, error) {
	var base *url.URL
	resolve := func(raw string) (string, error) {
		raw = strings.TrimSpace(raw)
		ref, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("parse list url %q: %w", raw, err)
		}
		if ref.IsAbs() {
			if ref.Scheme != "http" && ref.Scheme != "https" {
				return "", fmt.Errorf("list url %q: unsupported scheme %q", raw, ref.Scheme)
			}
			return ref.String(), nil
		}
		if strings.TrimSpace(config.DataDir) != "" {
			if name, ok := strings.CutPrefix(path.Clean("/"+ref.Path), routepath.DataPrefix); ok && name != "" {
				return (&url.URL{Scheme: localScheme, Path: "/" + name}).String(), nil
			}
		}
		if base == nil {
			base, err = listBaseURL(config)
			if err != nil {
				return "", fmt.Errorf("list url %q: %w", raw, err)
			}
		}
		return base.ResolveReference(ref).String(), nil
	}

	component, err := resolve(config.ComponentListURL)
	if err != nil {
		return nil, err
	}
	augment, err := resolve(config.AugmentListURL)
	if err != nil {
		return nil, err
	}
	return map[string]string{"component": component, "augment": augment}, nil
}

// listBaseURL returns ListBaseURL, or the listen address when it is unset.
func listBaseURL(config Config) (*url.URL, error) {
	if raw := strings.TrimSpace(config.ListBaseURL); raw != "" {
		base, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse list base url: %w", err)
		}
		if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
			return nil, fmt.Errorf("list base url %q must be an absolute http(s) url", raw)
		}
		return base, nil
	}
	host, port, err := net.SplitHostPort(strings.TrimSpace(config.HTTPAddr))
	if err != nil {
		return nil, fmt.Errorf("relative list urls need a list base url or http address: %w", err)
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	return &url.URL{Scheme: "http", Host: net.JoinHostPort(host, port), Path: "/"}, nil
}

// listClient returns the client used for list fetches: a copy of base with a
// bounded timeout that reads file URLs from dataDir.
func listClient(base *http.Client, dataDir string, timeout time.Duration) *http.Client {
	client := &http.Client{}
	if base != nil {
		*client = *base
	}
	if timeout <= 0 {
		timeout = loader.DefaultTimeout
	}
	if client.Timeout <= 0 {
		client.Timeout = timeout
	}
	if dir := strings.TrimSpace(dataDir); dir != "" {
		client.Transport = localTransport{
			files: http.NewFileTransportFS(os.DirFS(dir)),
			next:  client.Transport,
		}
	}
	return client
}

type localTransport struct {
	files http.RoundTripper
	next  http.RoundTripper
}

func (t localTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.URL.Scheme == localScheme {
		return t.files.RoundTrip(r)
	}
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}
	return next.RoundTrip(r)
}
