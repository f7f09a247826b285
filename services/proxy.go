// ABOUTME: SSH+SOCKS5 tunnelled dialing for outbound upstream traffic
// ABOUTME: Parses UPSTREAM_ALL_PROXY and lazily opens the tunnel on first dial

package services

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cloudfoundry/socks5-proxy"
)

type dialContextFunc func(ctx context.Context, network, address string) (net.Conn, error)

// ValidateSSHKeyPath cleans path and checks that it names a readable regular
// file. Relative paths that climb out of the working directory are rejected.
func ValidateSSHKeyPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("private key path is empty")
	}
	if !filepath.IsAbs(path) && strings.HasPrefix(filepath.Clean(path), "..") {
		return "", fmt.Errorf("private key path %q escapes the working directory", path)
	}

	cleaned := filepath.Clean(path)
	info, err := os.Stat(cleaned)
	if err != nil {
		return "", fmt.Errorf("private key path %q: %w", cleaned, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("private key path %q is not a regular file", cleaned)
	}

	return cleaned, nil
}

// newProxyDialContext builds a dial function for ssh+socks5://user@host:port?private-key=/path/to/key.
// The SSH connection is established on the first dial and reused afterwards.
func newProxyDialContext(allProxy string) (dialContextFunc, error) {
	allProxy = strings.TrimPrefix(allProxy, "ssh+")

	proxyURL, err := url.Parse(allProxy)
	if err != nil {
		return nil, fmt.Errorf("failed to parse proxy URL: %w", err)
	}
	if proxyURL.Scheme != "socks5" {
		return nil, fmt.Errorf("unsupported proxy scheme %q", proxyURL.Scheme)
	}

	queryMap, err := url.ParseQuery(proxyURL.RawQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to parse proxy query params: %w", err)
	}

	username := ""
	if proxyURL.User != nil {
		username = proxyURL.User.Username()
	}

	keyPath, err := ValidateSSHKeyPath(queryMap.Get("private-key"))
	if err != nil {
		return nil, err
	}

	proxySSHKey, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read SSH private key: %w", err)
	}

	socks5Proxy := proxy.NewSocks5Proxy(proxy.NewHostKey(), log.Default(), 1*time.Minute)

	var (
		dialer proxy.DialFunc
		mut    sync.RWMutex
	)

	return func(ctx context.Context, network, address string) (net.Conn, error) {
		mut.RLock()
		haveDialer := dialer != nil
		mut.RUnlock()

		if haveDialer {
			return dialer(network, address)
		}

		mut.Lock()
		defer mut.Unlock()
		if dialer == nil {
			proxyDialer, err := socks5Proxy.Dialer(username, string(proxySSHKey), proxyURL.Host)
			if err != nil {
				return nil, fmt.Errorf("error creating SOCKS5 dialer: %w", err)
			}
			dialer = proxyDialer
		}
		return dialer(network, address)
	}, nil
}
