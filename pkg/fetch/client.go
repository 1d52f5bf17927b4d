// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"context"
	"net/http"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/peterbourgon/diskv"
	"golang.org/x/oauth2"
)

// NewClient builds the HTTP client used for catalog and asset downloads:
// a disk-backed RFC 7234 cache over an optional bearer-token transport.
// Repeated pipeline runs against the same catalog host then revalidate
// instead of re-transferring.
func NewClient(ctx context.Context, cacheDir, accessToken string) *http.Client {
	base := http.DefaultTransport
	if len(accessToken) > 0 {
		// if a token is provided replace the base RoundTripper
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
		base = oauth2.NewClient(ctx, ts).Transport
	}

	flatTransform := func(s string) []string { return []string{} }
	d := diskv.New(diskv.Options{
		BasePath:     cacheDir,
		Transform:    flatTransform,
		CacheSizeMax: 1024 * 1024 * 1024,
	})

	cacheTransport := &httpcache.Transport{
		Transport:           base,
		Cache:               diskcache.NewWithDiskv(d),
		MarkCachedResponses: true,
	}

	return cacheTransport.Client()
}
