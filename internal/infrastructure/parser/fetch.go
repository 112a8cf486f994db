package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

const userAgent = "UniRecommender/1.0"

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// open returns a reader for a local path or an http(s) URL.
func open(ctx context.Context, client *http.Client, location string) (io.ReadCloser, error) {
	if !isRemote(location) {
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", location, err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", location, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%s returned %s", location, resp.Status)
	}
	return resp.Body, nil
}
