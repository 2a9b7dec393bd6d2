// Package netx fetches objects from presigned storage URLs.
package netx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxDownloadSize caps a single presigned download.
const MaxDownloadSize = 10 << 20

var ErrTooLarge = errors.New("object too large")

// DownloadFromPresignedURL GETs url and returns the body together with the
// Content-Type reported by the storage backend.
func DownloadFromPresignedURL(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, "", fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDownloadSize+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > MaxDownloadSize {
		return nil, "", ErrTooLarge
	}

	return data, resp.Header.Get("Content-Type"), nil
}
