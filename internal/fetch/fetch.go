// Package fetch acquires the leading bytes of a transport-stream segment,
// either from a local file or over HTTP via an HLS playlist. The extension
// block sits in the first SEI NAL unit in practice, so a short prefix of
// the segment is enough.
package fetch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// DefaultReadBytes is the segment prefix size requested by default.
const DefaultReadBytes = 2048

// FirstSegment downloads the playlist at playlistURL, resolves its first
// media segment URI, and returns the first n bytes of that segment via a
// ranged GET. Servers that ignore the Range header and answer 200 are
// tolerated; the body is truncated to n either way.
func FirstSegment(ctx context.Context, client *http.Client, playlistURL string, n int) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if n <= 0 {
		n = DefaultReadBytes
	}

	segmentURL, err := firstSegmentURL(ctx, client, playlistURL)
	if err != nil {
		return nil, err
	}
	return Segment(ctx, client, segmentURL, n)
}

// Segment returns the first n bytes of the TS resource at segmentURL using
// a ranged GET.
func Segment(ctx context.Context, client *http.Client, segmentURL string, n int) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if n <= 0 {
		n = DefaultReadBytes
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, segmentURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build segment request: %w", err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", n-1))

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: get segment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPartialContent && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch: segment request returned %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, int64(n)))
	if err != nil {
		return nil, fmt.Errorf("fetch: read segment body: %w", err)
	}
	return data, nil
}

// FileHeader returns the first n bytes of a local file. A file shorter than
// n yields a short result, which the demuxer tolerates.
func FileHeader(path string, n int) ([]byte, error) {
	if n <= 0 {
		n = DefaultReadBytes
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fetch: open TS file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, int64(n)))
	if err != nil {
		return nil, fmt.Errorf("fetch: read TS file: %w", err)
	}
	return data, nil
}

// firstSegmentURL fetches the playlist and returns the absolute URL of its
// first media segment: the first non-empty line that is not a tag/comment.
func firstSegmentURL(ctx context.Context, client *http.Client, playlistURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, playlistURL, nil)
	if err != nil {
		return "", fmt.Errorf("fetch: build playlist request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: get playlist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch: playlist request returned %s", resp.Status)
	}

	var segment string
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		segment = line
		break
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("fetch: read playlist: %w", err)
	}
	if segment == "" {
		return "", fmt.Errorf("fetch: playlist %s has no media segments", playlistURL)
	}

	base, err := url.Parse(playlistURL)
	if err != nil {
		return "", fmt.Errorf("fetch: parse playlist URL: %w", err)
	}
	ref, err := url.Parse(segment)
	if err != nil {
		return "", fmt.Errorf("fetch: parse segment URI %q: %w", segment, err)
	}
	return base.ResolveReference(ref).String(), nil
}
