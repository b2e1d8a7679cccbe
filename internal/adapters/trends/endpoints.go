package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"curately/internal/core/rewind"
	perr "curately/internal/platform/errors"
)

// Latest fetches the newest report for a user.
// A 404 maps to ErrorCodeNotFound: the user simply has no reports yet
func (c *Client) Latest(ctx context.Context, userID string) (rewind.RawReport, error) {
	path := fmt.Sprintf("/users/%s/reports/latest", userID)
	resp, err := c.do(ctx, http.MethodGet, path)
	if err != nil {
		return rewind.RawReport{}, err
	}
	defer c.closeBody(resp, path)

	if resp.StatusCode == http.StatusNotFound {
		return rewind.RawReport{}, perr.NotFoundf("no reports for user")
	}

	var out rewind.RawReport
	if err := decode(resp.Body, &out); err != nil {
		return rewind.RawReport{}, err
	}
	return out, nil
}

// History fetches all reports for a user. Order is not guaranteed by the
// analyzer; callers sort
func (c *Client) History(ctx context.Context, userID string) ([]rewind.RawReport, error) {
	path := fmt.Sprintf("/users/%s/reports", userID)
	resp, err := c.do(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	defer c.closeBody(resp, path)

	if resp.StatusCode == http.StatusNotFound {
		return nil, perr.NotFoundf("no reports for user")
	}

	var out []rewind.RawReport
	if err := decode(resp.Body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Generate asks the analyzer to compute a fresh report now
func (c *Client) Generate(ctx context.Context, userID string) (rewind.RawReport, error) {
	path := fmt.Sprintf("/users/%s/reports", userID)
	resp, err := c.do(ctx, http.MethodPost, path)
	if err != nil {
		return rewind.RawReport{}, err
	}
	defer c.closeBody(resp, path)

	if resp.StatusCode == http.StatusNotFound {
		return rewind.RawReport{}, perr.NotFoundf("unknown user")
	}

	var out rewind.RawReport
	if err := decode(resp.Body, &out); err != nil {
		return rewind.RawReport{}, err
	}
	return out, nil
}

// Ping verifies the analyzer answers its health endpoint
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/health")
	if err != nil {
		return err
	}
	defer c.closeBody(resp, "/health")
	if resp.StatusCode != http.StatusOK {
		return perr.Unavailablef("trends health status %d", resp.StatusCode)
	}
	return nil
}

func decode(r io.Reader, v any) error {
	b, err := io.ReadAll(io.LimitReader(r, 4<<20))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "trends read body failed")
	}
	if err := json.Unmarshal(b, v); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "trends decode failed")
	}
	return nil
}

func (c *Client) closeBody(resp *http.Response, path string) {
	if cerr := resp.Body.Close(); cerr != nil {
		c.log.Error().Err(cerr).Str("path", path).Msg("trends close body failed")
	}
}
