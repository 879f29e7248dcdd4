// Package element speaks the JSON-RPC management API of one storage
// cluster and exposes it as the typed site session the pairing workflows
// run against.
package element

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	"mirrorctl/internal/pairing"
)

const (
	// apiPath pins the API version; pairing endpoints are stable there.
	apiPath = "/json-rpc/12.3"

	connectTimeout = 5 * time.Second
	maxRetryTime   = 15 * time.Second
)

var _ pairing.SiteClient = (*Client)(nil)

// Client is a session with one cluster's management endpoint. Requests
// are retried with exponential backoff on transient network errors only;
// an HTTP response, fault or not, is never replayed because most pairing
// calls are not idempotent.
type Client struct {
	name     string
	endpoint *url.URL
	username string
	password string

	httpClient *http.Client
	reqID      atomic.Int64
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithInsecureTLS disables certificate verification. Management endpoints
// commonly run self-signed certificates.
func WithInsecureTLS() ClientOption {
	return func(c *Client) {
		if t, ok := c.httpClient.Transport.(*retryRoundTripper); ok {
			t.base.(*http.Transport).TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
	}
}

// NewClient creates a client for the management virtual IP given as a
// host or https URL. No connection is made until Connect or the first
// call.
func NewClient(mvip, username, password string, opts ...ClientOption) (*Client, error) {
	raw := mvip
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	endpoint, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse management endpoint %q: %w", mvip, err)
	}
	endpoint.Path = apiPath

	c := &Client{
		endpoint: endpoint,
		username: username,
		password: password,
		httpClient: &http.Client{
			Transport: &retryRoundTripper{
				base: &http.Transport{
					DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
				},
				newBackoff: func() backoff.BackOff {
					return backoff.NewExponentialBackOff(
						backoff.WithInitialInterval(200*time.Millisecond),
						backoff.WithMaxInterval(2*time.Second),
						backoff.WithMaxElapsedTime(maxRetryTime),
					)
				},
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Connect verifies credentials and caches the cluster's self-reported
// name for log and table output.
func (c *Client) Connect(ctx context.Context) error {
	var info wireClusterInfo
	if err := c.do(ctx, "GetClusterInfo", struct{}{}, &info); err != nil {
		return fmt.Errorf("connect to %s: %w", c.endpoint.Host, err)
	}
	c.name = info.ClusterInfo.Name
	slog.Debug("Connected to cluster.", "name", c.name, "mvip", c.endpoint.Host)
	return nil
}

func (c *Client) ClusterName() string {
	if c.name == "" {
		return c.endpoint.Host
	}
	return c.name
}

func (c *Client) Address() string { return c.endpoint.Host }

// do issues one JSON-RPC call and decodes its result. An endpoint fault
// surfaces as *APIError.
func (c *Client) do(ctx context.Context, method string, params, result any) error {
	body, err := json.Marshal(rpcRequest{
		Method: method,
		Params: params,
		ID:     int(c.reqID.Add(1)),
	})
	if err != nil {
		return fmt.Errorf("encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: endpoint returned %s: %s", method, resp.Status, payload)
	}

	var rpc rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpc); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if rpc.Error != nil {
		return fmt.Errorf("%s: %w", method, rpc.Error)
	}
	if result != nil {
		if err := json.Unmarshal(rpc.Result, result); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}
	return nil
}

func (c *Client) ListClusterPairs(ctx context.Context) ([]pairing.ClusterPair, error) {
	var res struct {
		ClusterPairs []wireClusterPair `json:"clusterPairs"`
	}
	if err := c.do(ctx, "ListClusterPairs", struct{}{}, &res); err != nil {
		return nil, err
	}
	out := make([]pairing.ClusterPair, 0, len(res.ClusterPairs))
	for _, p := range res.ClusterPairs {
		out = append(out, p.toPair())
	}
	return out, nil
}

func (c *Client) StartClusterPairing(ctx context.Context) (string, error) {
	var res struct {
		ClusterPairingKey string `json:"clusterPairingKey"`
	}
	if err := c.do(ctx, "StartClusterPairing", struct{}{}, &res); err != nil {
		return "", err
	}
	return res.ClusterPairingKey, nil
}

func (c *Client) CompleteClusterPairing(ctx context.Context, key string) (int, error) {
	params := struct {
		ClusterPairingKey string `json:"clusterPairingKey"`
	}{key}
	var res struct {
		ClusterPairID int `json:"clusterPairID"`
	}
	if err := c.do(ctx, "CompleteClusterPairing", params, &res); err != nil {
		return 0, err
	}
	return res.ClusterPairID, nil
}

func (c *Client) DeleteClusterPair(ctx context.Context, pairID int) error {
	params := struct {
		ClusterPairID int `json:"clusterPairID"`
	}{pairID}
	return c.do(ctx, "RemoveClusterPair", params, nil)
}

func (c *Client) ListVolumes(ctx context.Context, filter pairing.ListVolumesFilter) ([]pairing.Volume, error) {
	params := map[string]any{}
	if filter.AccountID != 0 {
		params["accounts"] = []int{filter.AccountID}
	}
	if len(filter.IDs) > 0 {
		params["volumeIDs"] = filter.IDs
	}
	if filter.PairedOnly {
		params["isPaired"] = true
	}
	var res struct {
		Volumes []wireVolume `json:"volumes"`
	}
	if err := c.do(ctx, "ListVolumes", params, &res); err != nil {
		return nil, err
	}
	out := make([]pairing.Volume, 0, len(res.Volumes))
	for _, v := range res.Volumes {
		out = append(out, v.toVolume())
	}
	return out, nil
}

func (c *Client) GetVolume(ctx context.Context, id int) (pairing.Volume, error) {
	vols, err := c.ListVolumes(ctx, pairing.ListVolumesFilter{IDs: []int{id}})
	if err != nil {
		return pairing.Volume{}, err
	}
	for _, v := range vols {
		if v.ID == id {
			return v, nil
		}
	}
	return pairing.Volume{}, fmt.Errorf("volume %d not found on %s", id, c.ClusterName())
}

func (c *Client) CreateVolume(ctx context.Context, req pairing.CreateVolumeRequest) (pairing.Volume, error) {
	params := map[string]any{
		"name":      req.Name,
		"accountID": req.AccountID,
		"totalSize": req.TotalSize,
		// 512-byte emulation tracks the template's block size.
		"enable512e": req.BlockSize == 512,
	}
	if req.QoS != nil {
		params["qos"] = req.QoS
	}
	if req.QoSPolicyID != 0 {
		params["qosPolicyID"] = req.QoSPolicyID
	}
	var res struct {
		Volume wireVolume `json:"volume"`
	}
	if err := c.do(ctx, "CreateVolume", params, &res); err != nil {
		return pairing.Volume{}, err
	}
	return res.Volume.toVolume(), nil
}

func (c *Client) ResizeVolume(ctx context.Context, id int, newSize int64) error {
	params := map[string]any{"volumeID": id, "totalSize": newSize}
	return c.do(ctx, "ModifyVolume", params, nil)
}

func (c *Client) SetVolumeAccess(ctx context.Context, id int, mode pairing.AccessMode) error {
	params := map[string]any{"volumeID": id, "access": string(mode)}
	return c.do(ctx, "ModifyVolume", params, nil)
}

func (c *Client) ListVolumePairs(ctx context.Context, ids ...int) ([]pairing.VolumePair, error) {
	var res struct {
		Volumes []wireVolume `json:"volumes"`
	}
	if err := c.do(ctx, "ListActivePairedVolumes", struct{}{}, &res); err != nil {
		return nil, err
	}
	wanted := make(map[int]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []pairing.VolumePair
	for _, v := range res.Volumes {
		if len(ids) > 0 && !wanted[v.VolumeID] {
			continue
		}
		out = append(out, v.toVolumePairs()...)
	}
	return out, nil
}

func (c *Client) StartVolumePairing(ctx context.Context, localID int) (string, error) {
	params := struct {
		VolumeID int `json:"volumeID"`
	}{localID}
	var res struct {
		VolumePairingKey string `json:"volumePairingKey"`
	}
	if err := c.do(ctx, "StartVolumePairing", params, &res); err != nil {
		return "", err
	}
	return res.VolumePairingKey, nil
}

func (c *Client) CompleteVolumePairing(ctx context.Context, localID int, key string) error {
	params := struct {
		VolumeID         int    `json:"volumeID"`
		VolumePairingKey string `json:"volumePairingKey"`
	}{localID, key}
	return c.do(ctx, "CompleteVolumePairing", params, nil)
}

func (c *Client) DeleteVolumePair(ctx context.Context, localID int) error {
	params := struct {
		VolumeID int `json:"volumeID"`
	}{localID}
	return c.do(ctx, "RemoveVolumePair", params, nil)
}

func (c *Client) SetVolumeReplicationMode(ctx context.Context, id int, mode pairing.ReplicationMode) error {
	params := map[string]any{"volumeID": id, "mode": string(mode)}
	return c.do(ctx, "ModifyVolumePair", params, nil)
}

func (c *Client) SetVolumePairedStatus(ctx context.Context, id int, paused bool) error {
	params := map[string]any{"volumeID": id, "pausedManual": paused}
	return c.do(ctx, "ModifyVolumePair", params, nil)
}

func (c *Client) CreateSnapshot(ctx context.Context, id int, retention time.Duration, name string) (pairing.Snapshot, error) {
	params := map[string]any{
		"volumeID": id,
		"name":     name,
		// Retention travels as HH:MM:SS.
		"retention":               formatRetention(retention),
		"enableRemoteReplication": true,
	}
	var res wireSnapshot
	if err := c.do(ctx, "CreateSnapshot", params, &res); err != nil {
		return pairing.Snapshot{}, err
	}
	return res.toSnapshot(), nil
}

func formatRetention(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// retryRoundTripper retries requests on transient network errors.
type retryRoundTripper struct {
	base       http.RoundTripper
	newBackoff func() backoff.BackOff
}

func (rt *retryRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
	}
	attempt := func() (*http.Response, error) {
		if body != nil {
			req.Body = io.NopCloser(bytes.NewReader(body))
		}
		resp, err := rt.base.RoundTrip(req)
		if err != nil {
			var opErr *net.OpError
			if errors.As(err, &opErr) {
				slog.Debug("Retrying management API request due to network error.", "error", err)
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return resp, nil
	}
	boff := backoff.WithContext(rt.newBackoff(), req.Context())
	return backoff.RetryWithData(attempt, boff)
}
