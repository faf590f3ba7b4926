// Package http implements provider.Provider over a plain HTTP+JSON
// transport. The wire format of the peer's RPC server is explicitly out
// of scope for this module; this client assumes a minimal JSON API
// (GET /light_block?height=N, POST /evidence, GET /status) and is the
// one place in the domain stack that reaches for net/http and
// encoding/json directly rather than an ecosystem client, since no
// library in the example corpus speaks this module's wire format.
//
// Grounded on lite/providers/http.go's HTTP provider shape (chainID
// check against the fetched header, a SetLogger hook), adapted from
// Tendermint's rpcclient.HTTP to stdlib net/http since that client
// itself isn't importable without the rest of Tendermint.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tm-lightclient/lightclient/libs/log"
	"github.com/tm-lightclient/lightclient/light/provider"
	"github.com/tm-lightclient/lightclient/types"
)

// Provider fetches LightBlocks from a single remote peer over HTTP.
type Provider struct {
	chainID string
	remote  string
	client  *http.Client
	logger  log.Logger
}

var _ provider.Provider = (*Provider)(nil)

// New returns a Provider for chainID talking to remote (e.g.
// "http://localhost:26657"), using a default 5s-timeout http.Client.
func New(chainID, remote string) *Provider {
	return NewWithClient(chainID, remote, &http.Client{Timeout: 5 * time.Second})
}

// NewWithClient allows supplying a custom *http.Client (proxies, mTLS,
// custom transports).
func NewWithClient(chainID, remote string, client *http.Client) *Provider {
	return &Provider{chainID: chainID, remote: remote, client: client, logger: log.NewNopLogger()}
}

// SetLogger sets the provider's logger.
func (p *Provider) SetLogger(logger log.Logger) { p.logger = logger }

func (p *Provider) ID() string { return p.remote }

func (p *Provider) FetchLightBlock(ctx context.Context, h types.Height) (*types.LightBlock, error) {
	u, err := url.Parse(p.remote + "/light_block")
	if err != nil {
		return nil, provider.ErrIO(err)
	}
	if h != provider.LatestHeight {
		q := u.Query()
		q.Set("height", strconv.FormatInt(h, 10))
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, provider.ErrIO(err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, provider.ErrIO(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through
	case http.StatusNotFound:
		return nil, provider.ErrLightBlockNotFound
	case http.StatusGatewayTimeout, http.StatusServiceUnavailable:
		return nil, provider.ErrNoResponse
	case http.StatusBadRequest:
		return nil, provider.ErrHeightTooHigh(h, 0)
	default:
		return nil, provider.ErrIO(fmt.Errorf("unexpected status %d from %s", resp.StatusCode, u.String()))
	}

	var lb types.LightBlock
	if err := json.NewDecoder(resp.Body).Decode(&lb); err != nil {
		return nil, provider.ErrInvalidLightBlock(err.Error())
	}
	if lb.SignedHeader.Header.ChainID != "" && lb.SignedHeader.Header.ChainID != p.chainID {
		return nil, provider.ErrInvalidLightBlock(
			fmt.Sprintf("expected chain ID %s, got %s", p.chainID, lb.SignedHeader.Header.ChainID))
	}
	return &lb, nil
}

func (p *Provider) ReportEvidence(ctx context.Context, ev *types.LightClientAttackEvidence) (types.Hash, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return types.EmptyHash(), provider.ErrIO(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.remote+"/evidence", bytes.NewReader(body))
	if err != nil {
		return types.EmptyHash(), provider.ErrIO(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return types.EmptyHash(), provider.ErrIO(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return types.EmptyHash(), provider.ErrIO(fmt.Errorf("evidence rejected with status %d", resp.StatusCode))
	}
	return ev.Hash(), nil
}

type statusResponse struct {
	NodeID       string      `json:"node_id"`
	LatestHeight types.Height `json:"latest_height"`
}

func (p *Provider) Status(ctx context.Context) (provider.NodeStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.remote+"/status", nil)
	if err != nil {
		return provider.NodeStatus{}, provider.ErrIO(err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return provider.NodeStatus{}, provider.ErrIO(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return provider.NodeStatus{}, provider.ErrIO(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var sr statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return provider.NodeStatus{}, provider.ErrIO(err)
	}
	return provider.NodeStatus{NodeID: sr.NodeID, LatestHeight: sr.LatestHeight}, nil
}
