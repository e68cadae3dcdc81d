package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/only1thor/autobank/src/config"
	"github.com/only1thor/autobank/src/logger"
	"github.com/only1thor/autobank/src/models"
)

const (
	baseURL      = "https://api.sparebank1.no"
	acceptHeader = "application/vnd.sparebank1.v1+json; charset=utf-8"

	requestTimeout = 30 * time.Second
)

// SpareBank1Client talks to the SpareBank 1 personal banking API with a
// file-persisted OAuth token and a request throttle.
type SpareBank1Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewSpareBank1Client builds the production client. The token file must hold
// a previously obtained token pair; refreshes are written back to it.
func NewSpareBank1Client(cfg config.Config) (*SpareBank1Client, error) {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  baseURL + "/oauth/authorize",
			TokenURL: baseURL + "/oauth/token",
		},
	}

	tok, err := readTokenFile(cfg.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}

	src := &persistingTokenSource{
		path: cfg.TokenPath,
		src:  oauthCfg.TokenSource(context.Background(), tok),
		last: tok,
	}

	httpClient := oauth2.NewClient(context.Background(), src)
	httpClient.Timeout = requestTimeout

	return &SpareBank1Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
	}, nil
}

func readTokenFile(path string) (*oauth2.Token, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// persistingTokenSource writes refreshed tokens back to disk so a restart
// does not lose the rotated refresh token.
type persistingTokenSource struct {
	mu   sync.Mutex
	path string
	src  oauth2.TokenSource
	last *oauth2.Token
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tok, err := p.src.Token()
	if err != nil {
		return nil, err
	}
	if p.last == nil || tok.AccessToken != p.last.AccessToken {
		raw, err := json.Marshal(tok)
		if err == nil {
			if writeErr := os.WriteFile(p.path, raw, 0600); writeErr != nil {
				logger.L.Warn("failed to persist refreshed token", "error", writeErr)
			}
		}
		p.last = tok
	}
	return tok, nil
}

func (c *SpareBank1Client) get(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", acceptHeader)

	return c.do(req, out)
}

func (c *SpareBank1Client) post(ctx context.Context, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *SpareBank1Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bank request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read bank response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Transfer endpoints put application errors in the response body.
		var tr models.TransferResponse
		if json.Unmarshal(raw, &tr) == nil && len(tr.Errors) > 0 {
			return &APIError{
				StatusCode: resp.StatusCode,
				Code:       tr.Errors[0].Code,
				Message:    tr.Errors[0].Message,
				TraceID:    tr.Errors[0].TraceID,
			}
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       resp.Status,
			Message:    string(raw),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode bank response: %w", err)
	}
	return nil
}

func (c *SpareBank1Client) ListAccounts(ctx context.Context) (*models.AccountData, error) {
	var data models.AccountData
	if err := c.get(ctx, "/personal/banking/accounts?includeCreditCardAccounts=true", &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *SpareBank1Client) ListTransactions(ctx context.Context, accountKey string) (*models.TransactionResponse, error) {
	var resp models.TransactionResponse
	path := "/personal/banking/transactions?accountKey=" + url.QueryEscape(accountKey)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *SpareBank1Client) CreateTransfer(ctx context.Context, req *models.CreateTransferRequest) (*models.TransferResponse, error) {
	var resp models.TransferResponse
	if err := c.post(ctx, "/personal/banking/transfer/debit", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *SpareBank1Client) CreateCreditCardTransfer(ctx context.Context, req *models.CreditCardTransferRequest) (*models.TransferResponse, error) {
	var resp models.TransferResponse
	if err := c.post(ctx, "/personal/banking/transfer/creditcard/transferTo", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
