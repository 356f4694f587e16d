package spotify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"spext/internal/shared"
)

// DefaultSafetyMargin is the buffer subtracted from a token's reported
// expiry so refresh happens before the credential actually lapses.
const DefaultSafetyMargin = 60 * time.Second

// fallbackValidity bounds the cache window when the token endpoint
// omits expires_in.
const fallbackValidity = time.Hour

// TokenProvider acquires and caches a bearer credential via the
// client-credentials grant. Refresh is a critical section: concurrent
// callers block on the mutex rather than racing the exchange. Requests
// already in flight during a refresh may carry a stale token; the
// requester detects that as a 401 and retries.
type TokenProvider struct {
	conf   *clientcredentials.Config
	margin time.Duration
	logger *log.Logger

	mu     sync.Mutex
	token  string
	expiry time.Time
	now    func() time.Time
}

// NewTokenProvider creates a TokenProvider for the given key pair and
// token endpoint. A margin below [DefaultSafetyMargin] is raised to it.
func NewTokenProvider(clientID, clientSecret, tokenURL string, margin time.Duration, logger *log.Logger) *TokenProvider {
	if margin < DefaultSafetyMargin {
		margin = DefaultSafetyMargin
	}

	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	return &TokenProvider{
		conf:   conf,
		margin: margin,
		logger: logger,
		now:    time.Now,
	}
}

// Token returns the cached credential while "now" is strictly before
// the margin-adjusted expiry, otherwise performs a fresh exchange.
// Failure to obtain a token is fatal for the calling operation.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && p.now().Before(p.expiry) {
		return p.token, nil
	}

	tok, err := p.conf.Token(ctx)
	if err != nil {
		p.logger.Error("token exchange failed", "error", err)
		return "", fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	p.token = tok.AccessToken
	if tok.Expiry.IsZero() {
		p.expiry = p.now().Add(fallbackValidity - p.margin)
	} else {
		p.expiry = tok.Expiry.Add(-p.margin)
	}

	p.logger.Debug("access token refreshed", "valid_until", p.expiry)
	return p.token, nil
}

// Invalidate drops the cached credential so the next Token call
// performs a fresh exchange. The requester calls this on a 401.
func (p *TokenProvider) Invalidate() {
	p.mu.Lock()
	p.token = ""
	p.mu.Unlock()
}
