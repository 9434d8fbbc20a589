package internal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"

	"workday-poller/internal/logging"
	"workday-poller/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	maxAttempts = 3
	retryDelay  = 10 * time.Second
)

// HTTPStatusError is returned when the remote server responds with a non-2xx status.
type HTTPStatusError struct {
	URL        string
	Status     string
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("http status response from %s: %s", e.URL, e.Status)
}

type WorkdayClient interface {
	AcquireAccessToken(ctx context.Context) (string, error)
	FetchData(ctx context.Context, accessToken string) ([]byte, error)
}

type workdayManager struct {
	cfg    *WorkdayConfig
	client *http.Client
	logger logging.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewWorkdayClient(cfg *WorkdayConfig, logger logging.Logger, timeout time.Duration) WorkdayClient {
	return &workdayManager{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger,
		sleep:  sleepCtx,
	}
}

// AcquireAccessToken exchanges the configured refresh token for an access
// token. A fresh token is requested every cycle; tokens are never cached, so
// the request volume against the token endpoint matches the poll cadence.
func (mgr *workdayManager) AcquireAccessToken(ctx context.Context) (string, error) {
	form := neturl.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {mgr.cfg.RefreshToken},
		"client_id":     {mgr.cfg.ClientId},
		"client_secret": {mgr.cfg.ClientSecret},
	}

	var lastErr error
	for attempt := range maxAttempts {
		body, err := mgr.post(ctx, mgr.cfg.TokenEndpoint, form)
		if err == nil {
			var resp models.TokenResponse
			if uerr := json.Unmarshal(body, &resp); uerr != nil {
				err = errors.Wrap(uerr, "failed to unmarshal token response")
			} else if resp.AccessToken == "" {
				err = errors.New("token response did not contain an access_token")
			} else {
				mgr.logger.Infof("Successfully obtained access token")
				HTTPAttemptsTotal.WithLabelValues("token", "success").Inc()
				return resp.AccessToken, nil
			}
		}

		lastErr = err
		HTTPAttemptsTotal.WithLabelValues("token", "failure").Inc()
		mgr.logger.Errorf("Error obtaining access token: %v", err)
		mgr.logResponseContent(err)

		if attempt < maxAttempts-1 {
			mgr.logger.Infof("Retrying to obtain access token...")
			RetriesTotal.WithLabelValues("token").Inc()
			if serr := mgr.sleep(ctx, retryDelay); serr != nil {
				return "", errors.Wrap(serr, "token acquisition interrupted")
			}
		}
	}

	return "", errors.Wrapf(lastErr, "failed to obtain access token after %d attempts", maxAttempts)
}

// FetchData GETs the configured REST endpoint with the bearer token and
// returns the raw JSON payload.
func (mgr *workdayManager) FetchData(ctx context.Context, accessToken string) ([]byte, error) {
	var lastErr error
	for attempt := range maxAttempts {
		data, err := mgr.get(ctx, mgr.cfg.RestAPIEndpoint, accessToken)
		if err == nil {
			if !json.Valid(data) {
				err = errors.New("response body is not valid JSON")
			} else {
				mgr.logger.Infof("Successfully fetched data from Workday")
				HTTPAttemptsTotal.WithLabelValues("fetch", "success").Inc()
				return data, nil
			}
		}

		lastErr = err
		HTTPAttemptsTotal.WithLabelValues("fetch", "failure").Inc()
		mgr.logger.Errorf("Error fetching data from Workday: %v", err)
		mgr.logResponseContent(err)

		if attempt < maxAttempts-1 {
			mgr.logger.Infof("Retrying to fetch data from Workday...")
			RetriesTotal.WithLabelValues("fetch").Inc()
			if serr := mgr.sleep(ctx, retryDelay); serr != nil {
				return nil, errors.Wrap(serr, "data fetch interrupted")
			}
		}
	}

	return nil, errors.Wrapf(lastErr, "failed to fetch data after %d attempts", maxAttempts)
}

// logResponseContent surfaces the remote response body on HTTP errors, which
// is where Workday puts its diagnostic detail.
func (mgr *workdayManager) logResponseContent(err error) {
	var stErr *HTTPStatusError
	if errors.As(err, &stErr) && stErr.Body != "" {
		mgr.logger.Errorf("Response content: %s", stErr.Body)
	}
}

func (mgr *workdayManager) post(ctx context.Context, url string, form neturl.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return mgr.do(req)
}

func (mgr *workdayManager) get(ctx context.Context, url, accessToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	return mgr.do(req)
}

func (mgr *workdayManager) do(req *http.Request) ([]byte, error) {
	resp, err := mgr.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to perform request to %s", req.URL)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			mgr.logger.Warnf("failed to close response body: %v", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPStatusError{URL: req.URL.String(), Status: resp.Status, StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// sleepCtx blocks for d or until ctx is cancelled, so a termination signal
// is honoured even mid-backoff.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
