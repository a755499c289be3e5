package recruitment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	internal "github.com/talentbridge/portal/internal"
	recruitmentDatamodel "github.com/talentbridge/portal/internal/core/datamodel/recruitment"
)

// Client is a typed wrapper around the external recruitment API. The
// upstream owns accounts, OTP issuance and profile data; this client only
// translates its responses and failure shapes.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func NewClient(config Config, logger *slog.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    config.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
		logger:     logger,
	}
}

// do performs one round trip and decodes the body into out. Transport
// failures map to the generic network error; non-2xx responses surface the
// upstream message when one is present.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = &bytes.Buffer{}
	}

	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("recruitment API unreachable", "path", path, "error", err)
		return internal.ErrNetwork
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var failure recruitmentDatamodel.MessageResponse
		_ = json.NewDecoder(resp.Body).Decode(&failure)
		c.logger.Warn("recruitment API rejected request",
			"path", path,
			"status", resp.StatusCode,
			"message", failure.Message)
		return internal.NewUpstreamError(failure.Message, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Warn("recruitment API response unreadable", "path", path, "error", err)
		return internal.ErrNetwork
	}
	return nil
}

// LoginCorporate authenticates an employer. A 2xx body carrying
// success:false is still a rejection.
func (c *Client) LoginCorporate(ctx context.Context, req recruitmentDatamodel.CorporateLoginRequest) (*recruitmentDatamodel.CorporateLoginResponse, error) {
	var resp recruitmentDatamodel.CorporateLoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/recruitment/login/corporate", req, &resp); err != nil {
		return nil, err
	}
	if resp.Success != nil && !*resp.Success {
		return nil, internal.NewUpstreamError(resp.Message, http.StatusOK)
	}
	return &resp, nil
}

// CreateCorporateAccount registers a new employer; the upstream dispatches a
// signup OTP on success.
func (c *Client) CreateCorporateAccount(ctx context.Context, req recruitmentDatamodel.SignupRequest) (*recruitmentDatamodel.MessageResponse, error) {
	var resp recruitmentDatamodel.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/recruitment/create/corporate-account", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifySignupOTP confirms a fresh employer account.
func (c *Client) VerifySignupOTP(ctx context.Context, req recruitmentDatamodel.VerifySignupRequest) (*recruitmentDatamodel.MessageResponse, error) {
	var resp recruitmentDatamodel.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/recruitment/verify/corporate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Companies lists the selectable companies.
func (c *Client) Companies(ctx context.Context) ([]recruitmentDatamodel.Company, error) {
	var resp recruitmentDatamodel.CompaniesResponse
	if err := c.do(ctx, http.MethodGet, "/api/recruitment/getCompanies/all", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// SendAccessOTP asks the upstream to mail an access OTP for the company.
func (c *Client) SendAccessOTP(ctx context.Context, req recruitmentDatamodel.SendOTPRequest) error {
	return c.do(ctx, http.MethodPost, "/api/recruitment/public/send-otp", req, nil)
}

// VerifyAccessOTP checks an access OTP. A 2xx response with success:false is
// a normal "wrong code" outcome, not an error.
func (c *Client) VerifyAccessOTP(ctx context.Context, req recruitmentDatamodel.VerifyOTPRequest) (*recruitmentDatamodel.VerifyOTPResponse, error) {
	var resp recruitmentDatamodel.VerifyOTPResponse
	if err := c.do(ctx, http.MethodPost, "/api/recruitment/public/verify-otp", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func profilesQuery(companyID, companyName string) string {
	q := url.Values{}
	q.Set("companyId", companyID)
	q.Set("companyName", companyName)
	return "?" + q.Encode()
}

// TopCTCProfiles fetches the demo subset: top records by compensation.
func (c *Client) TopCTCProfiles(ctx context.Context, companyID, companyName string) (*recruitmentDatamodel.ProfilesResponse, error) {
	var resp recruitmentDatamodel.ProfilesResponse
	path := "/api/recruitment/parsed-profiles/top-ctc" + profilesQuery(companyID, companyName)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AllAlphaProfiles fetches the full alphabetical listing.
func (c *Client) AllAlphaProfiles(ctx context.Context, companyID, companyName string) (*recruitmentDatamodel.ProfilesResponse, error) {
	var resp recruitmentDatamodel.ProfilesResponse
	path := "/api/recruitment/parsed-profiles/all-alpha" + profilesQuery(companyID, companyName)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
