package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/client/models"
	"github.com/dmitrijs2005/jobportal/internal/common"
	"github.com/dmitrijs2005/jobportal/internal/logging"
	"github.com/google/uuid"
)

// HTTPClient implements Client over the JSON HTTP API.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	logger  logging.Logger

	newRequestID func() string
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client for baseURL (e.g. "http://127.0.0.1:8000").
// jar keeps the session cookie; pass nil for a throwaway in-memory session.
func NewHTTPClient(baseURL string, jar http.CookieJar, logger logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}

	return &HTTPClient{
		baseURL:      u,
		http:         &http.Client{Jar: jar},
		logger:       logger.With("module", "api_client"),
		newRequestID: func() string { return uuid.NewString() },
	}, nil
}

// BaseURL is the server root the client talks to.
func (c *HTTPClient) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func jsonRequest(method, path string, payload any) (request, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return request{}, err
	}
	return request{method: method, path: path, body: bytes.NewReader(b), contentType: "application/json"}, nil
}

// do sends r and decodes a 2xx JSON body into out (if out is not nil).
func (c *HTTPClient) do(ctx context.Context, r request, out any) error {
	u := c.baseURL.JoinPath(r.path)
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), r.body)
	if err != nil {
		return err
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")
	reqID := c.newRequestID()
	req.Header.Set(common.RequestIDHeader, reqID)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug(ctx, "request failed", "method", r.method, "path", r.path, "request_id", reqID, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug(ctx, "request done",
		"method", r.method, "path", r.path, "status", resp.StatusCode,
		"request_id", reqID, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", r.method, r.path, err)
	}
	return nil
}

// mapError turns a non-2xx response into an *APIError.
func mapError(resp *http.Response) error {
	var body struct {
		Detail any `json:"detail"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	detail := ""
	if err := json.Unmarshal(raw, &body); err == nil && body.Detail != nil {
		switch d := body.Detail.(type) {
		case string:
			detail = d
		default:
			b, _ := json.Marshal(d)
			detail = string(b)
		}
	} else {
		detail = strings.TrimSpace(string(raw))
	}

	var kind error
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		kind = ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		kind = ErrForbidden
	case resp.StatusCode == http.StatusNotFound:
		kind = ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		kind = ErrConflict
	case resp.StatusCode == http.StatusBadGateway,
		resp.StatusCode == http.StatusServiceUnavailable,
		resp.StatusCode == http.StatusGatewayTimeout:
		kind = ErrUnavailable
	case resp.StatusCode >= 500:
		kind = ErrServer
	default:
		kind = ErrBadRequest
	}

	return &APIError{Status: resp.StatusCode, Detail: detail, kind: kind}
}

// --- session ---

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/auth/me"}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) VerifySession(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodGet, path: "/api/auth/get-current-user"}, nil)
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/api/auth/logout"}, nil)
}

func (c *HTTPClient) Register(ctx context.Context, email string, password []byte, name string) error {
	r, err := jsonRequest(http.MethodPost, "/api/auth/register", map[string]string{
		"email":    email,
		"password": string(password),
		"name":     name,
	})
	if err != nil {
		return err
	}
	return c.do(ctx, r, nil)
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) error {
	r, err := jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": string(password),
	})
	if err != nil {
		return err
	}
	return c.do(ctx, r, nil)
}

// --- jobs ---

func (c *HTTPClient) ListPublicJobs(ctx context.Context, f models.JobFilter) (*models.JobPage, error) {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(f.PageSize))
	}
	setIf := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	setIf("category", f.Category)
	setIf("employment_type", string(f.EmploymentType))
	setIf("experience_level", string(f.ExperienceLevel))
	setIf("work_mode", string(f.WorkMode))
	setIf("location", f.Location)

	var page models.JobPage
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/jobs/public", query: q}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) GetPublicJob(ctx context.Context, id string) (*models.Job, error) {
	var j models.Job
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/jobs/public/" + url.PathEscape(id)}, &j); err != nil {
		return nil, err
	}
	return &j, nil
}

func (c *HTTPClient) CreateJob(ctx context.Context, in models.JobInput) (*models.Job, error) {
	r, err := jsonRequest(http.MethodPost, "/api/jobs", in)
	if err != nil {
		return nil, err
	}
	var j models.Job
	if err := c.do(ctx, r, &j); err != nil {
		return nil, err
	}
	return &j, nil
}

func (c *HTTPClient) UpdateJob(ctx context.Context, id string, in models.JobInput) (*models.Job, error) {
	r, err := jsonRequest(http.MethodPut, "/api/jobs/"+url.PathEscape(id), in)
	if err != nil {
		return nil, err
	}
	var j models.Job
	if err := c.do(ctx, r, &j); err != nil {
		return nil, err
	}
	return &j, nil
}

func (c *HTTPClient) UpdateJobStatus(ctx context.Context, id string, status models.JobStatus) (*models.Job, error) {
	r, err := jsonRequest(http.MethodPatch, "/api/jobs/"+url.PathEscape(id)+"/status", map[string]models.JobStatus{"status": status})
	if err != nil {
		return nil, err
	}
	var j models.Job
	if err := c.do(ctx, r, &j); err != nil {
		return nil, err
	}
	return &j, nil
}

func (c *HTTPClient) DeleteJob(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/api/jobs/" + url.PathEscape(id)}, nil)
}

func (c *HTTPClient) MyJobs(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/jobs/my-jobs"}, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *HTTPClient) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var j models.Job
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/jobs/" + url.PathEscape(id)}, &j); err != nil {
		return nil, err
	}
	return &j, nil
}

// --- applications ---

func (c *HTTPClient) Apply(ctx context.Context, jobID string, in models.ApplicationInput) (*models.Application, error) {
	if len(in.Resume) == 0 {
		return nil, fmt.Errorf("%w: resume is required", ErrBadRequest)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"cover_letter":     in.CoverLetter,
		"portfolio_url":    in.PortfolioURL,
		"linkedin_url":     in.LinkedinURL,
		"github_url":       in.GithubURL,
		"additional_notes": in.AdditionalNotes,
	}
	if in.ExpectedSalary != nil {
		fields["expected_salary"] = strconv.FormatFloat(*in.ExpectedSalary, 'f', -1, 64)
	}
	if in.AvailabilityDate != nil {
		fields["availability_date"] = in.AvailabilityDate.Format(time.RFC3339)
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := mw.WriteField(k, v); err != nil {
			return nil, err
		}
	}

	name := in.ResumeName
	if name == "" {
		name = "resume.pdf"
	}
	fw, err := mw.CreateFormFile("resume", name)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(in.Resume); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	r := request{
		method:      http.MethodPost,
		path:        "/api/jobs/" + url.PathEscape(jobID) + "/apply",
		body:        &buf,
		contentType: mw.FormDataContentType(),
	}
	var app models.Application
	if err := c.do(ctx, r, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *HTTPClient) JobApplications(ctx context.Context, jobID string, page, pageSize int) (*models.ApplicationPage, error) {
	q := url.Values{"job_id": {jobID}}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	var p models.ApplicationPage
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/jobs/applications", query: q}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) MyApplications(ctx context.Context) ([]models.Application, error) {
	var apps []models.Application
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/jobs/my-applications"}, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (c *HTTPClient) review(ctx context.Context, jobID, applicationID, action string) (*models.Application, error) {
	r := request{
		method: http.MethodPatch,
		path:   "/api/jobs/applications/" + url.PathEscape(applicationID) + "/" + action,
		query:  url.Values{"job_id": {jobID}},
	}
	var app models.Application
	if err := c.do(ctx, r, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *HTTPClient) AcceptApplication(ctx context.Context, jobID, applicationID string) (*models.Application, error) {
	return c.review(ctx, jobID, applicationID, "accept")
}

func (c *HTTPClient) RejectApplication(ctx context.Context, jobID, applicationID string) (*models.Application, error) {
	return c.review(ctx, jobID, applicationID, "reject")
}

func (c *HTTPClient) DeleteApplication(ctx context.Context, applicationID string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/api/jobs/applications/" + url.PathEscape(applicationID)}, nil)
}

func (c *HTTPClient) ResumeURL(ctx context.Context, applicationID string) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/jobs/applications/" + url.PathEscape(applicationID) + "/resume"}, &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", errors.New("server returned an empty resume url")
	}
	return out.URL, nil
}

// --- plans & payments ---

func (c *HTTPClient) ListPlans(ctx context.Context) ([]models.Plan, error) {
	var plans []models.Plan
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/plan/"}, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (c *HTTPClient) InitiatePayment(ctx context.Context, plan models.PlanName) (*models.PaymentInitiation, error) {
	r, err := jsonRequest(http.MethodPost, "/api/payment/initiate", map[string]models.PlanName{"plan": plan})
	if err != nil {
		return nil, err
	}
	var p models.PaymentInitiation
	if err := c.do(ctx, r, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
