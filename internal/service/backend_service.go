package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	config "github.com/maheshrc27/postflow-studio/configs"
	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// BackendService is the REST backend that owns submissions, social accounts
// and scheduled posts.
type BackendService interface {
	ListSubmissions(ctx context.Context) ([]models.ContentSubmission, error)
	ListCustomerSocialLinks(ctx context.Context) ([]models.CustomerSocialLinks, error)
	CreateScheduledPost(ctx context.Context, req *transfer.ScheduledPostRequest) (string, error)
	ListScheduledPosts(ctx context.Context) ([]models.ScheduledPost, error)
	DeleteScheduledPost(ctx context.Context, postID string) error
	TriggerDispatch(ctx context.Context) error
	UpdateSubmissionStatus(ctx context.Context, submissionID string, update transfer.SubmissionStatusUpdate) error
	UploadBase64(ctx context.Context, req transfer.UploadRequest) (string, error)
}

type authTokenKey struct{}

// WithAuthToken attaches the caller's bearer token to ctx so backend calls
// run with the caller's permissions.
func WithAuthToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, authTokenKey{}, token)
}

func authTokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(authTokenKey{}).(string)
	return token
}

type backendService struct {
	baseURL string
	// client carries the caller's token; serviceClient authenticates calls
	// made outside a user request and is nil when no credentials are set.
	client        *http.Client
	serviceClient *http.Client
}

func NewBackendService(cfg config.Config) BackendService {
	return &backendService{
		baseURL:       strings.TrimRight(cfg.BackendURL, "/"),
		client:        &http.Client{Timeout: cfg.BackendTimeout},
		serviceClient: newServiceClient(cfg),
	}
}

// newServiceClient prefers client credentials and falls back to a static
// service token.
func newServiceClient(cfg config.Config) *http.Client {
	ctx := context.Background()
	var client *http.Client
	switch {
	case cfg.BackendClientID != "":
		cc := clientcredentials.Config{
			ClientID:     cfg.BackendClientID,
			ClientSecret: cfg.BackendClientSecret,
			TokenURL:     cfg.BackendTokenURL,
		}
		client = cc.Client(ctx)
	case cfg.BackendServiceToken != "":
		client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.BackendServiceToken,
			TokenType:   "Bearer",
		}))
	default:
		return nil
	}
	client.Timeout = cfg.BackendTimeout
	return client
}

// ListSubmissions decodes each record on its own; a record the backend
// serialized with off-type fields is logged and skipped.
func (s *backendService) ListSubmissions(ctx context.Context) ([]models.ContentSubmission, error) {
	var raw []json.RawMessage
	if err := s.getList(ctx, "/api/content-submissions", &raw); err != nil {
		return nil, err
	}
	submissions := make([]models.ContentSubmission, 0, len(raw))
	for i, r := range raw {
		var sub transfer.Submission
		if err := json.Unmarshal(r, &sub); err != nil {
			slog.Info("skipping malformed submission", slog.Int("index", i), slog.String("error", err.Error()))
			continue
		}
		submissions = append(submissions, ToContentSubmission(sub))
	}
	return submissions, nil
}

func (s *backendService) ListCustomerSocialLinks(ctx context.Context) ([]models.CustomerSocialLinks, error) {
	var resp transfer.CustomerSocialLinksResponse
	if err := s.do(ctx, http.MethodGet, "/api/admin/customer-social-links", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "Failed to fetch social accounts"
		}
		err := &models.NetworkError{StatusCode: http.StatusOK, Message: msg}
		slog.Info(err.Error())
		return nil, err
	}
	return resp.Data, nil
}

func (s *backendService) CreateScheduledPost(ctx context.Context, req *transfer.ScheduledPostRequest) (string, error) {
	var resp transfer.ScheduledPostResponse
	if err := s.do(ctx, http.MethodPost, "/api/scheduled-posts", req, &resp); err != nil {
		return "", err
	}
	return resp.CreatedID(), nil
}

func (s *backendService) ListScheduledPosts(ctx context.Context) ([]models.ScheduledPost, error) {
	var posts []models.ScheduledPost
	if err := s.getList(ctx, "/api/scheduled-posts", &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *backendService) DeleteScheduledPost(ctx context.Context, postID string) error {
	if postID == "" {
		return errors.New("post id is not valid")
	}
	return s.do(ctx, http.MethodDelete, "/api/scheduled-posts/"+url.PathEscape(postID), nil, nil)
}

func (s *backendService) TriggerDispatch(ctx context.Context) error {
	return s.do(ctx, http.MethodPost, "/api/scheduled-posts/trigger", struct{}{}, nil)
}

func (s *backendService) UpdateSubmissionStatus(ctx context.Context, submissionID string, update transfer.SubmissionStatusUpdate) error {
	if submissionID == "" {
		return errors.New("submission id is not valid")
	}
	path := fmt.Sprintf("/api/content-submissions/%s/status", url.PathEscape(submissionID))
	return s.do(ctx, http.MethodPatch, path, update, nil)
}

func (s *backendService) UploadBase64(ctx context.Context, req transfer.UploadRequest) (string, error) {
	var resp transfer.UploadResponse
	if err := s.do(ctx, http.MethodPost, "/api/gcs/upload-base64", req, &resp); err != nil {
		return "", err
	}
	if resp.PublicURL == "" {
		err := &models.NetworkError{StatusCode: http.StatusOK, Message: "Upload did not return a public URL"}
		slog.Info(err.Error())
		return "", err
	}
	return resp.PublicURL, nil
}

// getList decodes either a bare JSON array or a {"data": [...]} envelope.
func (s *backendService) getList(ctx context.Context, path string, out any) error {
	var raw json.RawMessage
	if err := s.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return err
	}
	body := bytes.TrimSpace(raw)
	if len(body) > 0 && body[0] == '{' {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return malformed(err)
		}
		body = envelope.Data
	}
	if len(body) == 0 || string(body) == "null" {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return malformed(err)
	}
	return nil
}

func (s *backendService) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("error marshalling payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	client := s.client
	if token := authTokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else if s.serviceClient != nil {
		client = s.serviceClient
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error(), slog.String("method", method), slog.String("path", path))
		return &models.NetworkError{Message: models.GenericNetworkFailure, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &models.NetworkError{StatusCode: resp.StatusCode, Message: models.GenericNetworkFailure, Err: err}
	}

	slog.Debug("backend call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := &models.NetworkError{StatusCode: resp.StatusCode, Message: serverMessage(respBody)}
		slog.Info(err.Error(), slog.String("path", path), slog.Int("status", resp.StatusCode))
		return err
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		if out != nil {
			return malformed(errors.New("empty response body"))
		}
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return malformed(err)
	}
	return nil
}

func serverMessage(body []byte) string {
	var e transfer.ErrorResponse
	if err := json.Unmarshal(body, &e); err == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
	}
	return models.GenericNetworkFailure
}

func malformed(err error) error {
	slog.Info(err.Error())
	return &models.NetworkError{StatusCode: http.StatusOK, Message: "Unexpected response from server", Err: err}
}
