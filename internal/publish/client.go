package publish

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"

	"github.com/jonathan/records-bot/internal/types"
)

const (
	// DefaultAPIBaseURL serves the v2 tweet endpoints.
	DefaultAPIBaseURL = "https://api.twitter.com"
	// DefaultUploadBaseURL serves the v1.1 media upload endpoint.
	DefaultUploadBaseURL = "https://upload.twitter.com"
	// DefaultTimeout bounds each API request.
	DefaultTimeout = 30 * time.Second

	tweetsPath      = "/2/tweets"
	mediaUploadPath = "/1.1/media/upload.json"
	statusURLFormat = "https://twitter.com/user/status/%s"
)

// Credentials are the OAuth 1.0a user-context secrets.
type Credentials struct {
	APIKey            string `validate:"required"`
	APIKeySecret      string `validate:"required"`
	AccessToken       string `validate:"required"`
	AccessTokenSecret string `validate:"required"`
}

// Validate reports which credentials are missing.
func (c Credentials) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return &AuthError{Message: fmt.Sprintf("incomplete credentials: %v", err)}
	}
	return nil
}

// Options configures the client endpoints.
type Options struct {
	APIBaseURL    string
	UploadBaseURL string
	Timeout       time.Duration
}

// DefaultOptions returns the production endpoints.
func DefaultOptions() *Options {
	return &Options{
		APIBaseURL:    DefaultAPIBaseURL,
		UploadBaseURL: DefaultUploadBaseURL,
		Timeout:       DefaultTimeout,
	}
}

// Client posts tweets with an OAuth 1.0a signed HTTP client.
type Client struct {
	http      *resty.Client
	uploadURL string
	logger    *slog.Logger
}

// NewClient creates a client. Credentials are not checked until the first request.
func NewClient(creds Credentials, opts *Options, logger *slog.Logger) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.APIBaseURL == "" {
		opts.APIBaseURL = DefaultAPIBaseURL
	}
	if opts.UploadBaseURL == "" {
		opts.UploadBaseURL = DefaultUploadBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	config := oauth1.NewConfig(creds.APIKey, creds.APIKeySecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)
	signed := config.Client(oauth1.NoContext, token)

	client := resty.NewWithClient(signed)
	client.SetBaseURL(strings.TrimSuffix(opts.APIBaseURL, "/"))
	client.SetTimeout(opts.Timeout)
	client.SetHeader("User-Agent", "records-bot/1.0")

	return &Client{
		http:      client,
		uploadURL: strings.TrimSuffix(opts.UploadBaseURL, "/") + mediaUploadPath,
		logger:    logger,
	}
}

type createTweetRequest struct {
	Text  string      `json:"text"`
	Media *tweetMedia `json:"media,omitempty"`
}

type tweetMedia struct {
	MediaIDs []string `json:"media_ids"`
}

type createTweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

type mediaUploadResponse struct {
	MediaIDString string `json:"media_id_string"`
}

type apiErrorResponse struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (r *apiErrorResponse) message(fallback string) string {
	switch {
	case r.Detail != "":
		return r.Detail
	case r.Title != "":
		return r.Title
	case len(r.Errors) > 0 && r.Errors[0].Message != "":
		return r.Errors[0].Message
	}
	return fallback
}

// Post publishes message, uploading imagePath first when it is not empty.
func (c *Client) Post(ctx context.Context, message, imagePath string) (types.PostID, error) {
	req := createTweetRequest{Text: message}
	if imagePath != "" {
		mediaID, err := c.uploadMedia(ctx, imagePath)
		if err != nil {
			return "", err
		}
		req.Media = &tweetMedia{MediaIDs: []string{mediaID}}
	}

	var out createTweetResponse
	var apiErr apiErrorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&out).
		SetError(&apiErr).
		Post(tweetsPath)
	if err != nil {
		return "", &TransportError{Endpoint: tweetsPath, Message: "request failed", Cause: err}
	}
	if err := checkResponse(tweetsPath, resp, &apiErr); err != nil {
		return "", err
	}
	if out.Data.ID == "" {
		return "", &TransportError{Endpoint: tweetsPath, StatusCode: resp.StatusCode(), Message: "response has no tweet id"}
	}

	id := types.PostID(out.Data.ID)
	c.logger.Info("tweet posted", "id", id, "url", StatusURL(id))
	return id, nil
}

func (c *Client) uploadMedia(ctx context.Context, imagePath string) (string, error) {
	var out mediaUploadResponse
	var apiErr apiErrorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFile("media", imagePath).
		SetResult(&out).
		SetError(&apiErr).
		Post(c.uploadURL)
	if err != nil {
		return "", &TransportError{Endpoint: mediaUploadPath, Message: "media upload failed", Cause: err}
	}
	if err := checkResponse(mediaUploadPath, resp, &apiErr); err != nil {
		return "", err
	}
	if out.MediaIDString == "" {
		return "", &TransportError{Endpoint: mediaUploadPath, StatusCode: resp.StatusCode(), Message: "response has no media id"}
	}
	c.logger.Debug("media uploaded", "path", imagePath, "media_id", out.MediaIDString)
	return out.MediaIDString, nil
}

func checkResponse(endpoint string, resp *resty.Response, apiErr *apiErrorResponse) error {
	if resp.IsSuccess() {
		return nil
	}
	msg := apiErr.message(strings.TrimSpace(resp.String()))
	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{StatusCode: resp.StatusCode(), Message: msg}
	default:
		return &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode(), Message: msg}
	}
}

// StatusURL returns the public URL of a post.
func StatusURL(id types.PostID) string {
	return fmt.Sprintf(statusURLFormat, id)
}
