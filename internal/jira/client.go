// Package jira implements tracker.Project against a Jira server's REST API.
package jira

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	jiraapi "github.com/andygrunwald/go-jira"
	"go.uber.org/zap"

	"github.com/temirov/jirate/internal/index"
	"github.com/temirov/jirate/internal/tracker"
)

const (
	defaultTimeout      = 30 * time.Second
	bearerPrefix        = "Bearer "
	authorizationHeader = "Authorization"

	missingBaseURLMessage    = "jira base URL is required"
	missingProjectKeyMessage = "jira project key is required"
	createClientErrorFormat  = "create jira client for %s: %w"
)

// Options configures a Project.
type Options struct {
	BaseURL    string
	Token      string
	ProjectKey string
	// HTTPClient replaces the default client; the bearer token is still added to its transport.
	HTTPClient *http.Client
	// Index, when set, receives listing snapshots and stale marks.
	Index  *index.Store
	Logger *zap.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// authTransport adds the bearer token to every request.
type authTransport struct {
	Token string
	Base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (transport *authTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	authorized := request.Clone(request.Context())
	authorized.Header.Set(authorizationHeader, bearerPrefix+transport.Token)
	if transport.Base == nil {
		return http.DefaultTransport.RoundTrip(authorized)
	}
	return transport.Base.RoundTrip(authorized)
}

// Project is a tracker.Project backed by Jira.
type Project struct {
	client   *jiraapi.Client
	baseURL  string
	key      string
	logger   *zap.Logger
	store    *index.Store
	clock    func() time.Time
	userData map[string]any

	metadata       *projectMetadata
	pendingListing *listing
}

var _ tracker.Project = (*Project)(nil)

// NewProject creates a Project for options.ProjectKey.
func NewProject(options Options) (*Project, error) {
	if strings.TrimSpace(options.BaseURL) == "" {
		return nil, errors.New(missingBaseURLMessage)
	}
	if strings.TrimSpace(options.ProjectKey) == "" {
		return nil, errors.New(missingProjectKeyMessage)
	}
	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	authorized := *httpClient
	authorized.Transport = &authTransport{Token: options.Token, Base: httpClient.Transport}

	client, err := jiraapi.NewClient(&authorized, options.BaseURL)
	if err != nil {
		return nil, fmt.Errorf(createClientErrorFormat, options.BaseURL, err)
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := options.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Project{
		client:   client,
		baseURL:  options.BaseURL,
		key:      strings.ToUpper(options.ProjectKey),
		logger:   logger,
		store:    options.Index,
		clock:    clock,
		userData: map[string]any{},
	}, nil
}

// Key returns the project key.
func (project *Project) Key() string {
	return project.key
}

// UserData returns a value attached for this invocation.
func (project *Project) UserData(key string) (any, bool) {
	value, present := project.userData[key]
	return value, present
}

// SetUserData attaches a value for this invocation.
func (project *Project) SetUserData(key string, value any) {
	project.userData[key] = value
}

// apiError converts a go-jira failure, mapping HTTP 404 onto tracker.NotFoundError.
func apiError(action string, key string, kind string, response *jiraapi.Response, err error) error {
	if response != nil && response.StatusCode == http.StatusNotFound {
		return &tracker.NotFoundError{Kind: kind, Key: key}
	}
	return fmt.Errorf("%s %s: %w", action, key, err)
}
