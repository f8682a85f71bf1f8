package store

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const apiRoot = "https://api.github.com"

var errNotFound = errors.New("file not found")

type github struct {
	config Config
	client *http.Client
	root   string
}

// NewGitHub returns a Store backed by the GitHub contents API, scoped to the
// repository and branch of the given config.
func NewGitHub(config Config) Store {
	return &github{
		config: config,
		client: &http.Client{Timeout: 30 * time.Second},
		root:   apiRoot,
	}
}

func (s *github) Name() string {
	return "github"
}

func (s *github) GetFile(ctx context.Context, path string) (*File, error) {
	endpoint := s.url(path) + "?ref=" + url.QueryEscape(s.config.Branch)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not build request")
	}
	s.decorate(req)

	res, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "could not get file")
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, errors.Wrap(errNotFound, path)
	}
	if res.StatusCode != http.StatusOK {
		return nil, s.remoteError(res)
	}

	var payload struct {
		Content string `json:"content"`
		SHA     string `json:"sha"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "could not decode file payload")
	}

	// The contents API wraps base64 at 60 columns.
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(payload.Content, "\n", ""))
	if err != nil {
		return nil, errors.Wrap(err, "could not decode file content")
	}

	return &File{Content: raw, SHA: payload.SHA}, nil
}

func (s *github) PutFile(ctx context.Context, path string, content []byte, message, sha string) (string, error) {
	payload := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
		"branch":  s.config.Branch,
	}
	if sha != "" {
		payload["sha"] = sha
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "could not encode file payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.url(path), bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "could not build request")
	}
	s.decorate(req)
	req.Header.Set("Content-Type", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "could not put file")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		return "", s.remoteError(res)
	}

	var receipt struct {
		Content struct {
			SHA string `json:"sha"`
		} `json:"content"`
	}
	if err := json.NewDecoder(res.Body).Decode(&receipt); err != nil {
		return "", errors.Wrap(err, "could not decode commit payload")
	}

	return receipt.Content.SHA, nil
}

func (s *github) IsNotFound(err error) bool {
	return errors.Cause(err) == errNotFound
}

func (s *github) url(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}

	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", s.root, s.config.Owner, s.config.Repo, strings.Join(segments, "/"))
}

func (s *github) decorate(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+s.config.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", s.config.UserAgent)
}

func (s *github) remoteError(res *http.Response) error {
	var payload struct {
		Message string `json:"message"`
	}

	raw, err := io.ReadAll(res.Body)
	if err == nil {
		json.Unmarshal(raw, &payload)
	}
	if payload.Message == "" {
		payload.Message = http.StatusText(res.StatusCode)
	}

	return errors.Errorf("remote store: [%d] %s", res.StatusCode, payload.Message)
}
