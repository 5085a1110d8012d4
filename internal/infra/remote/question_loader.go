package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"timed-quiz/internal/domain"
	"timed-quiz/internal/infra/file"
)

const maxBodyBytes = 4 << 20

// QuestionLoader fetches question sets over HTTP. The set ID is a path relative to the base URL.
type QuestionLoader struct {
	base   *url.URL
	client *http.Client
}

func NewQuestionLoader(baseURL string, client *http.Client) (*QuestionLoader, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &QuestionLoader{base: base, client: client}, nil
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context, setID string) ([]domain.Question, error) {
	target, err := l.resolve(setID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", setID, errors.Unwrap(err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", setID, domain.ErrQuestionSetNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch %s: unexpected status %s", setID, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", setID, err)
	}
	return file.DecodeQuestions(setID, data)
}

// resolve joins setID to the base URL. The result must stay on the base host and under its path.
func (l *QuestionLoader) resolve(setID string) (*url.URL, error) {
	if err := domain.ValidateSetID(setID); err != nil {
		return nil, err
	}
	ref, err := url.Parse(setID)
	if err != nil || ref.IsAbs() || ref.Host != "" {
		return nil, fmt.Errorf("%w: %q is not a relative path", domain.ErrInvalidSetID, setID)
	}
	target := l.base.ResolveReference(ref)
	if target.Scheme != l.base.Scheme || target.Host != l.base.Host ||
		!strings.HasPrefix(target.Path, baseDir(l.base.Path)) {
		return nil, fmt.Errorf("%w: %q leaves the question root", domain.ErrInvalidSetID, setID)
	}
	return target, nil
}

// baseDir is the directory relative references resolve against: everything up to the last slash.
func baseDir(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[:i+1]
	}
	return "/"
}
