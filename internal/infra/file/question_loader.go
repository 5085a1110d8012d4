package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"timed-quiz/internal/domain"
)

// QuestionLoader reads question sets from files under a base directory. The set ID is the
// file path relative to that directory; .yaml/.yml files are decoded as YAML, anything else as JSON.
type QuestionLoader struct {
	dir string
}

func NewQuestionLoader(dir string) *QuestionLoader {
	if dir == "" {
		dir = "."
	}
	return &QuestionLoader{dir: dir}
}

func (l *QuestionLoader) LoadQuestions(_ context.Context, setID string) ([]domain.Question, error) {
	p, err := l.path(setID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", setID, domain.ErrQuestionSetNotFound)
	}
	if err != nil {
		// the resolved path stays server side
		return nil, fmt.Errorf("read %s failed", setID)
	}
	return DecodeQuestions(setID, data)
}

// path resolves setID under the base directory and refuses anything that would leave it.
func (l *QuestionLoader) path(setID string) (string, error) {
	if err := domain.ValidateSetID(setID); err != nil {
		return "", err
	}
	root := filepath.Clean(l.dir)
	p := filepath.Join(root, filepath.FromSlash(setID))
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q leaves the question root", domain.ErrInvalidSetID, setID)
	}
	return p, nil
}

// DecodeQuestions parses a question set, picking the format from name's extension.
func DecodeQuestions(name string, data []byte) ([]domain.Question, error) {
	var questions []domain.Question
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &questions); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	default:
		if err := json.Unmarshal(data, &questions); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}
	if len(questions) == 0 {
		return nil, domain.ErrNoQuestions
	}
	return questions, nil
}
