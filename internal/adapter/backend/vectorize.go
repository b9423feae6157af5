package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"
	"reciperag/config"
	"reciperag/internal/domain"
	"reciperag/internal/logging"
)

// ErrMissingEnv is returned when a required credential variable is unset.
var ErrMissingEnv = errors.New("required environment variable not set")

// VectorizeBackend queries a hosted Vectorize retrieval pipeline.
type VectorizeBackend struct {
	baseURL    string
	token      string
	orgID      string
	pipelineID string
	envVars    []string
	client     *http.Client
	logger     *zap.Logger
}

type retrievalRequest struct {
	Question   string `json:"question"`
	NumResults int    `json:"numResults"`
}

type retrievalResponse struct {
	Documents []retrievedDocument `json:"documents"`
}

type retrievedDocument struct {
	Text              string `json:"text"`
	Source            string `json:"source"`
	SourceDisplayName string `json:"source_display_name"`
}

// NewVectorizeBackend reads credentials from the environment variables named
// in cfg. Every unset variable is reported in one error.
func NewVectorizeBackend(cfg config.VectorizeConfig, logger *zap.Logger) (*VectorizeBackend, error) {
	envVars := VectorizeEnvVars(cfg)

	values := make([]string, len(envVars))
	var missing []string
	for i, name := range envVars {
		values[i] = os.Getenv(name)
		if values[i] == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ", "))
	}

	return &VectorizeBackend{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      values[0],
		orgID:      values[1],
		pipelineID: values[2],
		envVars:    envVars,
		client:     &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logging.OrNop(logger),
	}, nil
}

// VectorizeEnvVars lists the variables NewVectorizeBackend reads, in order.
func VectorizeEnvVars(cfg config.VectorizeConfig) []string {
	return []string{cfg.TokenEnv, cfg.OrgIDEnv, cfg.PipelineIDEnv}
}

func (b *VectorizeBackend) RetrieveDocuments(query string, numResults int) ([]domain.Document, error) {
	body, err := json.Marshal(retrievalRequest{Question: query, NumResults: numResults})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/org/%s/pipelines/%s/retrieval", b.baseURL, b.orgID, b.pipelineID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", b.token)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("retrieval request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("retrieval failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed retrievalResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	docs := make([]domain.Document, 0, len(parsed.Documents))
	for _, d := range parsed.Documents {
		title := d.SourceDisplayName
		if title == "" {
			title = d.Source
		}
		docs = append(docs, domain.Document{Title: title, Content: d.Text})
	}

	b.logger.Debug("vectorize retrieval",
		zap.String("pipeline", b.pipelineID),
		zap.Int("documents", len(docs)),
	)
	return docs, nil
}

// RequiredEnvVars returns the token, organization and pipeline variable names.
func (b *VectorizeBackend) RequiredEnvVars() []string {
	out := make([]string, len(b.envVars))
	copy(out, b.envVars)
	return out
}
