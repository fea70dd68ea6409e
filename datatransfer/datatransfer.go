// Package datatransfer drives the administrative export/import/backup flows
// against the backend /data-transfer API. Snapshots move between the "temp"
// (sandboxed) and "production" schemas; all merging happens server side, the
// client validates, previews and uploads.
package datatransfer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/epistula/epistula-go/client"
)

type Schema string

const (
	SchemaTemp       Schema = "temp"
	SchemaProduction Schema = "production"
)

// Strategy is the per-row import behavior.
type Strategy string

const (
	StrategySkip      Strategy = "skip"
	StrategyOverwrite Strategy = "overwrite"
	StrategyMerge     Strategy = "merge"
)

func (s Strategy) Valid() bool {
	switch s {
	case StrategySkip, StrategyOverwrite, StrategyMerge:
		return true
	}
	return false
}

type (
	LectureRow struct {
		Title   string `json:"title" validate:"required,notblank"`
		Content string `json:"content,omitempty"`
	}

	SubjectRow struct {
		Name     string       `json:"name" validate:"required,notblank"`
		Code     string       `json:"code,omitempty"`
		Semester int          `json:"semester,omitempty" validate:"omitempty,min=1,max=12"`
		Lectures []LectureRow `json:"lectures,omitempty" validate:"omitempty,dive"`
	}

	FacultyRow struct {
		Name     string       `json:"name" validate:"required,notblank"`
		Subjects []SubjectRow `json:"subjects,omitempty" validate:"omitempty,dive"`
	}

	UniversityRow struct {
		Name      string       `json:"name" validate:"required,notblank"`
		Domain    string       `json:"domain,omitempty"`
		Faculties []FacultyRow `json:"faculties,omitempty" validate:"omitempty,dive"`
	}

	UserRow struct {
		Name     string   `json:"name" validate:"required,notblank"`
		Username string   `json:"username,omitempty" validate:"omitempty,min=6,alphanum"`
		Email    string   `json:"email" validate:"required,email"`
		Roles    []string `json:"roles,omitempty" validate:"omitempty,allroles"`
	}

	Snapshot struct {
		Universities []UniversityRow `json:"universities" validate:"omitempty,dive"`
		Users        []UserRow       `json:"users" validate:"omitempty,dive"`
	}

	// Envelope wraps a snapshot on disk with enough metadata to know where
	// and when it came from.
	Envelope struct {
		ID        string    `json:"id"`
		CreatedAt time.Time `json:"created_at"` // UTC
		Schema    Schema    `json:"schema"`
		Snapshot  Snapshot  `json:"snapshot"`
	}

	// ImportReport is the backend's account of what an import did.
	ImportReport struct {
		Created int         `json:"created"`
		Updated int         `json:"updated"`
		Skipped int         `json:"skipped"`
		Failed  int         `json:"failed"`
		Errors  []RowError  `json:"errors,omitempty"`
	}

	RowError struct {
		Row    string `json:"row"` // eg. "university:MIT" or "user:alice@x.edu"
		Detail string `json:"detail"`
	}

	importRequest struct {
		Schema          Schema              `json:"schema"`
		DefaultStrategy Strategy            `json:"default_strategy"`
		Strategies      map[string]Strategy `json:"strategies,omitempty"` // row key -> strategy
		Snapshot        Snapshot            `json:"snapshot"`
	}

	Service struct {
		c *client.Client
	}
)

func NewService(c *client.Client) *Service {
	return &Service{c: c}
}

// Export downloads a snapshot of the given schema. Exports are always fresh,
// never served from the response cache.
func (s *Service) Export(ctx context.Context, schema Schema) (*Envelope, error) {
	var snap Snapshot
	endpoint := fmt.Sprintf("/data-transfer/export?schema=%s", schema)
	if err := s.c.Do(ctx, http.MethodGet, endpoint, nil, &snap, &client.ReqOptions{SkipCache: true}); err != nil {
		return nil, err
	}
	return &Envelope{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Schema:    schema,
		Snapshot:  snap,
	}, nil
}

// Import validates the snapshot and uploads it with per-row strategies.
// Validation failures abort before anything is sent.
func (s *Service) Import(ctx context.Context, env *Envelope, schema Schema, defaultStrategy Strategy, strategies map[string]Strategy) (*ImportReport, error) {
	if !defaultStrategy.Valid() {
		return nil, errors.Errorf("datatransfer: invalid strategy %q", defaultStrategy)
	}
	for row, strat := range strategies {
		if !strat.Valid() {
			return nil, errors.Errorf("datatransfer: invalid strategy %q for row %q", strat, row)
		}
	}
	if err := Validate(&env.Snapshot); err != nil {
		return nil, err
	}

	req := importRequest{
		Schema:          schema,
		DefaultStrategy: defaultStrategy,
		Strategies:      strategies,
		Snapshot:        env.Snapshot,
	}
	var report ImportReport
	if err := s.c.Do(ctx, http.MethodPost, "/data-transfer/import", req, &report, nil); err != nil {
		return nil, err
	}
	// imported rows make every cached listing stale
	if err := s.c.InvalidateCache(); err != nil {
		return nil, err
	}
	return &report, nil
}

// Backup exports the production schema into a timestamped file under dir.
func (s *Service) Backup(ctx context.Context, dir string) (string, error) {
	env, err := s.Export(ctx, SchemaProduction)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", errors.Wrap(err, "datatransfer: creating backup dir")
	}
	path := filepath.Join(dir, fmt.Sprintf("epistula-backup-%s.json", env.CreatedAt.Format("20060102-150405")))
	if err := WriteFile(path, env); err != nil {
		return "", err
	}
	return path, nil
}

// WriteFile stores an envelope as indented JSON.
func WriteFile(path string, env *Envelope) error {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return errors.Wrap(err, "datatransfer: encoding snapshot")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(err, "datatransfer: writing snapshot file")
	}
	return nil
}

// ReadFile loads an envelope back, rejecting files that do not look like one.
func ReadFile(path string) (*Envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "datatransfer: reading snapshot file")
	}
	env := new(Envelope)
	if err := json.Unmarshal(data, env); err != nil {
		return nil, errors.Wrap(err, "datatransfer: decoding snapshot file")
	}
	if env.ID == "" || env.Schema == "" {
		return nil, errors.Errorf("datatransfer: %s is not a snapshot file", path)
	}
	return env, nil
}
