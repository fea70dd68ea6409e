package datatransfer

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
)

// Preview renders a unified diff between the current production data and the
// snapshot about to be imported, ie. what a full-overwrite import would
// change. An empty string means the import is a no-op.
func (s *Service) Preview(ctx context.Context, env *Envelope) (string, error) {
	current, err := s.Export(ctx, SchemaProduction)
	if err != nil {
		return "", err
	}

	a, err := marshalSnapshot(&current.Snapshot)
	if err != nil {
		return "", err
	}
	b, err := marshalSnapshot(&env.Snapshot)
	if err != nil {
		return "", err
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: "production",
		ToFile:   "snapshot " + env.ID,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}

func marshalSnapshot(snap *Snapshot) (string, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "datatransfer: encoding snapshot for diff")
	}
	return string(data) + "\n", nil
}
