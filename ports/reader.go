package ports

import (
	"context"

	"lizardflip/domain/flip"
)

// TrialReaderPort loads trial outcomes from an external data source
type TrialReaderPort interface {
	// ReadTrials reads the named column from the source and maps its values
	// to outcomes. An empty column selects the first column.
	ReadTrials(ctx context.Context, path, column string) (flip.TrialSequence, error)
}
