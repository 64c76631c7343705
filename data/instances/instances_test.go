package instances

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gomlx/go-deepqa/data/indexer"
)

func indexerNew() *indexer.DataIndexer { return indexer.New() }

// fittedIndexer counts the words of the given instances and returns a
// finalized indexer over them.
func fittedIndexer(t *testing.T, instances ...TextInstance) *indexer.DataIndexer {
	t.Helper()
	d := indexer.New()
	for _, instance := range instances {
		require.NoError(t, d.CountWords(instance.Words()))
	}
	require.NoError(t, d.Fit(1))
	return d
}
