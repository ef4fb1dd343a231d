package history

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndList(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Record("sig1", "treasury-team", "prop1", KindPropose, "Pay invoice"))
	require.NoError(t, db.Record("sig2", "treasury-team", "prop1", KindVote, "approve"))
	require.NoError(t, db.Record("sig3", "other-team", "", KindCreate, ""))

	all, err := db.List("", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)

	// Newest first.
	require.Equal(t, "sig3", all[0].Signature)
	require.Equal(t, "sig1", all[2].Signature)
	require.Equal(t, KindPropose, all[2].Kind)
	require.Equal(t, "prop1", all[2].Proposal)
}

func TestListFilterAndLimit(t *testing.T) {
	db := openTestDB(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, db.Record(fmt.Sprintf("sig%d", i), "treasury-team", "", KindVote, ""))
	}
	require.NoError(t, db.Record("other", "other-team", "", KindVote, ""))

	filtered, err := db.List("treasury-team", 0)
	require.NoError(t, err)
	require.Len(t, filtered, 5)

	limited, err := db.List("treasury-team", 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)

	none, err := db.List("unknown", 0)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestRecordDuplicateSignature(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Record("sig1", "treasury-team", "", KindCreate, ""))
	require.NoError(t, db.Record("sig1", "treasury-team", "", KindCreate, ""))

	all, err := db.List("", 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
}
