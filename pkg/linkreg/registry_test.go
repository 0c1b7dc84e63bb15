package linkreg

import (
	"testing"

	"github.com/cloudgoose/storage/pkg/cgdb/model"
	"github.com/cloudgoose/storage/pkg/cgdb/stor"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	*testing.T
	stors    *stor.Stors
	table    *MemTable
	registry *Registry
}

func newTestCase(t *testing.T) *testCase {
	db := stor.NewTestDB(t)
	stors := stor.NewGormStors(db)
	table := NewMemTable()

	return &testCase{
		T:        t,
		stors:    stors,
		table:    table,
		registry: NewRegistry(stors.SharingLinkStor, table),
	}
}

func (tc *testCase) createFile(name string) *model.File {
	user, err := tc.stors.UserStor.CreateUserWithRoot("owner-"+name, "test-hash")
	require.NoErrorf(tc.T, err, "Failed creating owner for %s: %s", name, err)

	file, err := tc.stors.FileStor.CreateFile(user.RootFolderID, user.ID, name, "uuid-"+name, 1)
	require.NoErrorf(tc.T, err, "Failed creating file %s: %s", name, err)

	return file
}

func TestCreateLink(t *testing.T) {
	tc := newTestCase(t)
	file := tc.createFile("a.txt")

	urlID, err := tc.registry.CreateLink(file)
	require.NoError(t, err)
	require.Len(t, urlID, urlIDLength)

	// The token resolves, and a row backs it.
	resolved, ok := tc.registry.Resolve(urlID)
	require.True(t, ok)
	require.Equal(t, file.ID, resolved.ID)

	link, err := tc.stors.SharingLinkStor.GetSharingLinkByURLID(urlID)
	require.NoError(t, err)
	require.Equal(t, file.ID, link.FileID)

	// A second link for the same file is a fresh, independent token.
	second, err := tc.registry.CreateLink(file)
	require.NoError(t, err)
	require.NotEqual(t, urlID, second)

	links, err := tc.stors.SharingLinkStor.ListSharingLinksForFile(file.ID)
	require.NoError(t, err)
	require.Len(t, links, 2)
}

func TestRevokeLink(t *testing.T) {
	tc := newTestCase(t)
	file := tc.createFile("a.txt")

	urlID, err := tc.registry.CreateLink(file)
	require.NoError(t, err)

	require.NoError(t, tc.registry.RevokeByURLID(urlID))

	_, ok := tc.registry.Resolve(urlID)
	require.False(t, ok)

	_, err = tc.stors.SharingLinkStor.GetSharingLinkByURLID(urlID)
	require.ErrorIs(t, err, stor.ErrNotFound)

	t.Run("revoking an unknown token", func(t *testing.T) {
		require.ErrorIs(t, tc.registry.RevokeByURLID("no-such-token-00"), stor.ErrNotFound)
	})
}

func TestRegisterAll(t *testing.T) {
	tc := newTestCase(t)
	a := tc.createFile("a.txt")
	b := tc.createFile("b.txt")

	urlA, err := tc.registry.CreateLink(a)
	require.NoError(t, err)
	urlB, err := tc.registry.CreateLink(b)
	require.NoError(t, err)

	// Simulate a restart: a fresh registry over the same rows.
	restarted := NewRegistry(tc.stors.SharingLinkStor, NewMemTable())

	_, ok := restarted.Resolve(urlA)
	require.False(t, ok)

	n, err := restarted.RegisterAll()
	require.NoError(t, err)
	require.Equal(t, 2, n)

	for urlID, file := range map[string]*model.File{urlA: a, urlB: b} {
		resolved, ok := restarted.Resolve(urlID)
		require.True(t, ok)
		require.Equal(t, file.ID, resolved.ID)
	}

	t.Run("orphaned links are not counted", func(t *testing.T) {
		_, err := tc.stors.SharingLinkStor.CreateSharingLink(999999, "orphan-token-001")
		require.NoError(t, err)

		again := NewRegistry(tc.stors.SharingLinkStor, NewMemTable())
		n, err := again.RegisterAll()
		require.NoError(t, err)
		require.Equal(t, 2, n)

		_, ok := again.Resolve("orphan-token-001")
		require.False(t, ok)
	})
}

func TestUnregister(t *testing.T) {
	tc := newTestCase(t)
	file := tc.createFile("a.txt")

	urlID, err := tc.registry.CreateLink(file)
	require.NoError(t, err)

	tc.registry.Unregister([]string{urlID})

	_, ok := tc.registry.Resolve(urlID)
	require.False(t, ok)
}

func TestMemTable(t *testing.T) {
	table := NewMemTable()
	a := &model.File{ID: 1, Name: "a.txt"}
	b := &model.File{ID: 2, Name: "b.txt"}

	table.Register("token-a", a)
	table.Register("token-b", b)

	resolved, ok := table.Resolve("token-a")
	require.True(t, ok)
	require.Equal(t, a.ID, resolved.ID)

	t.Run("colliding registration keeps the first binding", func(t *testing.T) {
		table.Register("token-a", b)
		resolved, ok := table.Resolve("token-a")
		require.True(t, ok)
		require.Equal(t, a.ID, resolved.ID)
	})

	t.Run("unregister is idempotent", func(t *testing.T) {
		table.Unregister("token-b")
		table.Unregister("token-b")
		_, ok := table.Resolve("token-b")
		require.False(t, ok)
	})
}
