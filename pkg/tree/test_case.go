package tree

import (
	"testing"

	"github.com/cloudgoose/storage/pkg/cgdb/model"
	"github.com/cloudgoose/storage/pkg/cgdb/stor"
	"github.com/cloudgoose/storage/pkg/cstore"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	*testing.T
	stors   *stor.Stors
	content *cstore.FSStore
	service *Service
}

func newTestCase(t *testing.T) *testCase {
	db := stor.NewTestDB(t)
	stors := stor.NewGormStors(db)
	content := cstore.NewFSStore(t.TempDir())

	return &testCase{
		T:       t,
		stors:   stors,
		content: content,
		service: NewService(stors, content),
	}
}

func (tc *testCase) createUser(username string) *model.User {
	user, err := tc.stors.UserStor.CreateUserWithRoot(username, "test-hash")
	require.NoErrorf(tc.T, err, "Failed creating user %s: %s", username, err)
	require.NotNil(tc.T, user.RootFolder)

	return user
}

func (tc *testCase) createFolder(parent *model.Folder, owner *model.User, name string) *model.Folder {
	folder, err := tc.service.CreateFolder(parent, owner, name)
	require.NoErrorf(tc.T, err, "Failed creating folder %s: %s", name, err)

	return folder
}
