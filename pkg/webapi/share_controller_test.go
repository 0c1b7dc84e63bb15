package webapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/cloudgoose/storage/pkg/cgdb/model"
	"github.com/cloudgoose/storage/pkg/cgdb/stor"
	"github.com/cloudgoose/storage/pkg/cstore"
	"github.com/cloudgoose/storage/pkg/linkreg"
	"github.com/cloudgoose/storage/pkg/tree"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	*testing.T
	e        *echo.Echo
	stors    *stor.Stors
	trees    *tree.Service
	content  *cstore.FSStore
	registry *linkreg.Registry
}

func newTestCase(t *testing.T) *testCase {
	db := stor.NewTestDB(t)
	stors := stor.NewGormStors(db)
	content := cstore.NewFSStore(t.TempDir())

	return &testCase{
		T:        t,
		e:        echo.New(),
		stors:    stors,
		trees:    tree.NewService(stors, content),
		content:  content,
		registry: linkreg.NewRegistry(stors.SharingLinkStor, linkreg.NewMemTable()),
	}
}

func (tc *testCase) createUser(username string) *model.User {
	user, err := tc.stors.UserStor.CreateUserWithRoot(username, "test-hash")
	require.NoErrorf(tc.T, err, "Failed creating user %s: %s", username, err)

	return user
}

func (tc *testCase) createFile(user *model.User, name, body string) *model.File {
	file, err := tc.trees.CreateFile(user.RootFolder, user, tree.FileUpload{
		OriginalName: name,
		Content:      strings.NewReader(body),
	})
	require.NoErrorf(tc.T, err, "Failed creating file %s: %s", name, err)

	return file
}

// newContext builds an echo context for req with the path params set and, when
// user is non-nil, the auth middleware's context entry filled in.
func (tc *testCase) newContext(req *http.Request, user *model.User, paramNames []string, paramValues []string) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := tc.e.NewContext(req, rec)
	c.SetParamNames(paramNames...)
	c.SetParamValues(paramValues...)
	if user != nil {
		c.Set(userContextKey, user)
	}

	return c, rec
}

func TestShareControllerCreateLink(t *testing.T) {
	tc := newTestCase(t)
	controller := NewShareController(tc.stors, tc.registry, tc.content)

	alice := tc.createUser("alice")
	bob := tc.createUser("bob")
	file := tc.createFile(alice, "report.pdf", "pdf bytes")

	t.Run("owner can create a link", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		c, rec := tc.newContext(req, alice, []string{"id"}, []string{strconv.Itoa(file.ID)})

		require.NoError(t, controller.CreateLink(c))
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			URLID string `json:"url_id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.URLID, 15)

		resolved, ok := tc.registry.Resolve(resp.URLID)
		require.True(t, ok)
		require.Equal(t, file.ID, resolved.ID)
	})

	t.Run("someone else's file looks like it doesn't exist", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		c, _ := tc.newContext(req, bob, []string{"id"}, []string{strconv.Itoa(file.ID)})

		err := controller.CreateLink(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		require.Equal(t, http.StatusNotFound, httpErr.Code)
	})

	t.Run("bad file id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		c, _ := tc.newContext(req, alice, []string{"id"}, []string{"nope"})

		err := controller.CreateLink(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		require.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestShareControllerResolveLink(t *testing.T) {
	tc := newTestCase(t)
	controller := NewShareController(tc.stors, tc.registry, tc.content)

	alice := tc.createUser("alice")
	file := tc.createFile(alice, "report.pdf", "pdf bytes")

	urlID, err := tc.registry.CreateLink(file)
	require.NoError(t, err)

	t.Run("streams content without auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c, rec := tc.newContext(req, nil, []string{"urlID"}, []string{urlID})

		require.NoError(t, controller.ResolveLink(c))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "pdf bytes", rec.Body.String())
		require.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), `"report.pdf"`)
	})

	t.Run("suggested name follows a rename", func(t *testing.T) {
		require.NoError(t, tc.trees.RenameFile(file, "q3"))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c, rec := tc.newContext(req, nil, []string{"urlID"}, []string{urlID})

		require.NoError(t, controller.ResolveLink(c))
		require.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), `"q3.pdf"`)
	})

	t.Run("unknown token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c, _ := tc.newContext(req, nil, []string{"urlID"}, []string{"unknown-token-00"})

		err := controller.ResolveLink(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		require.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}

func TestShareControllerRevokeLink(t *testing.T) {
	tc := newTestCase(t)
	controller := NewShareController(tc.stors, tc.registry, tc.content)

	alice := tc.createUser("alice")
	bob := tc.createUser("bob")
	file := tc.createFile(alice, "report.pdf", "pdf bytes")

	urlID, err := tc.registry.CreateLink(file)
	require.NoError(t, err)

	t.Run("non-owner cannot revoke", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		c, _ := tc.newContext(req, bob, []string{"urlID"}, []string{urlID})

		err := controller.RevokeLink(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		require.Equal(t, http.StatusNotFound, httpErr.Code)

		_, ok := tc.registry.Resolve(urlID)
		require.True(t, ok)
	})

	t.Run("owner revokes and the token stops resolving", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		c, rec := tc.newContext(req, alice, []string{"urlID"}, []string{urlID})

		require.NoError(t, controller.RevokeLink(c))
		require.Equal(t, http.StatusNoContent, rec.Code)

		_, ok := tc.registry.Resolve(urlID)
		require.False(t, ok)
	})
}
