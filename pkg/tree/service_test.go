package tree

import (
	"io"
	"strings"
	"testing"

	"github.com/cloudgoose/storage/pkg/cgdb/model"
	"github.com/cloudgoose/storage/pkg/cgdb/stor"
	"github.com/stretchr/testify/require"
)

func TestUploadFileName(t *testing.T) {
	var tests = []struct {
		name         string
		override     string
		originalName string
		expected     string
	}{
		{name: "no override keeps original", override: "", originalName: "report.pdf", expected: "report.pdf"},
		{name: "override gets original extension", override: "q3", originalName: "report.pdf", expected: "q3.pdf"},
		{name: "override already carrying the extension", override: "q3.pdf", originalName: "report.pdf", expected: "q3.pdf"},
		{name: "original without extension", override: "notes", originalName: "README", expected: "notes"},
		{name: "override with a different extension", override: "q3.txt", originalName: "report.pdf", expected: "q3.txt.pdf"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, UploadFileName(test.override, test.originalName))
		})
	}
}

func TestCreateFile(t *testing.T) {
	tc := newTestCase(t)
	user := tc.createUser("alice")
	root := user.RootFolder

	t.Run("writes content then metadata", func(t *testing.T) {
		file, err := tc.service.CreateFile(root, user, FileUpload{
			OriginalName: "hello.txt",
			Content:      strings.NewReader("hello world"),
		})
		require.NoError(t, err)
		require.Equal(t, "hello.txt", file.Name)
		require.Equal(t, int64(len("hello world")), file.Size)

		size, err := tc.content.Size(file.UUID)
		require.NoError(t, err)
		require.Equal(t, file.Size, size)

		r, err := tc.content.Read(file.UUID)
		require.NoError(t, err)
		defer r.Close()
		b, err := io.ReadAll(r)
		require.NoError(t, err)
		require.Equal(t, "hello world", string(b))
	})

	t.Run("name override applies extension policy", func(t *testing.T) {
		file, err := tc.service.CreateFile(root, user, FileUpload{
			OriginalName: "draft.doc",
			NameOverride: "final",
			Content:      strings.NewReader("x"),
		})
		require.NoError(t, err)
		require.Equal(t, "final.doc", file.Name)
	})

	t.Run("empty resolved name fails", func(t *testing.T) {
		_, err := tc.service.CreateFile(root, user, FileUpload{
			OriginalName: "",
			Content:      strings.NewReader("x"),
		})
		require.ErrorIs(t, err, stor.ErrEmptyName)
	})

	t.Run("duplicate name removes the written content again", func(t *testing.T) {
		file, err := tc.service.CreateFile(root, user, FileUpload{
			OriginalName: "hello.txt",
			Content:      strings.NewReader("second copy"),
		})
		require.ErrorIs(t, err, stor.ErrDuplicateName)
		require.Nil(t, file)

		// Only the original upload's content is left behind.
		existing, err := tc.stors.FileStor.GetFileByName(root.ID, "hello.txt")
		require.NoError(t, err)
		require.Equal(t, int64(len("hello world")), existing.Size)
	})
}

func TestRenameFile(t *testing.T) {
	tc := newTestCase(t)
	user := tc.createUser("alice")
	root := user.RootFolder

	withExt, err := tc.service.CreateFile(root, user, FileUpload{OriginalName: "a.txt", Content: strings.NewReader("a")})
	require.NoError(t, err)

	noExt, err := tc.service.CreateFile(root, user, FileUpload{OriginalName: "Makefile", Content: strings.NewReader("m")})
	require.NoError(t, err)

	t.Run("extension is preserved", func(t *testing.T) {
		require.NoError(t, tc.service.RenameFile(withExt, "b"))

		reloaded, err := tc.stors.FileStor.GetFileByID(withExt.ID)
		require.NoError(t, err)
		require.Equal(t, "b.txt", reloaded.Name)
	})

	t.Run("name without a dot is replaced wholesale", func(t *testing.T) {
		require.NoError(t, tc.service.RenameFile(noExt, "Rakefile"))

		reloaded, err := tc.stors.FileStor.GetFileByID(noExt.ID)
		require.NoError(t, err)
		require.Equal(t, "Rakefile", reloaded.Name)
	})

	t.Run("empty base rejected", func(t *testing.T) {
		require.ErrorIs(t, tc.service.RenameFile(withExt, ""), stor.ErrEmptyName)
	})
}

func TestResolvePath(t *testing.T) {
	tc := newTestCase(t)
	alice := tc.createUser("alice")
	bob := tc.createUser("bob")

	a := tc.createFolder(alice.RootFolder, alice, "A")
	b := tc.createFolder(a, alice, "B")

	t.Run("nested folder", func(t *testing.T) {
		names, err := tc.service.ResolvePath(b, alice.RootFolder)
		require.NoError(t, err)
		require.Equal(t, []string{model.RootFolderName, "A", "B"}, names)
	})

	t.Run("root resolves to itself", func(t *testing.T) {
		names, err := tc.service.ResolvePath(alice.RootFolder, alice.RootFolder)
		require.NoError(t, err)
		require.Equal(t, []string{model.RootFolderName}, names)
	})

	t.Run("folder under a different root", func(t *testing.T) {
		_, err := tc.service.ResolvePath(b, bob.RootFolder)
		require.ErrorIs(t, err, stor.ErrNotFound)
	})
}

func TestDeleteFile(t *testing.T) {
	tc := newTestCase(t)
	user := tc.createUser("alice")
	root := user.RootFolder

	file, err := tc.service.CreateFile(root, user, FileUpload{OriginalName: "shared.txt", Content: strings.NewReader("s")})
	require.NoError(t, err)

	_, err = tc.stors.SharingLinkStor.CreateSharingLink(file.ID, "link-token-00001")
	require.NoError(t, err)
	_, err = tc.stors.SharingLinkStor.CreateSharingLink(file.ID, "link-token-00002")
	require.NoError(t, err)

	urlIDs, err := tc.service.DeleteFile(file)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"link-token-00001", "link-token-00002"}, urlIDs)

	_, err = tc.stors.FileStor.GetFileByID(file.ID)
	require.ErrorIs(t, err, stor.ErrNotFound)

	_, err = tc.content.Size(file.UUID)
	require.Error(t, err)
}

func TestDeleteFolder(t *testing.T) {
	tc := newTestCase(t)
	user := tc.createUser("alice")
	root := user.RootFolder

	t.Run("root cannot be deleted", func(t *testing.T) {
		_, err := tc.service.DeleteFolder(root)
		require.ErrorIs(t, err, stor.ErrInvalidInput)
	})

	t.Run("cascade removes the subtree and reports its links", func(t *testing.T) {
		docs := tc.createFolder(root, user, "Docs")
		nested := tc.createFolder(docs, user, "Old")

		top, err := tc.service.CreateFile(docs, user, FileUpload{OriginalName: "top.txt", Content: strings.NewReader("t")})
		require.NoError(t, err)
		deep, err := tc.service.CreateFile(nested, user, FileUpload{OriginalName: "deep.txt", Content: strings.NewReader("d")})
		require.NoError(t, err)

		_, err = tc.stors.SharingLinkStor.CreateSharingLink(deep.ID, "cascade-token-01")
		require.NoError(t, err)

		urlIDs, err := tc.service.DeleteFolder(docs)
		require.NoError(t, err)
		require.Equal(t, []string{"cascade-token-01"}, urlIDs)

		for _, folderID := range []int{docs.ID, nested.ID} {
			_, err := tc.stors.FolderStor.GetFolderByID(folderID)
			require.ErrorIs(t, err, stor.ErrNotFound)
		}

		for _, f := range []*model.File{top, deep} {
			_, err := tc.stors.FileStor.GetFileByID(f.ID)
			require.ErrorIs(t, err, stor.ErrNotFound)
			_, err = tc.content.Size(f.UUID)
			require.Error(t, err)
		}
	})
}

func TestTreeScenario(t *testing.T) {
	tc := newTestCase(t)
	alice := tc.createUser("alice")
	root := alice.RootFolder

	docs := tc.createFolder(root, alice, "Docs")
	pics := tc.createFolder(root, alice, "Pics")

	report, err := tc.service.CreateFile(docs, alice, FileUpload{OriginalName: "report.pdf", Content: strings.NewReader("pdf bytes")})
	require.NoError(t, err)

	// Duplicate folder name in the same parent is rejected.
	_, err = tc.service.CreateFolder(root, alice, "Docs")
	require.ErrorIs(t, err, stor.ErrDuplicateName)

	// Moving a folder into its own subtree is rejected.
	sub := tc.createFolder(docs, alice, "Sub")
	require.ErrorIs(t, tc.service.MoveFolder(docs, sub), stor.ErrCycle)

	// Move the report over to Pics and list both sides.
	require.NoError(t, tc.service.MoveFile(report, pics))
	require.ErrorIs(t, tc.service.MoveFile(report, pics), stor.ErrSameFolder)

	_, docsFiles, err := tc.service.ListChildren(docs)
	require.NoError(t, err)
	require.Len(t, docsFiles, 0)

	_, picsFiles, err := tc.service.ListChildren(pics)
	require.NoError(t, err)
	require.Len(t, picsFiles, 1)
	require.Equal(t, "report.pdf", picsFiles[0].Name)

	// Search is case insensitive.
	found, err := tc.service.SearchFiles(pics, "REPORT")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "report.pdf", found[0].Name)
}
