// Package tree implements the structural operations over the folder/file
// hierarchy: creation, renaming, moving, deletion, listing, and path resolution.
// Uniqueness and acyclicity checks run inside the stor transactions; this service
// adds the naming policy and the content-store ordering around them.
package tree

import (
	"io"
	"strings"

	"github.com/apex/log"
	"github.com/cloudgoose/storage/pkg/cgdb/model"
	"github.com/cloudgoose/storage/pkg/cgdb/stor"
	"github.com/cloudgoose/storage/pkg/cstore"
	"github.com/cloudgoose/storage/pkg/lock"
	"github.com/hashicorp/go-uuid"
)

type Service struct {
	folders stor.FolderStor
	files   stor.FileStor
	links   stor.SharingLinkStor
	content cstore.Store

	// ownerLocks serializes multi-statement structural mutations per owner.
	ownerLocks *lock.IDLocker
}

func NewService(stors *stor.Stors, content cstore.Store) *Service {
	return &Service{
		folders:    stors.FolderStor,
		files:      stors.FileStor,
		links:      stors.SharingLinkStor,
		content:    content,
		ownerLocks: lock.NewIDLocker(),
	}
}

// FileUpload describes an incoming upload. OriginalName is the client-side file
// name; NameOverride, when set, replaces it subject to the extension policy.
type FileUpload struct {
	OriginalName string
	NameOverride string
	Content      io.Reader
}

// UploadFileName derives the stored name for an upload. Without an override the
// original name is used as-is. An override that doesn't already end with the
// original name's extension gets that extension appended, so overriding
// "report.pdf" with "q3" stores "q3.pdf".
func UploadFileName(override, originalName string) string {
	if override == "" {
		return originalName
	}

	idx := strings.LastIndex(originalName, ".")
	if idx == -1 {
		return override
	}

	ext := originalName[idx:]
	if strings.HasSuffix(override, ext) {
		return override
	}

	return override + ext
}

func (s *Service) CreateFolder(parent *model.Folder, owner *model.User, name string) (*model.Folder, error) {
	return s.folders.CreateFolder(parent.ID, owner.ID, name)
}

// CreateFile stores the upload's content and then creates the file metadata.
// Content is written first, under a fresh UUID, so a crash between the two steps
// leaves an orphaned content object rather than metadata pointing at nothing;
// orphans are cleaned up out of band. If the metadata insert fails (for example
// on a duplicate name) the just-written content is removed again.
func (s *Service) CreateFile(parent *model.Folder, owner *model.User, upload FileUpload) (*model.File, error) {
	name := UploadFileName(upload.NameOverride, upload.OriginalName)
	if name == "" {
		return nil, stor.ErrEmptyName
	}

	contentUUID, err := uuid.GenerateUUID()
	if err != nil {
		return nil, err
	}

	size, err := s.content.Write(contentUUID, upload.Content)
	if err != nil {
		return nil, err
	}

	file, err := s.files.CreateFile(parent.ID, owner.ID, name, contentUUID, size)
	if err != nil {
		if rmErr := s.content.Delete(contentUUID); rmErr != nil {
			log.Errorf("Unable to remove content %s after failed metadata create: %s", contentUUID, rmErr)
		}
		return nil, err
	}

	return file, nil
}

// RenameFile renames file to newBase with the original extension preserved:
// renaming "a.txt" to base "b" yields "b.txt", and a name without a dot is
// replaced wholesale.
func (s *Service) RenameFile(file *model.File, newBase string) error {
	if newBase == "" {
		return stor.ErrEmptyName
	}

	return s.files.RenameFile(file, newBase+file.Ext())
}

func (s *Service) RenameFolder(folder *model.Folder, name string) error {
	return s.folders.RenameFolder(folder, name)
}

func (s *Service) MoveFile(file *model.File, dest *model.Folder) error {
	return s.files.MoveFile(file, dest)
}

// MoveFolder reparents folder under dest. The owner lock keeps the cycle
// check's ancestor walk from racing another move of the same user's folders.
func (s *Service) MoveFolder(folder *model.Folder, dest *model.Folder) error {
	return s.ownerLocks.WithLock(folder.OwnerID, func() error {
		return s.folders.MoveFolder(folder, dest)
	})
}

// DeleteFile removes the file's metadata (cascading its sharing links) and then
// deletes its content object. The two steps are not atomic; a failed content
// delete is logged and left to the orphan sweep. The url ids of the removed
// links are returned so the caller can unregister them from the resource table.
func (s *Service) DeleteFile(file *model.File) ([]string, error) {
	links, err := s.links.ListSharingLinksForFile(file.ID)
	if err != nil {
		return nil, err
	}

	if err := s.files.DeleteFile(file); err != nil {
		return nil, err
	}

	if err := s.content.Delete(file.UUID); err != nil {
		log.Errorf("Unable to remove content %s for deleted file %d: %s", file.UUID, file.ID, err)
	}

	urlIDs := make([]string, 0, len(links))
	for _, link := range links {
		urlIDs = append(urlIDs, link.URLID)
	}

	return urlIDs, nil
}

// DeleteFolder deletes folder and everything beneath it, depth first. Root
// folders cannot be deleted. Returns the url ids of every sharing link removed
// in the cascade.
func (s *Service) DeleteFolder(folder *model.Folder) ([]string, error) {
	if folder.IsRoot() {
		return nil, stor.ErrInvalidInput
	}

	var urlIDs []string
	err := s.ownerLocks.WithLock(folder.OwnerID, func() error {
		removed, err := s.deleteFolderTree(folder)
		urlIDs = removed
		return err
	})

	return urlIDs, err
}

func (s *Service) deleteFolderTree(folder *model.Folder) ([]string, error) {
	var urlIDs []string

	subfolders, err := s.folders.ListFolders(folder.ID)
	if err != nil {
		return nil, err
	}

	for i := range subfolders {
		removed, err := s.deleteFolderTree(&subfolders[i])
		if err != nil {
			return nil, err
		}
		urlIDs = append(urlIDs, removed...)
	}

	files, err := s.files.ListFiles(folder.ID)
	if err != nil {
		return nil, err
	}

	for i := range files {
		removed, err := s.DeleteFile(&files[i])
		if err != nil {
			return nil, err
		}
		urlIDs = append(urlIDs, removed...)
	}

	if err := s.folders.DeleteFolder(folder); err != nil {
		return nil, err
	}

	return urlIDs, nil
}

func (s *Service) ListChildren(folder *model.Folder) ([]model.Folder, []model.File, error) {
	folders, err := s.folders.ListFolders(folder.ID)
	if err != nil {
		return nil, nil, err
	}

	files, err := s.files.ListFiles(folder.ID)
	if err != nil {
		return nil, nil, err
	}

	return folders, files, nil
}

func (s *Service) FindFolderByName(parent *model.Folder, name string) (*model.Folder, error) {
	return s.folders.GetFolderByName(parent.ID, name)
}

func (s *Service) FindFileByName(parent *model.Folder, name string) (*model.File, error) {
	return s.files.GetFileByName(parent.ID, name)
}

func (s *Service) ListFilesSorted(folder *model.Folder, sortBy stor.FileSort, descending bool) ([]model.File, error) {
	return s.files.ListFilesSorted(folder.ID, sortBy, descending)
}

func (s *Service) SearchFiles(folder *model.Folder, query string) ([]model.File, error) {
	return s.files.SearchFilesByName(folder.ID, query)
}

// ResolvePath walks parent references from folder up to root and returns the
// folder names from root to folder, root's own name first.
func (s *Service) ResolvePath(folder *model.Folder, root *model.Folder) ([]string, error) {
	var names []string

	current := folder
	for current.ID != root.ID {
		names = append(names, current.Name)

		if current.IsRoot() {
			// Hit a root that isn't the requested one; folder isn't under root.
			return nil, stor.ErrNotFound
		}

		parent, err := s.folders.GetFolderByID(current.ParentID)
		if err != nil {
			return nil, err
		}
		current = parent
	}

	names = append(names, root.Name)

	// Reverse into root-first order.
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}

	return names, nil
}
