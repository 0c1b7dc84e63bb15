package webapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/cloudgoose/storage/pkg/cgdb/model"
	"github.com/cloudgoose/storage/pkg/cgdb/stor"
	"github.com/cloudgoose/storage/pkg/cstore"
	"github.com/cloudgoose/storage/pkg/linkreg"
	"github.com/cloudgoose/storage/pkg/tree"
	"github.com/labstack/echo/v4"
)

type FileController struct {
	trees    *tree.Service
	folders  stor.FolderStor
	files    stor.FileStor
	content  cstore.Store
	registry *linkreg.Registry
}

func NewFileController(trees *tree.Service, stors *stor.Stors, content cstore.Store, registry *linkreg.Registry) *FileController {
	return &FileController{
		trees:    trees,
		folders:  stors.FolderStor,
		files:    stors.FileStor,
		content:  content,
		registry: registry,
	}
}

func (c *FileController) fileForUser(ctx echo.Context) (*model.File, error) {
	fileID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid file id")
	}

	file, err := c.files.GetFileByID(fileID)
	if err != nil {
		return nil, toHTTPError(err)
	}

	if file.OwnerID != currentUser(ctx).ID {
		return nil, echo.NewHTTPError(http.StatusNotFound, stor.ErrNotFound.Error())
	}

	return file, nil
}

// UploadFile accepts a multipart upload: the "file" part carries the content,
// "folder_id" the destination, and the optional "name" part overrides the stored
// name subject to the extension policy.
func (c *FileController) UploadFile(ctx echo.Context) error {
	user := currentUser(ctx)

	folderID, err := strconv.Atoi(ctx.FormValue("folder_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid folder id")
	}

	parent, err := c.folders.GetFolderByID(folderID)
	if err != nil {
		return toHTTPError(err)
	}

	if parent.OwnerID != user.ID {
		return echo.NewHTTPError(http.StatusNotFound, stor.ErrNotFound.Error())
	}

	formFile, err := ctx.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no file in request")
	}

	src, err := formFile.Open()
	if err != nil {
		return toHTTPError(err)
	}
	defer src.Close()

	file, err := c.trees.CreateFile(parent, user, tree.FileUpload{
		OriginalName: formFile.Filename,
		NameOverride: ctx.FormValue("name"),
		Content:      src,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusCreated, file)
}

func (c *FileController) RenameFile(ctx echo.Context) error {
	file, err := c.fileForUser(ctx)
	if err != nil {
		return err
	}

	var req struct {
		Name string `json:"name"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if err := c.trees.RenameFile(file, req.Name); err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, file)
}

func (c *FileController) MoveFile(ctx echo.Context) error {
	file, err := c.fileForUser(ctx)
	if err != nil {
		return err
	}

	var req struct {
		DestinationID int `json:"destination_id"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	dest, err := c.folders.GetFolderByID(req.DestinationID)
	if err != nil {
		return toHTTPError(err)
	}

	if dest.OwnerID != currentUser(ctx).ID {
		return echo.NewHTTPError(http.StatusNotFound, stor.ErrNotFound.Error())
	}

	if err := c.trees.MoveFile(file, dest); err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, file)
}

func (c *FileController) DeleteFile(ctx echo.Context) error {
	file, err := c.fileForUser(ctx)
	if err != nil {
		return err
	}

	removedURLIDs, err := c.trees.DeleteFile(file)
	if err != nil {
		return toHTTPError(err)
	}

	c.registry.Unregister(removedURLIDs)

	return ctx.NoContent(http.StatusNoContent)
}

// DownloadFile streams the file's content to its owner.
func (c *FileController) DownloadFile(ctx echo.Context) error {
	file, err := c.fileForUser(ctx)
	if err != nil {
		return err
	}

	return streamFileContent(ctx, c.content, file)
}

// streamFileContent serves content as a generic download. Everything goes out
// as application/octet-stream; mime types aren't tracked.
func streamFileContent(ctx echo.Context, content cstore.Store, file *model.File) error {
	rc, err := content.Read(file.UUID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, stor.ErrNotFound.Error())
	}
	defer rc.Close()

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, file.Name))

	return ctx.Stream(http.StatusOK, echo.MIMEOctetStream, rc)
}
