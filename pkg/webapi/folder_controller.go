package webapi

import (
	"net/http"
	"strconv"

	"github.com/cloudgoose/storage/pkg/cgdb/model"
	"github.com/cloudgoose/storage/pkg/cgdb/stor"
	"github.com/cloudgoose/storage/pkg/linkreg"
	"github.com/cloudgoose/storage/pkg/tree"
	"github.com/labstack/echo/v4"
)

type FolderController struct {
	trees    *tree.Service
	folders  stor.FolderStor
	registry *linkreg.Registry
}

func NewFolderController(trees *tree.Service, folders stor.FolderStor, registry *linkreg.Registry) *FolderController {
	return &FolderController{trees: trees, folders: folders, registry: registry}
}

// folderForUser loads the folder in the :id param, scoped to the requesting
// user. Folders owned by someone else resolve as not found.
func (c *FolderController) folderForUser(ctx echo.Context) (*model.Folder, error) {
	folderID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid folder id")
	}

	folder, err := c.folders.GetFolderByID(folderID)
	if err != nil {
		return nil, toHTTPError(err)
	}

	if folder.OwnerID != currentUser(ctx).ID {
		return nil, echo.NewHTTPError(http.StatusNotFound, stor.ErrNotFound.Error())
	}

	return folder, nil
}

func (c *FolderController) CreateFolder(ctx echo.Context) error {
	var req struct {
		ParentID int    `json:"parent_id"`
		Name     string `json:"name"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	user := currentUser(ctx)

	parent, err := c.folders.GetFolderByID(req.ParentID)
	if err != nil {
		return toHTTPError(err)
	}

	if parent.OwnerID != user.ID {
		return echo.NewHTTPError(http.StatusNotFound, stor.ErrNotFound.Error())
	}

	folder, err := c.trees.CreateFolder(parent, user, req.Name)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusCreated, folder)
}

// GetFolder returns the folder with its children and its path from the user's
// root. Supports sort=name|size|type, order=asc|desc, and search=<query> for the
// file listing.
func (c *FolderController) GetFolder(ctx echo.Context) error {
	folder, err := c.folderForUser(ctx)
	if err != nil {
		return err
	}

	return c.respondWithListing(ctx, folder, currentUser(ctx))
}

func (c *FolderController) respondWithListing(ctx echo.Context, folder *model.Folder, user *model.User) error {
	subfolders, err := c.folders.ListFolders(folder.ID)
	if err != nil {
		return toHTTPError(err)
	}

	var files []model.File

	switch {
	case ctx.QueryParam("search") != "":
		files, err = c.trees.SearchFiles(folder, ctx.QueryParam("search"))
	default:
		sortBy := stor.FileSort(ctx.QueryParam("sort"))
		descending := ctx.QueryParam("order") == "desc"
		files, err = c.trees.ListFilesSorted(folder, sortBy, descending)
	}

	if err != nil {
		return toHTTPError(err)
	}

	root, err := c.folders.GetFolderByID(user.RootFolderID)
	if err != nil {
		return toHTTPError(err)
	}

	path, err := c.trees.ResolvePath(folder, root)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"folder":  folder,
		"path":    path,
		"folders": subfolders,
		"files":   files,
	})
}

func (c *FolderController) RenameFolder(ctx echo.Context) error {
	folder, err := c.folderForUser(ctx)
	if err != nil {
		return err
	}

	var req struct {
		Name string `json:"name"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if err := c.trees.RenameFolder(folder, req.Name); err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, folder)
}

func (c *FolderController) MoveFolder(ctx echo.Context) error {
	folder, err := c.folderForUser(ctx)
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

	if err := c.trees.MoveFolder(folder, dest); err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, folder)
}

func (c *FolderController) DeleteFolder(ctx echo.Context) error {
	folder, err := c.folderForUser(ctx)
	if err != nil {
		return err
	}

	removedURLIDs, err := c.trees.DeleteFolder(folder)
	if err != nil {
		return toHTTPError(err)
	}

	c.registry.Unregister(removedURLIDs)

	return ctx.NoContent(http.StatusNoContent)
}
