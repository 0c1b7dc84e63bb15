package webapi

import (
	"net/http"
	"strconv"

	"github.com/cloudgoose/storage/pkg/cgdb/stor"
	"github.com/cloudgoose/storage/pkg/cstore"
	"github.com/cloudgoose/storage/pkg/linkreg"
	"github.com/labstack/echo/v4"
)

type ShareController struct {
	files    stor.FileStor
	links    stor.SharingLinkStor
	registry *linkreg.Registry
	content  cstore.Store
}

func NewShareController(stors *stor.Stors, registry *linkreg.Registry, content cstore.Store) *ShareController {
	return &ShareController{
		files:    stors.FileStor,
		links:    stors.SharingLinkStor,
		registry: registry,
		content:  content,
	}
}

// CreateLink issues a sharing link for one of the user's files and returns the
// url id; the link is reachable as soon as this returns.
func (c *ShareController) CreateLink(ctx echo.Context) error {
	fileID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid file id")
	}

	file, err := c.files.GetFileByID(fileID)
	if err != nil {
		return toHTTPError(err)
	}

	if file.OwnerID != currentUser(ctx).ID {
		return echo.NewHTTPError(http.StatusNotFound, stor.ErrNotFound.Error())
	}

	urlID, err := c.registry.CreateLink(file)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusCreated, echo.Map{"url_id": urlID})
}

func (c *ShareController) RevokeLink(ctx echo.Context) error {
	urlID := ctx.Param("urlID")

	link, err := c.links.GetSharingLinkByURLID(urlID)
	if err != nil {
		return toHTTPError(err)
	}

	if link.File == nil || link.File.OwnerID != currentUser(ctx).ID {
		return echo.NewHTTPError(http.StatusNotFound, stor.ErrNotFound.Error())
	}

	if err := c.registry.RevokeLink(link); err != nil {
		return toHTTPError(err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ResolveLink is the public download endpoint. Tokens resolve through the
// resource table, not the database, so only registered links are reachable.
func (c *ShareController) ResolveLink(ctx echo.Context) error {
	file, ok := c.registry.Resolve(ctx.Param("urlID"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, stor.ErrNotFound.Error())
	}

	// Re-read the metadata so the suggested name reflects any rename since
	// the token was registered.
	current, err := c.files.GetFileByID(file.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, stor.ErrNotFound.Error())
	}

	return streamFileContent(ctx, c.content, current)
}
