package cmd

import (
	"github.com/cloudgoose/storage/pkg/account"
	"github.com/cloudgoose/storage/pkg/cgdb/stor"
	"github.com/cloudgoose/storage/pkg/cstore"
	"github.com/cloudgoose/storage/pkg/linkreg"
	"github.com/cloudgoose/storage/pkg/tree"
	"github.com/cloudgoose/storage/pkg/webapi"
	"github.com/labstack/echo/v4"
)

type RouteOpts struct {
	accounts *account.Service
	trees    *tree.Service
	stors    *stor.Stors
	content  cstore.Store
	registry *linkreg.Registry
}

func setupRoutes(e *echo.Echo, opts RouteOpts) {
	accountController := webapi.NewAccountController(opts.accounts)
	folderController := webapi.NewFolderController(opts.trees, opts.stors.FolderStor, opts.registry)
	fileController := webapi.NewFileController(opts.trees, opts.stors, opts.content, opts.registry)
	shareController := webapi.NewShareController(opts.stors, opts.registry, opts.content)

	// Public surface: account creation, login, and sharing-link downloads.
	e.POST("/api/accounts", accountController.CreateAccount)
	e.POST("/api/login", accountController.Login)
	e.GET("/s/:urlID", shareController.ResolveLink)

	g := e.Group("/api", webapi.BasicAuthMiddleware(opts.accounts))

	g.PUT("/accounts/password", accountController.ChangePassword)

	g.POST("/folders", folderController.CreateFolder)
	g.GET("/folders/:id", folderController.GetFolder)
	g.PUT("/folders/:id/name", folderController.RenameFolder)
	g.PUT("/folders/:id/parent", folderController.MoveFolder)
	g.DELETE("/folders/:id", folderController.DeleteFolder)

	g.POST("/files", fileController.UploadFile)
	g.GET("/files/:id/content", fileController.DownloadFile)
	g.PUT("/files/:id/name", fileController.RenameFile)
	g.PUT("/files/:id/parent", fileController.MoveFile)
	g.DELETE("/files/:id", fileController.DeleteFile)

	g.POST("/files/:id/links", shareController.CreateLink)
	g.DELETE("/links/:urlID", shareController.RevokeLink)
}
