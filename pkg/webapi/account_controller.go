package webapi

import (
	"net/http"

	"github.com/cloudgoose/storage/pkg/account"
	"github.com/labstack/echo/v4"
)

type AccountController struct {
	accounts *account.Service
}

func NewAccountController(accounts *account.Service) *AccountController {
	return &AccountController{accounts: accounts}
}

func (c *AccountController) CreateAccount(ctx echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	user, err := c.accounts.CreateAccount(req.Username, req.Password)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusCreated, user)
}

func (c *AccountController) Login(ctx echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	user, err := c.accounts.Authenticate(req.Username, req.Password)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, user)
}

func (c *AccountController) ChangePassword(ctx echo.Context) error {
	var req struct {
		NewPassword string `json:"new_password"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if err := c.accounts.ChangePassword(currentUser(ctx), req.NewPassword); err != nil {
		return toHTTPError(err)
	}

	return ctx.NoContent(http.StatusNoContent)
}
