package webapi

import (
	"errors"

	"github.com/cloudgoose/storage/pkg/account"
	"github.com/cloudgoose/storage/pkg/cgdb/model"
	"github.com/cloudgoose/storage/pkg/cgdb/stor"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const userContextKey = "user"

// BasicAuthMiddleware authenticates API requests against the account service and
// stores the user on the echo context.
func BasicAuthMiddleware(accounts *account.Service) echo.MiddlewareFunc {
	return middleware.BasicAuth(func(username, password string, c echo.Context) (bool, error) {
		user, err := accounts.Authenticate(username, password)
		if err != nil {
			if errors.Is(err, stor.ErrInvalidCredentials) {
				return false, nil
			}
			return false, err
		}

		c.Set(userContextKey, user)
		return true, nil
	})
}

func currentUser(c echo.Context) *model.User {
	user, _ := c.Get(userContextKey).(*model.User)
	return user
}
