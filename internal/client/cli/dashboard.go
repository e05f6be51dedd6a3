package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophsession/internal/client/client"
	"github.com/dmitrijs2005/gophsession/internal/client/guard"
	"github.com/dmitrijs2005/gophsession/internal/client/models"
	"github.com/dmitrijs2005/gophsession/internal/filex"
)

// errNotAllowed is returned by protected commands the guard did not allow.
var errNotAllowed = errors.New("view not allowed")

// Home goes to the public home view.
func (a *App) Home(ctx context.Context) error {
	a.guard.Enter(pathHome)
	return nil
}

// Dashboard requests the protected dashboard and lists the other users when it
// opens. While the session is loading the guard waits and shows it once the
// check resolves.
func (a *App) Dashboard(ctx context.Context) error {
	if d := a.guard.Enter(pathDashboard); d.Verdict == guard.Allow {
		_ = a.Users(ctx)
	}
	return nil
}

// Users prints every registered user except the current one.
func (a *App) Users(ctx context.Context) error {
	return a.protected(ctx, func(ctx context.Context) error {
		users, err := a.client.ListUsers(ctx)
		if err != nil {
			return err
		}

		self := a.machine.Current().User
		others := models.UserList{Users: users}.Without(self.UserID)
		if len(others) == 0 {
			a.println("No other users yet.")
			return nil
		}
		a.println("Other users:")
		for _, u := range others {
			a.println(" -", u.Username)
		}
		return nil
	})
}

// Image downloads a random image into the configured download directory.
func (a *App) Image(ctx context.Context) error {
	return a.protected(ctx, func(ctx context.Context) error {
		img, err := a.client.RandomImage(ctx)
		if err != nil {
			return err
		}

		path, err := filex.WriteUnique(a.config.DownloadDir, img.Extension(), img.Data)
		if err != nil {
			a.println("Could not save the image:", err)
			return err
		}
		a.println("Image saved to", path)
		return nil
	})
}

// protected runs fn on the dashboard if the guard allows it. A missing
// session reported by the server clears the local one, which sends the user
// home.
func (a *App) protected(ctx context.Context, fn func(ctx context.Context) error) error {
	if a.currentPath() != pathDashboard {
		if d := a.guard.Enter(pathDashboard); d.Verdict != guard.Allow {
			if d.Verdict == guard.Redirect {
				a.println("Please log in first.")
			}
			return errNotAllowed
		}
	}

	err := fn(ctx)
	switch {
	case err == nil:
		return nil
	case a.machine.Invalidate(ctx, err):
		a.println("Your session has expired. Please log in again.")
	case errors.Is(err, client.ErrUnavailable):
		a.println("The server is unavailable, try again later.")
	default:
		var se *client.ServerError
		if errors.As(err, &se) {
			a.println("[error]", se.Message)
		}
		a.log.Warn(ctx, "protected call failed", "error", err)
	}
	return err
}
