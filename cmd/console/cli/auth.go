package cli

import (
	"context"
	"flag"
	"fmt"
)

func (a *App) loginCommand(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *password == "" {
		secret, err := a.promptPassword("Password: ")
		if err != nil {
			return a.fail(err)
		}
		*password = secret
	}

	principal, err := a.auth.Login(ctx, *email, *password)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.stdout, "signed in as %s (%s)\n", principal.Email, principal.Role)
	return 0
}

func (a *App) logoutCommand(args []string) int {
	fs := flag.NewFlagSet("logout", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := a.auth.Logout(); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.stdout, "signed out")
	return 0
}

func (a *App) whoamiCommand(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("whoami", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	asJSON := fs.Bool("json", false, "emit JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	a.hydrate(ctx)
	principal := a.session.Principal()
	if principal == nil {
		fmt.Fprintln(a.stderr, "not signed in")
		return 1
	}
	if *asJSON {
		return a.printJSON(principal)
	}
	fmt.Fprintf(a.stdout, "%s <%s> role=%s id=%s\n", principal.Name, principal.Email, principal.Role, principal.ID)
	return 0
}
