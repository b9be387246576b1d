package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/compass-console/compass-console/internal/shared"
	"github.com/compass-console/compass-console/internal/users"
)

const usersUsage = `Usage:
  console users list   [--search ...] [--role all|admin|manager|user] [--page N] [--per-page N] [--json]
  console users get    --id ID [--json]
  console users create --name ... --email ... --role ... [--password ...] [--json]
  console users update --id ID [--name ...] [--email ...] [--role ...] [--password ...] [--json]
  console users delete --id ID
`

func (a *App) usersCommand(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.stderr, usersUsage)
		return 2
	}
	a.hydrate(ctx)
	switch args[0] {
	case "list":
		return a.usersList(ctx, args[1:])
	case "get":
		return a.usersGet(ctx, args[1:])
	case "create":
		return a.usersCreate(ctx, args[1:])
	case "update":
		return a.usersUpdate(ctx, args[1:])
	case "delete":
		return a.usersDelete(ctx, args[1:])
	default:
		fmt.Fprintf(a.stderr, "unknown users subcommand %q\n\n", args[0])
		fmt.Fprint(a.stderr, usersUsage)
		return 2
	}
}

func (a *App) usersList(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("users list", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	search := fs.String("search", "", "substring filter, matched server-side")
	role := fs.String("role", users.RoleAll, "role filter")
	page := fs.String("page", "", "1-indexed page")
	perPage := fs.String("per-page", "", "page size")
	asJSON := fs.Bool("json", false, "emit JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	filters, err := users.ParseFilters(*search, *role, *page, *perPage)
	if err != nil {
		return a.fail(err)
	}
	items, meta, err := a.users.List(ctx, filters)
	if err != nil {
		return a.fail(err)
	}
	if *asJSON {
		return a.printJSON(struct {
			Items      []users.User    `json:"items"`
			Pagination shared.PageMeta `json:"pagination"`
		}{items, meta})
	}
	a.printUserTable(items)
	fmt.Fprintf(a.stdout, "page %d/%d, %d total\n", meta.Page, meta.TotalPages, meta.Total)
	return 0
}

func (a *App) usersGet(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("users get", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	id := fs.String("id", "", "user id")
	asJSON := fs.Bool("json", false, "emit JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	u, err := a.users.Get(ctx, *id)
	if err != nil {
		return a.fail(err)
	}
	if *asJSON {
		return a.printJSON(u)
	}
	a.printUserTable([]users.User{u})
	return 0
}

func (a *App) usersCreate(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("users create", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	role := fs.String("role", string(shared.RoleUser), "account role")
	password := fs.String("password", "", "initial password (prompted when omitted)")
	asJSON := fs.Bool("json", false, "emit JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *password == "" {
		secret, err := a.promptPassword("Password for new user: ")
		if err != nil {
			return a.fail(err)
		}
		*password = secret
	}

	u, err := a.users.Create(ctx, users.CreateInput{
		Name:     *name,
		Email:    *email,
		Password: *password,
		Role:     shared.Role(*role),
	})
	if err != nil {
		return a.fail(err)
	}
	if *asJSON {
		return a.printJSON(u)
	}
	fmt.Fprintf(a.stdout, "created %s (id %s)\n", u.Email, u.ID)
	return 0
}

func (a *App) usersUpdate(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("users update", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	id := fs.String("id", "", "user id")
	name := fs.String("name", "", "new display name")
	email := fs.String("email", "", "new email")
	role := fs.String("role", "", "new role")
	password := fs.String("password", "", "new password")
	asJSON := fs.Bool("json", false, "emit JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	// Only flags the caller actually set become part of the partial update.
	var input users.UpdateInput
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			input.Name = name
		case "email":
			input.Email = email
		case "role":
			r := shared.Role(*role)
			input.Role = &r
		case "password":
			input.Password = password
		}
	})

	u, err := a.users.Update(ctx, *id, input)
	if err != nil {
		return a.fail(err)
	}
	if *asJSON {
		return a.printJSON(u)
	}
	fmt.Fprintf(a.stdout, "updated %s\n", u.Email)
	return 0
}

func (a *App) usersDelete(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("users delete", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	id := fs.String("id", "", "user id")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := a.users.Remove(ctx, *id); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.stdout, "removed")
	return 0
}
