// Package cli implements the portal subcommands on top of the client packages.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"catalog_portal/internal/client/catalog"
	"catalog_portal/internal/client/guard"
	"catalog_portal/internal/client/profile"
	"catalog_portal/internal/client/session"
	"catalog_portal/internal/domain/model"

	"golang.org/x/term"
)

// API is the subset of the backend client the portal uses.
type API interface {
	Login(ctx context.Context, username, password string) (string, model.UserSnapshot, error)
	UpdateUser(ctx context.Context, id string, patch model.UserPatch) (model.UserSnapshot, error)
	Products(ctx context.Context) ([]byte, error)
	Product(ctx context.Context, id string) ([]byte, error)
	Me(ctx context.Context, token string) (model.UserSnapshot, error)
}

// errRedirect signals that the route guard sent the user to the login page.
var errRedirect = errors.New("login required")

// readPassword is a test seam for term.ReadPassword.
var readPassword = func() ([]byte, error) { return term.ReadPassword(int(os.Stdin.Fd())) }

type App struct {
	store *session.Store
	api   API
	in    *bufio.Reader
	out   io.Writer
	errw  io.Writer
}

func NewApp(store *session.Store, api API, in io.Reader, out, errw io.Writer) *App {
	return &App{store: store, api: api, in: bufio.NewReader(in), out: out, errw: errw}
}

const usage = `usage: portal <command> [flags]

commands:
  login     [-username u]
  logout
  whoami    [-refresh]
  products  [-search s] [-page n] [-select id,id] [-select-page] [-export path]
  product   <id>
  profile   [-username u] [-name n] [-last-name l] [-email e] [-user-type t] [-cancel]
`

// Run executes one subcommand and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.errw, usage)
		return 2
	}

	if _, err := a.store.Init(ctx); err != nil {
		fmt.Fprintf(a.errw, "warning: %v\n", err)
	}

	var err error
	switch args[0] {
	case "login":
		err = a.login(ctx, args[1:])
	case "logout":
		err = a.logout(ctx)
	case "whoami":
		err = a.whoami(ctx, args[1:])
	case "products":
		err = a.products(ctx, args[1:])
	case "product":
		err = a.product(ctx, args[1:])
	case "profile":
		err = a.profile(ctx, args[1:])
	default:
		fmt.Fprint(a.errw, usage)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errRedirect):
		fmt.Fprintln(a.errw, "Inicia sesión con: portal login")
		return 3
	case errors.Is(err, flag.ErrHelp):
		return 2
	default:
		fmt.Fprintln(a.errw, err)
		return 1
	}
}

// enter applies the route guard for path.
func (a *App) enter(path string) (guard.Route, error) {
	decision, route := guard.Resolve(path, a.store.State())
	switch decision {
	case guard.Allow:
		return route, nil
	case guard.Wait:
		return route, errors.New("session still loading")
	}
	return route, errRedirect
}

func (a *App) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errw)
	return fs
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := a.newFlagSet("login")
	username := fs.String("username", "", "username")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" {
		fmt.Fprint(a.out, "Usuario: ")
		line, err := a.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		*username = strings.TrimSpace(line)
	}
	fmt.Fprint(a.out, "Contraseña: ")
	pw, err := readPassword()
	fmt.Fprintln(a.out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	token, user, err := a.api.Login(ctx, *username, string(pw))
	if err != nil {
		return err
	}
	if err := a.store.Login(ctx, token, user); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Bienvenido, %s\n", displayName(user))
	return nil
}

func (a *App) logout(ctx context.Context) error {
	if err := a.store.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Sesión cerrada")
	return nil
}

func (a *App) whoami(ctx context.Context, args []string) error {
	fs := a.newFlagSet("whoami")
	refresh := fs.Bool("refresh", false, "fetch the stored record instead of trusting the token")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := a.enter("/usuario"); err != nil {
		return err
	}

	st := a.store.State()
	user := *st.User
	if *refresh {
		fresh, err := a.api.Me(ctx, st.Token)
		if err != nil {
			return err
		}
		a.store.SetUser(fresh)
		user = fresh
	}
	printUser(a.out, user)
	return nil
}

func (a *App) products(ctx context.Context, args []string) error {
	fs := a.newFlagSet("products")
	search := fs.String("search", "", "filter by name, brand, title or id")
	page := fs.Int("page", 1, "page to show")
	selectIDs := fs.String("select", "", "comma-separated product ids to select")
	selectPage := fs.Bool("select-page", false, "toggle selection of every row on the page")
	export := fs.String("export", "", "write the selection as CSV to this file or directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := a.enter("/dashboard"); err != nil {
		return err
	}

	table := catalog.NewTable()
	if err := table.Fetch(ctx, a.api); err != nil {
		return errors.New(table.Err)
	}
	table.SetSearch(*search)
	table.GoTo(*page)
	for _, id := range strings.Split(*selectIDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			table.Toggle(id)
		}
	}
	if *selectPage {
		table.ToggleSelectAllOnPage()
	}

	printTable(a.out, table)

	if *export != "" {
		return a.exportCSV(table, *export)
	}
	return nil
}

func (a *App) exportCSV(table *catalog.Table, dest string) error {
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		dest = filepath.Join(dest, catalog.ExportFilename())
	}
	var buf strings.Builder
	if err := table.Export(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(dest, []byte(buf.String()), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(a.out, "Exportados %d productos a %s\n", len(table.Selected()), dest)
	return nil
}

func (a *App) product(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: portal product <id>")
	}
	route, err := a.enter("/producto/" + args[0])
	if err != nil {
		return err
	}

	raw, err := a.api.Product(ctx, route.Param)
	if err != nil {
		return errors.New("No se pudo cargar el producto")
	}
	p, err := catalog.MapProduct(raw)
	if err != nil {
		return errors.New("No se pudo cargar el producto")
	}
	printProduct(a.out, p)
	return nil
}

func (a *App) profile(ctx context.Context, args []string) error {
	fs := a.newFlagSet("profile")
	username := fs.String("username", "", "new username")
	name := fs.String("name", "", "new name")
	lastName := fs.String("last-name", "", "new last name")
	email := fs.String("email", "", "new email")
	userType := fs.String("user-type", "", "new user type")
	cancel := fs.Bool("cancel", false, "discard the edits instead of saving them")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := a.enter("/usuario"); err != nil {
		return err
	}

	view, err := profile.New(a.store, a.api)
	if err != nil {
		return err
	}
	edited := false
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "username":
			view.Form.Username = *username
		case "name":
			view.Form.Name = *name
		case "last-name":
			view.Form.LastName = *lastName
		case "email":
			view.Form.Email = *email
		case "user-type":
			view.Form.UserType = *userType
		case "cancel":
			return
		}
		edited = true
	})
	if *cancel {
		view.Cancel()
		fmt.Fprintln(a.out, profile.MsgDiscarded)
		printUser(a.out, *a.store.State().User)
		return nil
	}
	if !edited {
		printUser(a.out, *a.store.State().User)
		return nil
	}

	updated, err := view.Save(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, profile.MsgSaved)
	printUser(a.out, updated)
	return nil
}
