package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Eursukkul/club-cms/config"
	"github.com/Eursukkul/club-cms/internal/admin"
	"github.com/Eursukkul/club-cms/internal/models"
	"github.com/Eursukkul/club-cms/pkg/client"
)

const adminUsage = `Usage: club-cms admin <command> [arguments]

Commands:
  login [-username NAME] [-password-stdin]   sign in and keep the session token
  logout                                     forget the stored session
  status                                     show whether admin mode is active
  list <events|workshops> [-filter V] [-featured] [-json]
  create <events|workshops> -f FILE          create a record from JSON (- for stdin)
  update <events|workshops> <id> -f FILE     apply JSON fields to an existing record
  delete <events|workshops> <id>

Environment Variables:
  CMS_API_URL         API base URL (default: http://localhost:5000)
  CMS_CLIENT_TIMEOUT  per-request timeout (default: 10s)
  CMS_SESSION_FILE    session file (default: <user config dir>/club-cms/session.json)
`

// Admin handles the admin subcommand and returns the process exit code.
func Admin(args []string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(os.Stderr, adminUsage)
		return 2
	}

	cfg := config.LoadClient()
	path := cfg.SessionFile
	if path == "" {
		p, err := admin.DefaultSessionPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		path = p
	}
	session, err := admin.OpenSession(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := &adminCmd{
		client:  client.New(cfg.APIURL, client.WithTimeout(cfg.Timeout), client.WithToken(session.Token())),
		session: session,
		stdin:   os.Stdin,
		out:     os.Stdout,
		errOut:  os.Stderr,
		now:     time.Now,
		readPassword: func(prompt string) string {
			return readPasswordWithMask(prompt)
		},
	}
	if err := cmd.run(ctx, args); err != nil {
		cmd.report(err)
		return 1
	}
	return 0
}

type adminCmd struct {
	client       *client.Client
	session      *admin.Session
	stdin        io.Reader
	out          io.Writer
	errOut       io.Writer
	now          func() time.Time
	readPassword func(prompt string) string
}

var errUsage = errors.New("usage")

func (a *adminCmd) run(ctx context.Context, args []string) error {
	switch args[0] {
	case "login":
		return a.login(ctx, args[1:])
	case "logout":
		if err := a.session.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Logged out")
		return nil
	case "status":
		return a.status(ctx)
	case "list", "create", "update", "delete":
		if len(args) < 2 {
			return fmt.Errorf("%w: %s needs a collection (events or workshops)", errUsage, args[0])
		}
		kind, ok := models.KindByName(args[1])
		if !ok {
			return fmt.Errorf("%w: unknown collection %q", errUsage, args[1])
		}
		if args[0] != "list" {
			if err := a.requireSession(); err != nil {
				return err
			}
		}
		if kind.Name == models.WorkshopKind.Name {
			return runCollection[models.Workshop](ctx, a, a.client.Workshops(), args[0], args[2:])
		}
		return runCollection[models.Event](ctx, a, a.client.Events(), args[0], args[2:])
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

func (a *adminCmd) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	username := fs.String("username", "admin", "Admin username")
	fromStdin := fs.Bool("password-stdin", false, "Read the password from the first line of stdin")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	var password string
	if *fromStdin {
		line, err := bufio.NewReader(a.stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	} else {
		password = a.readPassword("Password: ")
	}
	if password == "" {
		return fmt.Errorf("%w: password cannot be empty", errUsage)
	}

	if err := a.session.Login(ctx, a.client, *username, password); err != nil {
		return err
	}
	a.client.SetToken(a.session.Token())
	fmt.Fprintf(a.out, "Logged in as %s until %s\n", a.session.Username(), a.session.Expiry().Local().Format(time.RFC1123))
	return nil
}

func (a *adminCmd) status(ctx context.Context) error {
	if !a.session.Active(a.now()) {
		fmt.Fprintln(a.out, "Admin mode: off")
		return nil
	}
	if _, err := a.client.Session(ctx); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			fmt.Fprintln(a.out, "Admin mode: off (token rejected by server, log in again)")
			return nil
		}
		return err
	}
	fmt.Fprintf(a.out, "Admin mode: on as %s until %s\n", a.session.Username(), a.session.Expiry().Local().Format(time.RFC1123))
	return nil
}

func (a *adminCmd) requireSession() error {
	if !a.session.Active(a.now()) {
		return fmt.Errorf("%w: not logged in, run: club-cms admin login", client.ErrUnauthorized)
	}
	return nil
}

// report prints an error the way the web UI shows notifications.
func (a *adminCmd) report(err error) {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, errUsage):
		fmt.Fprintf(a.errOut, "Error: %s\n\n%s", strings.TrimPrefix(err.Error(), "usage: "), adminUsage)
	case errors.As(err, &apiErr) && len(apiErr.Fields) > 0:
		fmt.Fprintf(a.errOut, "Error: %s\n", apiErr.Message)
		fields := make([]string, 0, len(apiErr.Fields))
		for f := range apiErr.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			fmt.Fprintf(a.errOut, "  %s: %s\n", f, apiErr.Fields[f])
		}
	case errors.Is(err, client.ErrNetwork):
		fmt.Fprintf(a.errOut, "Error: could not reach the server: %v\n", err)
	default:
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
	}
}

func runCollection[T any, P models.EntityPtr[T]](ctx context.Context, a *adminCmd, src admin.Source[T], op string, args []string) error {
	catalog := admin.NewCatalog[T, P](src)
	kind := catalog.Kind()

	switch op {
	case "list":
		return listRecords(ctx, a, catalog, args)

	case "create":
		fs := flag.NewFlagSet("create", flag.ContinueOnError)
		fs.SetOutput(a.errOut)
		file := fs.String("f", "", "JSON file with the record fields (- for stdin)")
		if err := fs.Parse(args); err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		editor := admin.NewEditor(catalog)
		if err := editor.BeginCreate(); err != nil {
			return err
		}
		stored, err := submitFrom(ctx, a, editor, *file)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s created: %s\n", capitalize(kind.Singular), P(stored).Common().ID)
		return nil

	case "update":
		if len(args) < 1 {
			return fmt.Errorf("%w: update needs an id", errUsage)
		}
		id := args[0]
		fs := flag.NewFlagSet("update", flag.ContinueOnError)
		fs.SetOutput(a.errOut)
		file := fs.String("f", "", "JSON file with the fields to change (- for stdin)")
		if err := fs.Parse(args[1:]); err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		if err := catalog.Refresh(ctx); err != nil {
			return err
		}
		editor := admin.NewEditor(catalog)
		if err := editor.BeginEdit(id); err != nil {
			return err
		}
		stored, err := submitFrom(ctx, a, editor, *file)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s updated: %s\n", capitalize(kind.Singular), P(stored).Common().ID)
		return nil

	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("%w: delete needs exactly one id", errUsage)
		}
		deleted, err := catalog.Delete(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s deleted: %s (%s)\n", capitalize(kind.Singular), P(deleted).Common().ID, P(deleted).Common().Title)
		return nil
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, op)
}

func listRecords[T any, P models.EntityPtr[T]](ctx context.Context, a *adminCmd, catalog *admin.Catalog[T, P], args []string) error {
	kind := catalog.Kind()
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	filter := fs.String("filter", "All", "Only show this "+kind.FilterField+" ("+strings.Join(kind.FilterValues, ", ")+")")
	featured := fs.Bool("featured", false, "Only show featured records")
	asJSON := fs.Bool("json", false, "Print records as JSON")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if err := catalog.SetFilter(*filter); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	catalog.SetFeaturedOnly(*featured)
	if err := catalog.Refresh(ctx); err != nil {
		return err
	}

	records := catalog.Visible()

	if *asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintf(a.out, "No %s found\n", kind.Name)
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tTITLE\tDATE\t%s\tSEATS\tSTATUS\tFEATURED\n", strings.ToUpper(kind.FilterField))
	for i := range records {
		p := P(&records[i])
		r := p.Common()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d/%d\t%s\t%t\n",
			r.ID, r.Title, r.Date, p.FilterValue(), r.Registered, r.Capacity, r.Status, r.Featured)
	}
	return tw.Flush()
}

// submitFrom overlays the JSON in file onto the editor's draft and submits it.
// Keys absent from the file keep their current values.
func submitFrom[T any, P models.EntityPtr[T]](ctx context.Context, a *adminCmd, editor *admin.Editor[T, P], file string) (*T, error) {
	if file == "" {
		return nil, fmt.Errorf("%w: -f FILE is required", errUsage)
	}
	var (
		b   []byte
		err error
	)
	if file == "-" {
		b, err = io.ReadAll(a.stdin)
	} else {
		b, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	if err := json.Unmarshal(b, editor.Draft()); err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	return editor.Submit(ctx)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
