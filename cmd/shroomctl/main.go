// Command shroomctl drives the ShroomLab login flow from a terminal. The
// session is kept in a file so it survives between invocations.
package main

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
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"go.uber.org/zap"

	"github.com/lilistrocel/ShroomLab/internal/app/domain/auth"
	"github.com/lilistrocel/ShroomLab/internal/app/domain/health"
	"github.com/lilistrocel/ShroomLab/internal/app/session"
	"github.com/lilistrocel/ShroomLab/internal/pkg/config"
	"github.com/lilistrocel/ShroomLab/internal/routes"
)

const (
	exitOK = iota
	exitError
	exitUnauthenticated
	exitUnavailable
)

const usage = `usage: shroomctl [flags] <command>

commands:
  login    exchange credentials for a session (-u, -p or prompt)
  whoami   show the user the stored session belongs to
  logout   forget the stored session
  status   probe the gateway and backend services

flags:
`

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], envconfig.OsLookuper(), os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type cli struct {
	cfg    *config.Config
	store  *session.File
	client *auth.Client
	logger *zap.Logger
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

func run(ctx context.Context, args []string, env envconfig.Lookuper, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.LoadWith(ctx, env)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitError
	}

	fs := flag.NewFlagSet("shroomctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	apiURL := fs.String("api", cfg.Services.APIGateway, "API gateway base URL")
	sessionPath := fs.String("session", session.DefaultPath(), "session file")
	timeout := fs.Duration("timeout", cfg.Services.Timeout, "per-request timeout")
	verbose := fs.Bool("v", false, "log requests to stderr")
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitError
	}

	logger := zap.NewNop()
	if *verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		}
	}
	defer func() { _ = logger.Sync() }()

	cfg.Services.APIGateway = strings.TrimRight(*apiURL, "/")
	cfg.Services.Timeout = *timeout

	c := &cli{
		cfg:    cfg,
		store:  session.NewFile(*sessionPath, logger.Named("session")),
		client: auth.NewClient(cfg.Services.APIGateway, *timeout, logger.Named("auth")),
		logger: logger,
		in:     bufio.NewReader(stdin),
		out:    stdout,
		errOut: stderr,
	}

	cmd, cmdArgs := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "login":
		return c.login(ctx, cmdArgs)
	case "whoami":
		return c.whoami(ctx)
	case "logout":
		return c.logout()
	case "status":
		return c.status(ctx, cmdArgs)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return exitError
	}
}

func (c *cli) login(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return exitError
	}

	if *username == "" {
		*username = c.prompt("Username: ")
	}
	if *password == "" {
		*password = c.prompt("Password: ")
	}
	if *username == "" || *password == "" {
		fmt.Fprintln(c.errOut, "Error: username and password are required")
		return exitError
	}

	s, err := c.client.Login(ctx, *username, *password)
	if err != nil {
		var authErr *auth.Error
		if errors.As(err, &authErr) && authErr.Kind == auth.KindNetwork {
			fmt.Fprintln(c.errOut, "Error:", auth.MsgNetworkError)
			return exitUnavailable
		}
		if errors.As(err, &authErr) {
			fmt.Fprintln(c.errOut, "Error:", authErr.Message)
			return exitUnauthenticated
		}
		fmt.Fprintln(c.errOut, "Error:", err)
		return exitError
	}

	c.store.Write(s)
	fmt.Fprintf(c.out, "Logged in as %s\n", *username)
	return exitOK
}

func (c *cli) prompt(label string) string {
	fmt.Fprint(c.errOut, label)
	line, _ := c.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func (c *cli) whoami(ctx context.Context) int {
	guard := auth.NewGuard(c.store, c.client, auth.GuardOptions{Strict: c.cfg.Session.Strict}, c.logger.Named("guard"))
	res := guard.Check(ctx)

	switch res.State {
	case auth.StateAuthenticated:
		p := res.Profile
		w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Username:\t%s\n", p.Username)
		fmt.Fprintf(w, "Full name:\t%s\n", p.FullName)
		fmt.Fprintf(w, "Email:\t%s\n", p.Email)
		fmt.Fprintf(w, "Role:\t%s\n", p.RawRole)
		if exp, ok := session.Expiry(res.Session.TokenValue); ok {
			fmt.Fprintf(w, "Expires:\t%s\n", exp.Local().Format(time.RFC1123))
		}
		_ = w.Flush()
		return exitOK
	case auth.StateUnavailable:
		fmt.Fprintln(c.errOut, "Error: the gateway could not confirm the session, try again later")
		return exitUnavailable
	default:
		if res.Reason == auth.ReasonSessionInvalid {
			fmt.Fprintln(c.errOut, "Session expired, run `shroomctl login`")
		} else {
			fmt.Fprintln(c.errOut, "Not logged in, run `shroomctl login`")
		}
		return exitUnauthenticated
	}
}

func (c *cli) logout() int {
	c.store.Clear()
	fmt.Fprintln(c.out, "Logged out")
	return exitOK
}

func (c *cli) status(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return exitError
	}

	prober := health.NewProber(routes.ServiceTargets(c.cfg.Services), c.cfg.Services.Timeout, c.logger.Named("health"))
	results := prober.ProbeAll(ctx)

	if *asJSON {
		type row struct {
			Name      string       `json:"name"`
			State     health.State `json:"state"`
			LatencyMS int64        `json:"latency_ms"`
		}
		rows := make([]row, 0, len(results))
		for _, r := range results {
			rows = append(rows, row{Name: r.Target.Name, State: r.State, LatencyMS: r.Latency.Milliseconds()})
		}
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			fmt.Fprintln(c.errOut, "Error:", err)
			return exitError
		}
	} else {
		w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SERVICE\tSTATUS\tLATENCY")
		for _, r := range results {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Target.Label, r.State.Label(), r.Latency.Round(time.Millisecond))
		}
		_ = w.Flush()
	}

	for _, r := range results {
		if r.State != health.StateConnected {
			return exitUnavailable
		}
	}
	return exitOK
}
