// Package cmd implements the views of the fv command line client.
//
// Every page of the portfolio viewer is a subcommand. Protected views go
// through the session guard first and fall back to the login view when the
// session is missing or expired.
package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/folio"
	"github.com/etnz/folio/auth"
	"github.com/etnz/folio/config"
	"github.com/google/subcommands"
	"github.com/redis/go-redis/v9"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	EnvVerbose = "FOLIO_VERBOSE"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "", "Path to the configuration file. Defaults to $FOLIO_CONFIG, then ./folio.yaml")
	backendURL = flag.String("url", "", "Backend base URL. Overrides the configuration")
	Verbose    = flag.Bool("v", os.Getenv(EnvVerbose) == "true", "Print diagnostic logs to stderr")
	logFile    = flag.String("log-file", "", "Write diagnostic logs to this file, rotated. Overrides the configuration")
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&shellCmd{}, "session")
	registerViews(c)
}

// registerViews registers every view but the shell.
func registerViews(c *subcommands.Commander) {
	c.Register(&loginCmd{}, "session")
	c.Register(&logoutCmd{}, "session")
	c.Register(&statusCmd{}, "session")

	for _, v := range views() {
		c.Register(v, "views")
	}

	c.Register(&topicCmd{}, "help")
}

// views returns the protected views.
func views() []subcommands.Command {
	return []subcommands.Command{
		protect(&datesCmd{}),
		protect(&requestCmd{}),
		protect(&deleteCmd{}),
		protect(&summaryCmd{}),
		protect(&overviewCmd{}),
		protect(&historyCmd{}),
		protect(&pricesCmd{}),
		protect(&setPriceCmd{}),
		protect(&accountsCmd{}),
		protect(&accountCmd{}),
		protect(&getCmd{}),
	}
}

// App holds what every view needs. It is passed as the first argument of
// subcommands.Commander.Execute.
type App struct {
	Config  *config.Config
	Session *auth.Manager
	Client  *folio.Client

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	lines   *lineReader
	closers []io.Closer
}

// Setup creates the App from the global flags and the configuration.
func Setup(ctx context.Context) (*App, error) {
	if !*Verbose {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *backendURL != "" {
		cfg.Backend.URL = *backendURL
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}

	var closers []io.Closer
	if cfg.LogFile != "" {
		w := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    5,
			MaxBackups: 3,
			MaxAge:     28,
		}
		log.SetOutput(w)
		closers = append(closers, w)
	}

	store, closer, err := OpenStore(cfg.Session)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		closers = append(closers, closer)
	}

	a, err := NewApp(ctx, cfg, store)
	if err != nil {
		for _, c := range closers {
			c.Close()
		}
		return nil, err
	}
	a.closers = closers
	return a, nil
}

// OpenStore returns the session store selected by cfg, and what to close when done.
func OpenStore(cfg config.SessionConfig) (auth.Store, io.Closer, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return &auth.MemoryStore{}, nil, nil
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return auth.RedisStore{Client: client, Key: cfg.Redis.Key}, client, nil
	default:
		dir := cfg.Dir
		if dir == "" {
			d, err := auth.DefaultDir()
			if err != nil {
				return nil, nil, fmt.Errorf("cannot locate session directory: %w", err)
			}
			dir = d
		}
		return auth.FileStore{Dir: dir}, nil, nil
	}
}

// NewApp creates the session manager on top of store, and the backend client on top of the session.
func NewApp(ctx context.Context, cfg *config.Config, store auth.Store, opts ...auth.Option) (*App, error) {
	session, err := auth.NewManager(ctx, store, opts...)
	if err != nil {
		return nil, err
	}
	client, err := folio.NewClient(cfg.Backend.URL, session,
		folio.WithTimeout(cfg.Backend.Timeout),
		folio.WithInsecureTLS(cfg.Backend.Insecure),
	)
	if err != nil {
		return nil, err
	}
	return &App{
		Config:  cfg,
		Session: session,
		Client:  client,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}, nil
}

// Close releases the store connection and the log file.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// appOf returns the App passed to Commander.Execute.
func appOf(args []interface{}) *App {
	for _, arg := range args {
		if a, ok := arg.(*App); ok {
			return a
		}
	}
	panic("cmd: views must be executed with an *App argument")
}

// input returns the line reader on Stdin, shared by every prompt.
func (a *App) input() *lineReader {
	if a.lines == nil {
		a.lines = &lineReader{r: bufio.NewReader(a.Stdin)}
	}
	return a.lines
}

// readLine prints prompt and reads one line from Stdin.
func (a *App) readLine(prompt string) (string, error) {
	fmt.Fprint(a.Stdout, prompt)
	return a.input().line()
}

// readPassword reads a line without echo when Stdin is a terminal.
func (a *App) readPassword(prompt string) (string, error) {
	f, ok := a.Stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) || a.input().reading() {
		return a.readLine(prompt)
	}
	fmt.Fprint(a.Stdout, prompt)
	pwd, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(a.Stdout)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

// confirm asks a yes/no question, anything but yes is a no.
func (a *App) confirm(question string) bool {
	answer, err := a.readLine(question + " [y/N] ")
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// StyleRaw prints markdown as is.
const StyleRaw = "raw"

// printMarkdown renders doc to Stdout with the configured glamour style.
func (a *App) printMarkdown(doc string) {
	style := a.Config.Display.Style
	if style == StyleRaw {
		fmt.Fprint(a.Stdout, doc)
		return
	}

	width := 100
	if f, ok := a.Stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	styleOpt := glamour.WithStylePath(style)
	if style == "" || style == "auto" {
		styleOpt = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		log.Printf("cannot create markdown renderer with style %q: %v", style, err)
		fmt.Fprint(a.Stdout, doc)
		return
	}
	out, err := r.Render(doc)
	if err != nil {
		log.Printf("cannot render markdown: %v", err)
		fmt.Fprint(a.Stdout, doc)
		return
	}
	fmt.Fprint(a.Stdout, out)
}

// currency used to print money.
func (a *App) currency() string { return a.Config.Display.Currency }

// failf prints a failure notice and returns ExitFailure, unless ctx is done:
// the answer of an abandoned view is dropped.
func (a *App) failf(ctx context.Context, format string, args ...any) subcommands.ExitStatus {
	if ctx.Err() != nil {
		log.Printf("dropping failure of a cancelled view: "+format, args...)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(a.Stderr, format+"\n", args...)
	return subcommands.ExitFailure
}

// show prints doc unless ctx is done: the answer of an abandoned view is dropped.
func (a *App) show(ctx context.Context, doc string) subcommands.ExitStatus {
	if ctx.Err() != nil {
		log.Println("dropping the answer of a cancelled view")
		return subcommands.ExitFailure
	}
	a.printMarkdown(doc)
	return subcommands.ExitSuccess
}
