package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tarmac-project/fixtures/greeting"
	"github.com/tarmac-project/fixtures/logging"
	"github.com/tarmac-project/fixtures/mockserver/fake"
)

const shutdownTimeout = 5 * time.Second

// ServeOptions holds the flags of the greeting and mockserver commands.
type ServeOptions struct {
	Name string
	Port int

	Logger logging.Client
}

// NewServeOptions returns options for the named server on port.
func NewServeOptions(name string, port int) *ServeOptions {
	return &ServeOptions{
		Name:   name,
		Port:   port,
		Logger: logging.NewKlog(),
	}
}

func (o *ServeOptions) Command() *cobra.Command {
	short := "Serve the Hello world! greeting function over HTTP"
	if o.Name == "mockserver" {
		short = "Run an in-process MockServer"
	}

	var cmd = &cobra.Command{
		Use:     o.Name,
		Short:   short,
		Example: fmt.Sprintf("  fixtures %s --port %d", o.Name, o.Port),
		Run:     o.Run,
		Args:    cobra.NoArgs,
	}

	cmd.Flags().IntVar(&o.Port, "port", o.Port, "The port to listen on")

	return cmd
}

func (o *ServeOptions) Run(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", ":"+strconv.Itoa(o.Port))
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if err := o.serve(ctx, ln); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func (o *ServeOptions) handler() (http.Handler, error) {
	switch o.Name {
	case "greeting":
		return http.HandlerFunc(greeting.HTTP), nil
	case "mockserver":
		return fake.New(fake.Config{Logger: o.Logger}), nil
	default:
		return nil, errors.Errorf("unknown server %q", o.Name)
	}
}

// serve blocks until ctx is done, then drains in-flight requests.
func (o *ServeOptions) serve(ctx context.Context, ln net.Listener) error {
	h, err := o.handler()
	if err != nil {
		_ = ln.Close()
		return err
	}

	srv := &http.Server{Handler: h, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	o.Logger.Info(fmt.Sprintf("%s listening on %s", o.Name, ln.Addr()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down")
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
