package cli

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tarmac-project/fixtures/bucketlist"
	"github.com/tarmac-project/fixtures/httpclient"
	"github.com/tarmac-project/fixtures/logging"
	"github.com/tarmac-project/fixtures/mockserver"
)

// InstallOptions holds the flags of the install command.
type InstallOptions struct {
	Host    string
	Port    int
	Secure  bool
	Timeout time.Duration
	File    string
	Reset   bool

	Logger logging.Client
}

// NewInstallOptions returns options pointing at MockServer on localhost:1080.
func NewInstallOptions() *InstallOptions {
	return &InstallOptions{
		Host:    "localhost",
		Port:    1080,
		Timeout: httpclient.DefaultTimeout,
		Logger:  logging.NewKlog(),
	}
}

func (o *InstallOptions) Command() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "install",
		Short: "Register the GET /storage/v1/b expectation with a running MockServer",
		Example: "  fixtures install\n" +
			"  fixtures install --reset --file expectations.yaml",
		Run:  o.Run,
		Args: cobra.NoArgs,
	}

	cmd.Flags().StringVar(&o.Host, "host", o.Host, "MockServer host")
	cmd.Flags().IntVar(&o.Port, "port", o.Port, "MockServer port")
	cmd.Flags().BoolVar(&o.Secure, "secure", o.Secure, "Talk to MockServer over https")
	cmd.Flags().DurationVar(&o.Timeout, "timeout", o.Timeout, "Timeout for the registration request")
	cmd.Flags().StringVarP(&o.File, "file", "f", o.File, "YAML or JSON file with additional expectations")
	cmd.Flags().BoolVar(&o.Reset, "reset", o.Reset, "Reset MockServer before registering")

	return cmd
}

// Run never exits non-zero on a failed registration; the failure is logged
// and the test run proceeds.
func (o *InstallOptions) Run(cmd *cobra.Command, args []string) {
	client, err := mockserver.New(mockserver.Config{
		Address:   net.JoinHostPort(o.Host, strconv.Itoa(o.Port)),
		Secure:    o.Secure,
		Transport: httpclient.NewNative(httpclient.NativeConfig{Timeout: o.Timeout}),
	})
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	extra, err := o.loadExtra()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	_ = o.run(client, extra)
}

type expectationClient interface {
	bucketlist.Registrar
	Reset() error
}

func (o *InstallOptions) run(client expectationClient, extra []mockserver.Expectation) error {
	if o.Reset {
		if err := client.Reset(); err != nil {
			o.Logger.Warn(fmt.Sprintf("reset failed: %v", err))
		}
	}

	installer, err := bucketlist.NewInstaller(bucketlist.Config{
		Registrar: client,
		Logger:    o.Logger,
		Extra:     extra,
	})
	if err != nil {
		return err
	}

	return installer.Install()
}

func (o *InstallOptions) loadExtra() ([]mockserver.Expectation, error) {
	if o.File == "" {
		return nil, nil
	}

	f, err := os.Open(o.File)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", o.File)
	}
	defer func() { _ = f.Close() }()

	exps, err := mockserver.LoadExpectations(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", o.File)
	}
	return exps, nil
}
