package bucketlist

import (
	"errors"

	"github.com/tarmac-project/fixtures/logging"
	"github.com/tarmac-project/fixtures/mockserver"
)

// SuccessMessage is logged once the expectation is registered.
const SuccessMessage = "expectation created"

var (
	// ErrInstall is the single failure class: the administrative API call failed.
	ErrInstall = errors.New("failed to install expectation")

	// ErrRegistrarNil is returned by NewInstaller without a registrar.
	ErrRegistrarNil = errors.New("expectation registrar cannot be nil")

	// ErrLoggerNil is returned by NewInstaller without a logger.
	ErrLoggerNil = errors.New("logger cannot be nil")
)

// Registrar submits expectations to a mock server. *mockserver.Client satisfies it.
type Registrar interface {
	CreateExpectation(exps ...mockserver.Expectation) error
}

// Config configures an Installer.
type Config struct {
	// Registrar receives the expectations.
	Registrar Registrar

	// Logger receives the success message or the error.
	Logger logging.Client

	// Extra expectations are registered in the same call, after the listing.
	Extra []mockserver.Expectation
}

// Installer registers the bucket listing expectation.
type Installer struct {
	registrar Registrar
	log       logging.Client
	exps      []mockserver.Expectation
}

// NewInstaller validates cfg and builds an Installer.
func NewInstaller(cfg Config) (*Installer, error) {
	if cfg.Registrar == nil {
		return nil, ErrRegistrarNil
	}
	if cfg.Logger == nil {
		return nil, ErrLoggerNil
	}

	exps := append([]mockserver.Expectation{Expectation()}, cfg.Extra...)
	return &Installer{registrar: cfg.Registrar, log: cfg.Logger, exps: exps}, nil
}

// Install performs one registration call and logs its outcome.
func (i *Installer) Install() error {
	if err := i.registrar.CreateExpectation(i.exps...); err != nil {
		err = errors.Join(ErrInstall, err)
		i.log.Error(err.Error())
		return err
	}
	i.log.Info(SuccessMessage)
	return nil
}

// InstallAsync runs Install on its own goroutine. The channel receives exactly
// one value, nil on success, and is then closed.
func (i *Installer) InstallAsync() <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- i.Install()
	}()
	return done
}
