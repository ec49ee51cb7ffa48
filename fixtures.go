package fixtures

import (
	wapc "github.com/wapc/wapc-guest-tinygo"
)

// DefaultNamespace is used when no explicit namespace is provided.
const DefaultNamespace = "tarmac"

// HandlerName is the waPC export the Tarmac host invokes for every request.
const HandlerName = "handler"

// Handler processes a raw request payload and returns the response payload.
type Handler func([]byte) ([]byte, error)

// Config provides configuration options for function registration.
type Config struct {
	// Namespace controls the function namespace to use for host callbacks.
	// If empty, DefaultNamespace is used.
	Namespace string

	// Handler is registered as the main WebAssembly entry point.
	Handler Handler

	// Register overrides the waPC registration hook. Tests use it to capture
	// the exported handler without a WebAssembly host.
	Register func(name string, fn wapc.Function)
}

// RuntimeConfig carries configuration shared by capability clients.
type RuntimeConfig struct {
	// Namespace is the function namespace used to scope host interactions.
	Namespace string
}

// Function is a registered fixture function.
type Function struct {
	runtime RuntimeConfig
	handler Handler
}

// New validates the configuration and registers the handler with waPC.
func New(config Config) (*Function, error) {
	if config.Handler == nil {
		return nil, ErrHandlerNil
	}

	cfg := RuntimeConfig{Namespace: DefaultNamespace}
	if config.Namespace != "" {
		cfg.Namespace = config.Namespace
	}

	register := config.Register
	if register == nil {
		register = wapc.RegisterFunction
	}

	fn := &Function{
		runtime: cfg,
		handler: config.Handler,
	}
	register(HandlerName, wapc.Function(fn.handler))

	return fn, nil
}

// Config returns the current runtime configuration snapshot.
func (f *Function) Config() RuntimeConfig { return f.runtime }

// Invoke calls the registered handler directly.
func (f *Function) Invoke(payload []byte) ([]byte, error) { return f.handler(payload) }
