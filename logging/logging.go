package logging

import (
	fixtures "github.com/tarmac-project/fixtures"
	wapc "github.com/wapc/wapc-guest-tinygo"
	"k8s.io/klog/v2"
)

const capabilityName = "logging"

// Verbosity levels used by the klog backend for the finer-grained helpers.
const (
	DebugLevel klog.Level = 2
	TraceLevel klog.Level = 4
)

// Client exposes convenience helpers for emitting log entries.
type Client interface {
	Info(message string)
	Warn(message string)
	Error(message string)
	Debug(message string)
	Trace(message string)
}

// Config controls how a host Client instance interacts with the runtime.
type Config struct {
	// SDKConfig provides the runtime namespace used for host calls.
	SDKConfig fixtures.RuntimeConfig

	// HostCall overrides the waPC host function used for logging operations.
	HostCall func(string, string, string, []byte) ([]byte, error)
}

// client sends log entries to the Tarmac host.
type client struct {
	runtime  fixtures.RuntimeConfig
	hostCall func(string, string, string, []byte) ([]byte, error)
}

// New creates a Client that emits logs through the host logging capability.
func New(cfg Config) (Client, error) {
	runtimeCfg := cfg.SDKConfig
	if runtimeCfg.Namespace == "" {
		runtimeCfg.Namespace = fixtures.DefaultNamespace
	}

	hostCall := cfg.HostCall
	if hostCall == nil {
		hostCall = wapc.HostCall
	}

	return &client{
		runtime:  runtimeCfg,
		hostCall: hostCall,
	}, nil
}

func (c *client) Info(message string)  { c.log("Info", message) }
func (c *client) Warn(message string)  { c.log("Warn", message) }
func (c *client) Error(message string) { c.log("Error", message) }
func (c *client) Debug(message string) { c.log("Debug", message) }
func (c *client) Trace(message string) { c.log("Trace", message) }

// log is best effort; a logging failure has nowhere else to go.
func (c *client) log(fn string, message string) {
	_, _ = c.hostCall(c.runtime.Namespace, capabilityName, fn, []byte(message))
}

// klogClient writes to klog for binaries running outside a WebAssembly host.
type klogClient struct{}

// NewKlog creates a Client backed by k8s.io/klog/v2. Debug and Trace are
// emitted at DebugLevel and TraceLevel verbosity.
func NewKlog() Client { return klogClient{} }

func (klogClient) Info(message string)  { klog.InfoDepth(1, message) }
func (klogClient) Warn(message string)  { klog.WarningDepth(1, message) }
func (klogClient) Error(message string) { klog.ErrorDepth(1, message) }
func (klogClient) Debug(message string) { klog.V(DebugLevel).InfoDepth(1, message) }
func (klogClient) Trace(message string) { klog.V(TraceLevel).InfoDepth(1, message) }
