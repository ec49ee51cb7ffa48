// Command installer is a Tarmac WebAssembly function that registers the
// bucket listing expectation with MockServer at localhost:1080, using the
// host HTTP, logging and metrics capabilities. Configure it as an init
// function to prepare the mock before tests run.
package main

import (
	"time"

	fixtures "github.com/tarmac-project/fixtures"
	"github.com/tarmac-project/fixtures/bucketlist"
	"github.com/tarmac-project/fixtures/httpclient"
	"github.com/tarmac-project/fixtures/logging"
	"github.com/tarmac-project/fixtures/metrics"
	"github.com/tarmac-project/fixtures/mockserver"
)

var (
	installsMetric = "mockserver_expectation_installs"
	failuresMetric = "mockserver_expectation_install_failures"
	durationMetric = "mockserver_expectation_install_seconds"
)

func main() {
	_, err := fixtures.New(fixtures.Config{Handler: newHandler(nil)})
	if err != nil {
		return
	}
}

// HostCall is the waPC host function; nil selects wapc.HostCall.
type HostCall func(string, string, string, []byte) ([]byte, error)

// newHandler builds the install handler. It always succeeds from the host's
// point of view; the outcome is logged and counted.
func newHandler(hostCall HostCall) fixtures.Handler {
	return func(_ []byte) ([]byte, error) {
		return install(hostCall)
	}
}

func install(hostCall HostCall) ([]byte, error) {
	log, err := logging.New(logging.Config{HostCall: hostCall})
	if err != nil {
		return nil, err
	}

	m, err := metrics.New(metrics.Config{HostCall: metrics.HostCall(hostCall)})
	if err != nil {
		log.Error(err.Error())
		return nil, nil
	}
	installs, err := m.NewCounter(installsMetric)
	if err != nil {
		log.Error(err.Error())
		return nil, nil
	}
	failures, err := m.NewCounter(failuresMetric)
	if err != nil {
		log.Error(err.Error())
		return nil, nil
	}
	duration, err := m.NewHistogram(durationMetric)
	if err != nil {
		log.Error(err.Error())
		return nil, nil
	}

	transport, err := httpclient.New(httpclient.Config{HostCall: hostCall})
	if err != nil {
		log.Error(err.Error())
		return nil, nil
	}

	client, err := mockserver.New(mockserver.Config{Transport: transport})
	if err != nil {
		log.Error(err.Error())
		return nil, nil
	}

	installer, err := bucketlist.NewInstaller(bucketlist.Config{Registrar: client, Logger: log})
	if err != nil {
		log.Error(err.Error())
		return nil, nil
	}

	start := time.Now()
	err = installer.Install()
	duration.Observe(time.Since(start).Seconds())
	if err != nil {
		failures.Inc()
		return []byte("failed"), nil
	}
	installs.Inc()
	return []byte(bucketlist.SuccessMessage), nil
}
