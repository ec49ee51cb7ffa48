/*
Package hostmock provides a pretend waPC host for tests.

It validates that fixture components route calls to the expected namespace,
capability and function, lets a PayloadValidator inspect the protobuf payload,
and scripts responses or failures, all without a Tarmac host running.

Quick start

	m, _ := hostmock.New(hostmock.Config{
	  ExpectedNamespace:  "tarmac",
	  ExpectedCapability: "httpclient",
	  ExpectedFunction:   "call",
	  Response: func() []byte { return okResponse },
	})

	client, _ := httpclient.New(httpclient.Config{HostCall: m.HostCall})

Behavior

  - If Fail is true and Error is set, HostCall returns that error.
  - If Fail is true and Error is nil, HostCall returns ErrOperationFailed.
  - Otherwise HostCall enforces the non-empty Expected* fields, runs
    PayloadValidator when provided, and returns Response (when set) or nil.
  - Every invocation is recorded and available through Calls.
*/
package hostmock
