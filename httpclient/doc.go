/*
Package httpclient provides the HTTP transport used to reach the MockServer
administrative API.

Two implementations satisfy Client. HostClient serializes requests as tarmac
protobuf and hands them to the Tarmac host over waPC, for code running as a
WebAssembly function. NativeClient uses net/http directly, for binaries and
tests. Errors use sentinel values joined with the underlying cause and can be
checked with errors.Is.
*/
package httpclient
