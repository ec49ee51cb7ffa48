/*
Package greeting answers every request with a fixed "Hello world!" greeting.

Handler is the waPC entry point used when the greeting runs as a Tarmac
function. HTTP serves the same greeting to runtimes that hand over a
request/response pair. Neither reads the request, so neither can fail.
*/
package greeting
