/*
Package logging offers a small leveled logging client for the fixtures.

New sends entries to the Tarmac host logging capability over waPC, for code
running as a WebAssembly function. NewKlog writes the same levels through klog
for native binaries such as the fixtures CLI.
*/
package logging
