/*
Package fixtures provides the entry point and runtime configuration for the
storage listing test fixtures when they run as Tarmac WebAssembly functions.

New registers a waPC handler, and RuntimeConfig is shared by the capability
clients (httpclient, logging). DefaultNamespace is used when a namespace is not
explicitly provided.
*/
package fixtures
