/*
Package mock provides an in-memory implementation of httpclient.Client.

Tests configure per-method and per-URL responses, fall back to a default
response, and inspect the recorded Calls without making network requests.
*/
package mock
