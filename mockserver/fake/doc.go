/*
Package fake is an in-process MockServer.

Server implements the administrative endpoints used by mockserver.Client
(expectation, retrieve, clear, reset) and answers every other request from the
registered expectations, rendering MUSTACHE response templates per request.
It is meant for tests and local runs where starting a real MockServer is not
worth it.
*/
package fake
