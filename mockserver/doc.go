/*
Package mockserver models the MockServer administrative API and provides a
client for it.

An Expectation pairs a RequestMatcher with either a literal HTTPResponse or a
ResponseTemplate that MockServer renders for every matched request. Client
registers, retrieves and resets expectations over any httpclient.Client, so the
same code runs natively or inside a Tarmac function.

	c, _ := mockserver.New(mockserver.Config{Address: "localhost:1080"})
	err := c.CreateExpectation(mockserver.Expectation{
	  HTTPRequest:  &mockserver.RequestMatcher{Method: "GET", Path: "/health"},
	  HTTPResponse: &mockserver.HTTPResponse{StatusCode: 200},
	})

Matches and RenderTemplate implement the matching and MUSTACHE rendering rules
used by the in-process server in package fake.
*/
package mockserver
