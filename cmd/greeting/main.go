// Command greeting is a Tarmac WebAssembly function answering every request
// with "Hello world!".
package main

import (
	fixtures "github.com/tarmac-project/fixtures"
	"github.com/tarmac-project/fixtures/greeting"
)

func main() {
	_, err := fixtures.New(fixtures.Config{Handler: greeting.Handler})
	if err != nil {
		return
	}
}
