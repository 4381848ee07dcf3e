// activestore CLI - command-line client for REST resources described by
// model declarations.
package main

import "github.com/iboying/activestore/pkg/cli"

func main() {
	cli.Execute()
}
