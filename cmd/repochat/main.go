// Command repochat is a terminal client for a repository question-answering backend.
package main

import "github.com/diogo/repochat/internal/commands"

func main() {
	commands.Execute()
}
