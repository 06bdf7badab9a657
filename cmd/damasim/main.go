// Command damasim runs a DAMA/R-ALOHA + TCP-Noordwijk scenario against the
// reference simclock.Engine.
package main

import "github.com/heistp/damawijk/cmd/damasim/commands"

func main() {
	commands.Execute()
}
