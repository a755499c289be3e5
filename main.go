package main

import "github.com/talentbridge/portal/cmd"

func main() {
	cmd.Execute()
}
