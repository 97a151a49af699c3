package main

import "github.com/donburnsideAZ/project-tracker/cmd"

func main() {
	cmd.Execute()
}
