package main

import "suggestion-tracker/cmd"

func main() {
	cmd.Execute()
}
