package main

import "github.com/attendly/facekiosk/cmd"

func main() {
	cmd.Execute()
}
