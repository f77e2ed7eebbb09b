package main

import "github.com/pgxplain/xplain/cmd"

var version = "dev"

func main() {
	cmd.Execute(version)
}
