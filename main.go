package main

import "github.com/AirLabUR/MSOC/cmd"

func main() {
	cmd.Execute()
}
