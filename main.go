package main

import "github.com/Manu343726/mipsasm/cmd"

func main() {
	cmd.Execute()
}
