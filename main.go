package main

import "github.com/maxvaer/wwparse/cmd"

func main() {
	cmd.Execute()
}
