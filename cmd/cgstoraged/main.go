package main

import "github.com/cloudgoose/storage/cmd/cgstoraged/cmd"

func main() {
	cmd.Execute()
}
