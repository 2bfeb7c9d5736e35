package main

import "github.com/playlytics/cachecore/cmd"

func main() {
	cmd.Execute()
}
