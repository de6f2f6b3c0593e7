package main

import "github.com/datastax/feed-data-apis/cmd"

func main() {
	cmd.Execute()
}
