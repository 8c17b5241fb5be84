package main

import "github.com/forekast/questionfeed/cmd"

func main() {
	cmd.Execute()
}
