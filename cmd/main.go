package main

import "github.com/yungbote/neurobridge-coach/internal/cli"

func main() {
	cli.Execute()
}
