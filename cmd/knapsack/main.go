package main

import (
	"os"

	"k8s.io/component-base/cli"

	"github.com/mihai-snyk/knapsack-ga/cmd/knapsack/app"
)

func main() {
	command := app.NewEvolverCommand()
	code := cli.Run(command)
	os.Exit(code)
}
