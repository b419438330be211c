package main

import (
	"github.com/mchmarny/recipekit/pkg/cli"
)

func main() {
	cli.Execute()
}
