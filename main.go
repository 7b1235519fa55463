package main

import (
	"os"

	"github.com/workflow-admin/workflow-admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
