package main

import (
	"os"

	"github.com/settingsd/settingsd/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
