package main

import (
	"github.com/labstack/gommon/color"

	"github.com/phoenixix/medbot/internal/app/inform"
)

func main() {
	printBanner()
	inform.Execute()
}

var (
	version string
)

func printBanner() {
	banner := `
                     ____        __
   ____ ___  ___  __/ / /_  ____/ /_
  / __ ` + "`" + `__ \/ _ \/ __  / __ \/ __ \/ __/
 / / / / / /  __/ /_/ / /_/ / /_/ / /_
/_/ /_/ /_/\___/\__,_/_.___/\____/\__/
         inform v: %s
%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("github.com/phoenixix/medbot"))
}
