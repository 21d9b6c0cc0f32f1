package main

import (
	"github.com/MertKocakaplan/aceit-sub001/app"
	"github.com/gofiber/fiber/v2/log"
)

func main() {
	if err := app.SetupAndRunServer(); err != nil {
		log.Fatal(err)
	}
}
