package main

import (
	"log"

	_ "task-logger/docs"
	"task-logger/internal/app"
)

// @title SeaverStrike Task Logger
// @version 1.0.1
// @description Appends task records to a spreadsheet-backed log with duplicate suppression.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
