package main

import (
	"log"

	_ "esign-adapter/docs"
	"esign-adapter/internal/app"
)

// @title E-Signature Adapter API
// @version 1.0
// @description Envelope lifecycle over Adobe Sign, with vendor webhook intake.
// @BasePath /
func main() {
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
