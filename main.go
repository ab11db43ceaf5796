package main

import (
	"github.com/joho/godotenv"

	"github.com/ByLCY/vitae/cmd"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()
	cmd.Execute()
}
