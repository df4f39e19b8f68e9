package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// Local development keeps secrets in a .env file; absence is fine.
	_ = godotenv.Load()

	Execute()
}
