package main

import "fixer_backend/internal/app"

func main() {
	app.Run()
}
