package main

import "portfolio_admin/internal/app"

func main() {
	app.Run()
}
