package main

import (
	"context"
	"log"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
