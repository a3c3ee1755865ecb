package main

import (
	"context"
	"log"

	"github.com/dalemusser/waffle/app"
	"github.com/yash2607-del/samaaj/internal/app/bootstrap"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
