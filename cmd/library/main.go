package main

import (
	stdLog "log"

	"github.com/joho/godotenv"

	"github.com/polyakovs/library-lending/library/app"
	"github.com/polyakovs/library-lending/library/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Println("no .env file loaded: ", err)
	}
	cfg := config.NewConfig()

	app.Run(cfg)
}
