package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/alexander-fenster/durak"
	"github.com/alexander-fenster/durak/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment as-is")
	}

	cfg, err := server.LoadConfig()
	if err != nil {
		log.Fatal(err.Error())
	}

	games := durak.NewGameStore(cfg.CleanupTimeout)
	players := durak.NewPlayerStore(cfg.CleanupTimeout)
	s := server.New(games, players, cfg)

	log.Printf("listening on %s...", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, s))
}
