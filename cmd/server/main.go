package main

import (
	"fmt"
	"log"

	"asvs-dashboard/internal/config"
	"asvs-dashboard/internal/database"
	"asvs-dashboard/internal/server"
)

func main() {
	cfg := config.Load()
	database.Init(cfg.DBDSN)

	r := server.NewRouter(cfg)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
