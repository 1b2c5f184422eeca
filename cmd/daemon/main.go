// @title Squat Analyzer API
// @version 1.0
// @description API for squat video analysis, live pose feedback and rep tracking.
// @host localhost:8080
// @BasePath /
package main

import (
	"log"
	"net/http"

	"squatanalyzer/internal/daemon"
	_ "squatanalyzer/internal/docs"
)

func main() {
	server := daemon.NewServer()
	addr := ":8080"
	log.Printf("Starting server on %s\n", addr)
	if err := http.ListenAndServe(addr, server.Routes()); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
