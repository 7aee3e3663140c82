// Command admintoken prints a bearer token accepted by the admin routes.
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/ArowuTest/lotto-backend/internal/config"
	"github.com/ArowuTest/lotto-backend/internal/middleware"
	log "github.com/sirupsen/logrus"
)

func main() {
	subject := flag.String("sub", "admin", "subject claim of the token")
	ttl := flag.Duration("ttl", 0, "token lifetime; defaults to JWT.ExpiresIn seconds")
	configPath := flag.String("config", ".", "directory holding config.yaml and .env")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lifetime := *ttl
	if lifetime <= 0 {
		lifetime = time.Duration(cfg.JWT.ExpiresIn) * time.Second
	}

	token, err := middleware.IssueAdminToken(cfg.JWT.Secret, *subject, lifetime)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}
	fmt.Println(token)
}
