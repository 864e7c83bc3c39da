package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/five82/bookshelf/internal/config"
	"github.com/five82/bookshelf/internal/sandbox"
)

func main() {
	os.Exit(run())
}

func run() int {
	addr := flag.String("addr", ":5555", "listen address")
	seed := flag.String("seed", "", "path to a JSON array of books to start with")
	latency := flag.Duration("latency", 0, "artificial latency to inject per request")
	secret := flag.String("secret", "", "CSRF signing secret (random when empty)")
	rps := flag.Float64("rps", 0, "per-client requests per second (0 disables limiting)")
	flag.Parse()

	opts := sandbox.Options{
		Secret:  *secret,
		Latency: *latency,
		RPS:     *rps,
	}
	if *seed != "" {
		drafts, err := sandbox.LoadSeed(*seed)
		if err != nil {
			log.Printf("load seed: %v", err)
			return 1
		}
		opts.Seed = drafts
	}

	server := &http.Server{
		Addr:              *addr,
		Handler:           sandbox.New(opts).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("bookshelf-sandbox listening on %s (%d seed books)", *addr, len(opts.Seed))
	host := *addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	fmt.Printf("\nexport %s=http://%s\n\n", config.BackendURLEnv, host)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server failed: %v", err)
		return 1
	}
	return 0
}
