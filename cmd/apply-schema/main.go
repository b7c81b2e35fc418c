package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"bekind-internal/internal/common/database"
	"bekind-internal/internal/config"
	"bekind-internal/internal/repository"
)

// apply-schema 创建 Account / House / Guest 表（幂等）；-print 只输出 DDL
func main() {
	printOnly := flag.Bool("print", false, "print the schema instead of applying it")
	flag.Parse()

	if *printOnly {
		fmt.Print(repository.Schema, "\n")
		return
	}

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(ctx, &cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.EnsureSchema(ctx, db); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to apply schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Schema applied to %s@%s/%s\n", cfg.Database.User, cfg.Database.Host, cfg.Database.Database)
}
