package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"surveysync/internal/config"
	"surveysync/internal/logger"
	"surveysync/internal/repository"
	"surveysync/internal/service"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// One-shot reconciliation of a single container, for batch jobs and
// operators. Prints the outcome report as JSON on stdout.
func main() {
	containerID := flag.String("container", "", "container id to reconcile (required)")
	simulate := flag.Bool("simulate", false, "compute the diff without writing to the store")
	recompletion := flag.Bool("recompletion", false, "deactivate records of questions no longer visible")
	inventory := flag.Bool("inventory", false, "include the per-question audit list in the report")
	flag.Parse()

	if *containerID == "" {
		fmt.Fprintln(os.Stderr, "usage: reconcile -container <id> [-simulate] [-recompletion] [-inventory]")
		os.Exit(2)
	}

	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("failed to connect to MongoDB", "error", err)
	}
	defer mongoClient.Disconnect(ctx)

	db := mongoClient.Database(cfg.MongoDatabase)
	recordRepo := repository.NewRecordRepo(db, log)
	reconciler := service.NewReconciler(recordRepo, nil, log, cfg.Locale)

	result, err := reconciler.Reconcile(ctx, *containerID, service.Options{
		Simulate:     *simulate,
		Recompletion: *recompletion,
		Inventory:    *inventory,
	})
	if err != nil {
		log.Error("reconciliation failed", "container", *containerID, "error", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal("failed to encode result", "error", err)
	}
	fmt.Println(string(out))
}
