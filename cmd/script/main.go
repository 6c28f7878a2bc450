package main

import (
	"context"
	"fmt"
	"log"
	"riskfactors/cmd"
	"riskfactors/internal"
	"riskfactors/internal/app"
	"riskfactors/internal/domain"
	"riskfactors/internal/logger"
	"time"

	_ "github.com/lib/pq"
)

// ad-hoc entrypoint: run today's universe batch from the command line
// with phase timings printed at the end.
func main() {
	handler, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(handler)

	profile, endProfile := domain.NewRunProfile()
	ctx := domain.WithProfile(context.Background(), profile)
	ctx = context.WithValue(ctx, logger.ContextKey, handler.Logger)

	report, err := handler.UniverseBatchService.Run(ctx, app.RunInput{
		Date: time.Now().UTC(),
	})
	if err != nil {
		log.Fatal(err)
	}
	endProfile()

	internal.Pprint(report)
	timings, err := profile.ToJsonBytes()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(timings))
}
