package scheduler

import (
	"context"
	"time"

	"github.com/mdouchement/logger"
	"github.com/robfig/cron/v3"
	"github.com/whatever-dev-ws/p5-tool-uploader/internal/manifest"
)

// A Controller is an Inversion Of Control pattern used to init the scheduler package.
type Controller struct {
	Logger        logger.Logger
	Manifests     *manifest.Repository
	Specification string
}

// Start launches the scheduler asynchronously. The only job is a read-only
// manifest report, so it never competes with the upload write path.
func Start(c Controller) {
	cron := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))

	log := c.Logger.WithPrefix("[scheduler]")

	_, err := cron.AddFunc(c.Specification, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		tools, outputs, err := c.Manifests.Stats(ctx)
		if err != nil {
			log.Error(err)
			return
		}

		log.Infof("Manifest holds %d tools and %d outputs", tools, outputs)
	})
	if err != nil {
		panic(err)
	}
	log.Info("Manifest report task registred")

	cron.Start()
	log.Info("Scheduler is running")
}
