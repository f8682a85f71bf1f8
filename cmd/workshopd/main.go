package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"regexp"
	"runtime"
	"time"

	"github.com/mdouchement/logger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/whatever-dev-ws/p5-tool-uploader/internal/manifest"
	"github.com/whatever-dev-ws/p5-tool-uploader/internal/scheduler"
	"github.com/whatever-dev-ws/p5-tool-uploader/internal/store"
	"github.com/whatever-dev-ws/p5-tool-uploader/internal/webserver"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	binding string
	port    string
	dev     bool
)

func main() {
	c := &cobra.Command{
		Use:     "workshopd",
		Short:   "Upload gateway for p5.js workshop galleries",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    cobra.ExactArgs(0),
	}
	c.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Version for workshopd",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(c.Version)
		},
	})
	c.AddCommand(checkCmd)

	serverCmd.Flags().StringVarP(&binding, "binding", "b", "0.0.0.0", "Server's binding")
	serverCmd.Flags().StringVarP(&port, "port", "p", "5000", "Server's port")
	serverCmd.Flags().BoolVar(&dev, "dev", false, "Use an in-memory content store instead of the remote one")
	c.AddCommand(serverCmd)

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

var (
	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Check the content store and report manifest stats",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			manifests := manifest.NewRepository(store.NewGitHub(storeConfig()), workshop())

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			tools, outputs, err := manifests.Stats(ctx)
			if err != nil {
				return errors.Wrap(err, "could not read manifest")
			}

			fmt.Printf("%s: %d tools, %d outputs\n", workshop(), tools, outputs)
			return nil
		},
	}

	//

	serverCmd = &cobra.Command{
		Use:   "server",
		Short: "Start server",
		Args:  cobra.ExactArgs(0),
		RunE: func(c *cobra.Command, _ []string) error {
			ctrl := webserver.Controller{
				Version: c.Parent().Version,
				//
				AllowedOrigin: envORdefault("UPLOADER_ALLOWED_ORIGIN", "http://localhost:8080"),
				Workshop:      workshop(),
				GalleryURL:    envORdefault("UPLOADER_GALLERY_URL", "https://whatever-dev-ws.github.io/gallery"),
			}

			//

			log := logrus.New()
			log.SetFormatter(&logger.LogrusTextFormatter{
				DisableColors:   false,
				ForceColors:     true,
				ForceFormatting: true,
				PrefixRE:        regexp.MustCompile(`^(\[.*?\])\s`),
				FullTimestamp:   true,
				TimestampFormat: "2006-01-02 15:04:05",
			})
			ctrl.Logger = logger.WrapLogrus(log)

			//

			ctrl.Store = store.NewGitHub(storeConfig())
			if dev {
				ctrl.Store = store.NewMemory()
			}
			ctrl.Manifests = manifest.NewRepository(ctrl.Store, ctrl.Workshop)
			ctrl.Logger.Infof("Using %s content store for workshop %s", ctrl.Store.Name(), ctrl.Workshop)

			//

			scheduler.Start(scheduler.Controller{
				Logger:        ctrl.Logger,
				Manifests:     ctrl.Manifests,
				Specification: envORdefault("UPLOADER_REPORT_SPEC", "@every 5m"),
			})

			//

			engine := webserver.EchoEngine(ctrl)
			webserver.PrintRoutes(engine)

			listen := fmt.Sprintf("%s:%s", binding, port)
			log.Printf("Server listening on %s", listen)
			return errors.Wrap(
				engine.Start(listen),
				"could not run server",
			)
		},
	}
)

func storeConfig() store.Config {
	return store.Config{
		Token:     os.Getenv("UPLOADER_GITHUB_TOKEN"),
		Owner:     os.Getenv("UPLOADER_GITHUB_OWNER"),
		Repo:      os.Getenv("UPLOADER_GITHUB_REPO"),
		Branch:    envORdefault("UPLOADER_BRANCH", "main"),
		UserAgent: "p5-tool-uploader",
	}
}

func workshop() string {
	return envORdefault("UPLOADER_WORKSHOP", "workshop")
}

func envORdefault(name, fallback string) string {
	p := os.Getenv(name)
	if len(p) == 0 {
		return fallback
	}
	return p
}
