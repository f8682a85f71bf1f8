package webserver

import (
	"fmt"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mdouchement/logger"
	"github.com/whatever-dev-ws/p5-tool-uploader/internal/manifest"
	"github.com/whatever-dev-ws/p5-tool-uploader/internal/store"
	middlewarepkg "github.com/whatever-dev-ws/p5-tool-uploader/internal/webserver/middleware"
	"github.com/whatever-dev-ws/p5-tool-uploader/internal/webserver/service"
)

// A Controller is an Inversion Of Control pattern used to init the server package.
type Controller struct {
	Version   string
	Logger    logger.Logger
	Store     store.Store
	Manifests *manifest.Repository
	//
	AllowedOrigin string
	Workshop      string
	GalleryURL    string
}

// EchoEngine instantiates the web server.
func EchoEngine(ctrl Controller) *echo.Echo {
	engine := echo.New()
	engine.Use(middleware.Gzip())
	engine.Use(middlewarepkg.Logger(ctrl.Logger))
	engine.Use(middlewarepkg.CORS(ctrl.AllowedOrigin))

	engine.HTTPErrorHandler = middlewarepkg.NewHTTPErrorHandler(ctrl.Logger)

	//
	//
	//

	router := engine.Group("")

	upload := upload{
		logger:  ctrl.Logger,
		tools:   service.NewToolUploader(ctrl.Store, ctrl.Manifests, ctrl.Workshop, ctrl.GalleryURL),
		outputs: service.NewOutputUploader(ctrl.Store, ctrl.Manifests, ctrl.Workshop, ctrl.GalleryURL),
	}
	router.POST("/upload/tool", upload.Tool)
	router.POST("/upload/output", upload.Output)

	return engine
}

// PrintRoutes prints the Echo engin exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}
