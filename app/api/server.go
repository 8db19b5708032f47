package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/eed-project/eedx/app/api/controller"
	"github.com/eed-project/eedx/app/api/types"
	"github.com/eed-project/eedx/pkg/utils"
)

// NewServer attaches the router to the app's HTTP server.
func NewServer(app *types.App) error {
	ctler := controller.NewController(app)
	router := ctler.NewRouter()

	// use <ip>:<port> to bind a specific interface or :<port> for all
	addr := utils.Env("ADDR", ":3000")

	app.Server = &http.Server{Addr: addr, Handler: controller.WithCORS(router)}
	app.Logger.Info("starting server", zap.String("addr", addr))

	return nil
}
