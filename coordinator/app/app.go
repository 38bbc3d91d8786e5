// Package app wires a listening gRPC server up to a registry of
// in-flight coordinators, so backend workers can call back into whichever
// query's coordinator dispatched them.
package app

import (
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/shardedsql/qcoord/pkg/config"
	"github.com/shardedsql/qcoord/pkg/qlog"
	"github.com/shardedsql/qcoord/pkg/rpcpb"
)

// App owns the process-wide gRPC listener that every in-flight query's
// CallbackServer registers against.
type App struct {
	registry *Registry
}

func NewApp(registry *Registry) *App {
	return &App{registry: registry}
}

// Run serves the coordinator callback API until the listener fails.
func (app *App) Run() error {
	qlog.Zero.Info().Msg("running coordinator app")
	return app.ServeGrpcApi()
}

func (app *App) ServeGrpcApi() error {
	serv := grpc.NewServer()
	reflection.Register(serv)

	rpcpb.RegisterCoordinatorCallbackServiceServer(serv, app.registry)

	address := net.JoinHostPort(config.Get().Host, config.Get().GrpcPort)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		qlog.Zero.Error().Err(err).Msg("error serving coordinator grpc callback service")
		return err
	}

	qlog.Zero.Info().Str("address", address).Msg("serving coordinator grpc callback service")
	return serv.Serve(listener)
}
