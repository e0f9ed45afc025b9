package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/creativeplatform/tokengate/internal/appinit"
	"github.com/creativeplatform/tokengate/internal/blockchain/entitlement"
	"github.com/creativeplatform/tokengate/internal/blockchain/entitlement/ethimpl"
	"github.com/creativeplatform/tokengate/internal/controller"
	"github.com/creativeplatform/tokengate/internal/global"
	"github.com/creativeplatform/tokengate/internal/identity"
	"github.com/creativeplatform/tokengate/internal/service"
	"github.com/creativeplatform/tokengate/pkg/accesskey"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	var configPath string

	serveFunc := getServeFunc(&configPath)

	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"s"},
				Usage:   "Start the token gate server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "conf",
						Aliases:     []string{"c"},
						Value:       "server.yaml",
						EnvVars:     []string{"TG_CONF"},
						Destination: &configPath,
					},
				},
				Action: serveFunc,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

func getServeFunc(configPath *string) func(c *cli.Context) error {
	serveFunc := func(c *cli.Context) error {
		// Load serve info from `server.yaml`
		serverInfo, err := appinit.LoadServerInfo(*configPath)
		if err != nil {
			return err
		}

		// Configuration errors surface here, at startup, never per-request
		accessKeySecret, err := appinit.LoadSecretFromEnv(serverInfo.AccessKeySecretEnv)
		if err != nil {
			return err
		}

		sessionSignKey, err := appinit.LoadSecretFromEnv(serverInfo.SessionSignKeyEnv)
		if err != nil {
			return err
		}

		// Create an RPC client per supported chain
		if err = appinit.InstantiateRPCClients(serverInfo.Chains); err != nil {
			return err
		}

		// Connect the local database if one is configured. Without it the gate
		// still works; the audit log and the denylist are simply off.
		if serverInfo.MySQLDSN != "" {
			if err = appinit.SetupLocalDB(serverInfo.MySQLDSN); err != nil {
				return err
			}
		}

		// Instantiate the access key codec
		codec, err := accesskey.NewCodec(accessKeySecret, serverInfo.WindowSeconds, nil)
		if err != nil {
			return err
		}

		// Instantiate the entitlement checker, cached if a TTL is configured
		var checker entitlement.Checker
		checker, err = ethimpl.NewEntitlementCheckerEthImpl(global.RPCClientInstances, time.Duration(serverInfo.RPCTimeoutSeconds)*time.Second)
		if err != nil {
			return err
		}

		if serverInfo.EntitlementCacheTTLSeconds > 0 {
			checker = entitlement.NewCachedChecker(checker, time.Duration(serverInfo.EntitlementCacheTTLSeconds)*time.Second)
		}

		// Instantiate an identity resolver
		identityResolver := identity.NewJWTResolver(sessionSignKey)

		// Instantiate a gate service
		gateSvc := &service.GateService{
			Codec:            codec,
			IdentityResolver: identityResolver,
			Checker:          checker,
			DB:               global.DBInstance,
		}

		// Instantiate controllers
		// Instantiate a ping pong controller
		pingPongController := &controller.PingPongController{}

		// Instantiate a token gate controller
		tokenGateController := &controller.TokenGateController{
			GroupName:        "/",
			GateSvc:          gateSvc,
			IdentityResolver: identityResolver,
		}

		// Register controller handlers
		router := gin.Default()
		router.Use(controller.CORSMiddleware())
		apiv1Group := router.Group("/api/v1")
		controller.RegisterHandlers(apiv1Group, pingPongController)
		controller.RegisterHandlers(apiv1Group, tokenGateController)

		// Start the HTTP server
		httpServer := &http.Server{
			Addr:    fmt.Sprintf(":%v", serverInfo.Port),
			Handler: router,
		}

		chanError := make(chan error)
		go func() {
			if err := httpServer.ListenAndServe(); err != nil {
				chanError <- errors.Wrap(err, "failed to start the HTTP server")
			}
		}()

		// Listen Ctrl+C signals. On receiving a signal stops the app elegantly
		chanQuit := make(chan os.Signal, 1)
		signal.Notify(chanQuit, os.Interrupt)
		select {
		case err := <-chanError:
			return err
		case <-chanQuit:
			log.Infoln("Received a Ctrl+C signal. Quitting the app...")

			// Stop the HTTP server elegantly
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			log.Infoln("Stopping the HTTP server...")
			if err := httpServer.Shutdown(ctx); err != nil {
				return errors.Wrap(err, "failed to stop the HTTP server normally")
			}
		}

		return nil
	}

	return serveFunc
}
