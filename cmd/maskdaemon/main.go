package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/tacusci/logging/v2"
	"github.com/takama/daemon"
	"github.com/tauraamui/maskdaemon/pkg/config"
	"github.com/tauraamui/maskdaemon/pkg/configdef"
	db "github.com/tauraamui/maskdaemon/pkg/database"
	"github.com/tauraamui/maskdaemon/pkg/log"
	"github.com/tauraamui/maskdaemon/pkg/maskd"
)

const (
	name        = "mask_daemon"
	description = "Mask daemon which scores camera frames for face covering"
)

type Service struct {
	daemon.Daemon
}

// Setup writes the default config and creates the score history database.
func (service *Service) Setup() (string, error) {
	log.Info("Setting up maskdaemon service...")

	err := config.DefaultCreator().Create()
	if err != nil {
		if !errors.Is(err, configdef.ErrConfigAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}

	values, err := config.DefaultResolver().Resolve()
	if err != nil {
		return "", err
	}

	err = db.Setup(values.ScoreLog.Path)
	if err != nil {
		if !errors.Is(err, db.ErrDBAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}

	return "Setup successful...", nil
}

func (service *Service) RemoveSetup() (string, error) {
	log.Info("Removing setup for maskdaemon service...")

	path := ""
	if values, err := config.DefaultResolver().Resolve(); err == nil {
		path = values.ScoreLog.Path
	}
	if err := db.Destroy(path); err != nil {
		log.Error("unable to delete database file: %s", err.Error())
	}

	if err := config.DefaultDestroyer().Destroy(); err != nil {
		log.Error("unable to delete config file: %s", err.Error())
	}

	return "Removing setup successful...", nil
}

func (service *Service) Manage() (string, error) {
	usage := "Usage: maskd setup | remove-setup | install | remove | start | stop | status"

	if len(os.Args) > 1 {
		command := os.Args[1]
		switch command {
		case "setup":
			return service.Setup()
		case "remove-setup":
			return service.RemoveSetup()
		case "install":
			return service.Install()
		case "remove":
			return service.Remove()
		case "start":
			return service.Start()
		case "stop":
			return service.Stop()
		case "status":
			return service.Status()
		default:
			return usage, nil
		}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	log.Info("Starting mask daemon...")

	server, err := maskd.NewServer(config.DefaultResolver(), nil)
	if err != nil {
		return "", err
	}

	ctx, cancelStartup := context.WithCancel(context.Background())
	startupErr := make(chan error, 1)
	go startupServer(ctx, server, startupErr)

	select {
	case killSignal := <-interrupt:
		fmt.Print("\r")
		log.Error("Received signal: %s", killSignal)
	case err := <-startupErr:
		log.Error("Unable to start server: %v", err)
	}

	cancelStartup()
	log.Info("Shutting down server...")
	<-server.Shutdown()

	return "Shutdown successful... BYE! 👋", nil
}

func startupServer(ctx context.Context, server *maskd.Server, errs chan<- error) {
	if err := server.ConnectWithCancel(ctx); err != nil {
		errs <- err
		return
	}
	server.SetupProcesses()
	server.RunProcesses()
}

func init() {
	log.SetLevelFromEnv()
}

func main() {
	daemonType := daemon.SystemDaemon
	if runtime.GOOS == "darwin" {
		daemonType = daemon.UserAgent
	}

	srv, err := daemon.New(name, description, daemonType)
	if err != nil {
		logging.Error(err.Error()) //nolint
		os.Exit(1)
	}

	service := &Service{srv}
	status, err := service.Manage()
	if err != nil {
		logging.Error(err.Error()) //nolint
		os.Exit(1)
	}

	logging.Info(status) //nolint
}
