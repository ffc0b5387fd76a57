package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"liftbank/src/config"
	"liftbank/src/console"
	"liftbank/src/driver"
	"liftbank/src/system"
	"liftbank/src/utils"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	envPath := flag.String("env", ".env", "env file with LIFTBANK_* overrides")
	driverAddrs := flag.String("driver", "", "comma-separated motor server addresses, one per cab, e.g. localhost:15657,localhost:15658")
	logPath := flag.String("log", "", "also write logs to this file")
	flag.Parse()

	if err := run(*configPath, *envPath, *driverAddrs, *logPath); err != nil {
		slog.Error("Elevator bank stopped", "error", err)
		os.Exit(1)
	}
}

func run(configPath, envPath, driverAddrs, logPath string) error {
	cfg, err := config.Load(configPath, envPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logFile, err := utils.InitLogger(cfg.SlogLevel(), logPath)
	if err != nil {
		return fmt.Errorf("logger setup: %w", err)
	}
	defer logFile.Close()

	var sink driver.Sink = driver.LogSink{}
	var sensorConns []net.Conn
	if driverAddrs != "" {
		addrs := strings.Split(driverAddrs, ",")
		if len(addrs) != cfg.NumElevators {
			return fmt.Errorf("got %d motor server addresses for %d elevators", len(addrs), cfg.NumElevators)
		}
		cabs := make(driver.ByCab, len(addrs))
		for cab, addr := range addrs {
			addr = strings.TrimSpace(addr)
			// Commands and sensor queries each get their own connection.
			cmdConn, err := net.Dial("tcp", addr)
			if err != nil {
				return fmt.Errorf("motor server for elevator %d: %w", cab, err)
			}
			defer cmdConn.Close()
			sensorConn, err := net.Dial("tcp", addr)
			if err != nil {
				return fmt.Errorf("motor server for elevator %d: %w", cab, err)
			}
			defer sensorConn.Close()
			cabs[cab] = driver.NewFrameSink(cmdConn, nil)
			sensorConns = append(sensorConns, sensorConn)
			slog.Info("Connected to motor server", "elevator", cab, "addr", addr)
		}
		sink = driver.Multi{driver.LogSink{}, cabs}
	}

	bank, err := system.New(cfg, sink)
	if err != nil {
		return fmt.Errorf("start elevator bank: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return bank.Run(ctx) })
	g.Go(func() error { return console.Run(ctx, os.Stdin, bank, nil) })
	for cab, conn := range sensorConns {
		poller := driver.NewPoller(cab, conn, cfg.NumFloors, bank, nil)
		g.Go(func() error { return poller.Run(ctx, cfg.SensorPollRate) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	slog.Info("Elevator bank shut down")
	return nil
}
