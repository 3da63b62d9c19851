package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"dario.cat/mergo"
	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"
	"github.com/sblinch/kdl-go"
	"golang.org/x/sync/errgroup"

	"github.com/pancsta/recipai"
	"github.com/pancsta/recipai/shared"
)

func init() {
	if os.Getenv(shared.EnvNoDotEnv) == "" {
		godotenv.Load()
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	version := "devel"
	if info, ok := debug.ReadBuildInfo(); ok {
		version = info.Main.Version
	}

	// config file (optional)
	cfgFile := "config.kdl"
	if v := os.Getenv(shared.EnvConfig); v != "" {
		cfgFile = v
	}
	var cfgUser recipai.Config
	if cfgData, err := os.ReadFile(cfgFile); err == nil {
		if err := kdl.Unmarshal(cfgData, &cfgUser); err != nil {
			fmt.Printf("error parsing config file: %v\n", err)
			os.Exit(1)
		}
	}
	cfg := recipai.ConfigDefault()
	if err := mergo.Merge(&cfg, cfgUser, mergo.WithOverride); err != nil {
		panic(err)
	}

	// CLI and env on top
	arg.MustParse(&cfg)

	// init
	a, err := recipai.New(ctx, &cfg)
	if err != nil {
		panic(err)
	}

	// splash
	shared.P(`
		%s %s

		Data: %s
	`, cfg.Agent.Label, version, cfg.Dir)
	if cfg.Log.File != "" {
		shared.P(`

			Log:
			$ tail -f %s -n 100
		`, cfg.Log.File)
	}
	fmt.Println()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Start()
		<-a.Mach().WhenDisposed()
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		disposeCtx, cancel := context.WithTimeout(
			context.Background(), 5*time.Second)
		defer cancel()
		a.Stop(disposeCtx)
		return nil
	})

	_ = g.Wait()
	print("bye")
}
