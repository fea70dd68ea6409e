package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/epistula/epistula-go/cache"
	"github.com/epistula/epistula-go/client"
	"github.com/epistula/epistula-go/core"
	"github.com/epistula/epistula-go/datatransfer"
	"github.com/epistula/epistula-go/prefs"
	logsvc "github.com/epistula/epistula-go/services/logger"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds)

	conf := core.NewConfig()

	var logSvc core.Logger
	if conf.RollbarToken != "" {
		logSvc = logsvc.NewRollbarLogger(logger, conf)
	} else {
		logSvc = core.NewStdLogger(logger, conf.Debug)
	}

	apiClient := client.New(conf, cache.New(conf.CacheTTL), logSvc, nil)

	prefStore, err := prefs.Open(filepath.Join(filepath.Dir(conf.TokenPath), "prefs.json"))
	errAndDie(err)

	cli := commandLine{
		conf:     conf,
		client:   apiClient,
		transfer: datatransfer.NewService(apiClient),
		prefs:    prefStore,
		stdout:   os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
