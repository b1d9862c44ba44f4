package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/solavote/solavote-node/config"
	"github.com/solavote/solavote-node/crypto/ethereum"
	"github.com/solavote/solavote-node/election"
	"github.com/solavote/solavote-node/log"
	"github.com/solavote/solavote-node/participation"
	"github.com/solavote/solavote-node/service"
	"github.com/solavote/solavote-node/storage"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"
)

func main() {
	conf := config.Default()
	configFile := flag.String("config", "", "YAML configuration file")
	datadir := flag.String("datadir", conf.Datadir, "data directory")
	logLevel := flag.String("logLevel", conf.Log.Level, "log level (debug, info, warn, error)")
	logOutput := flag.String("logOutput", conf.Log.Output, "log output (stdout, stderr or a file path)")
	apiHost := flag.String("apiHost", conf.API.Host, "API listen host")
	apiPort := flag.Int("apiPort", conf.API.Port, "API listen port")
	signerKey := flag.String("signerKey", "", "hex secp256k1 key signing participation credentials")
	requireRoot := flag.Bool("requireRoot", conf.Election.RequireRootOnPrivateStart,
		"reject starting private elections without commitment root")
	flag.Parse()

	if *configFile != "" {
		var err error
		if conf, err = config.Load(*configFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	// flags explicitly set override the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "datadir":
			conf.Datadir = *datadir
		case "logLevel":
			conf.Log.Level = log.FormatLevel(*logLevel)
		case "logOutput":
			conf.Log.Output = *logOutput
		case "apiHost":
			conf.API.Host = *apiHost
		case "apiPort":
			conf.API.Port = *apiPort
		case "signerKey":
			conf.SignerKey = *signerKey
		case "requireRoot":
			conf.Election.RequireRootOnPrivateStart = *requireRoot
		}
	})
	if err := conf.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log.Init(conf.Log.Level, conf.Log.Output, nil)

	if err := os.MkdirAll(conf.Datadir, 0o750); err != nil {
		log.Fatalf("cannot create data directory: %v", err)
	}
	database, err := metadb.New(db.TypePebble, conf.DatabasePath())
	if err != nil {
		log.Fatalf("cannot open database: %v", err)
	}
	stg := storage.New(database)
	defer stg.Close()

	signer, err := loadSigner(conf)
	if err != nil {
		log.Fatalf("cannot load participation signer: %v", err)
	}
	issuer := participation.NewIssuer(signer)
	log.Infow("participation issuer ready", "address", issuer.Address().Hex())

	elections, err := election.New(stg, issuer, &conf.Election)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	monitor := service.NewElectionMonitor(stg, time.Duration(conf.MonitorInterval)*time.Second)
	if err := monitor.Start(ctx); err != nil {
		log.Fatal(err)
	}
	defer monitor.Stop()

	apiService := service.NewAPI(stg, elections, conf.API.Host, conf.API.Port)
	if err := apiService.Start(ctx); err != nil {
		log.Fatal(err)
	}
	defer apiService.Stop()

	<-ctx.Done()
	log.Info("shutting down")
}

// loadSigner returns the configured signer key, or the one stored in the data
// directory, generating it on first run.
func loadSigner(conf *config.Config) (*ethereum.SignKeys, error) {
	signer := ethereum.NewSignKeys()
	if conf.SignerKey != "" {
		return signer, signer.AddHexKey(conf.SignerKey)
	}
	data, err := os.ReadFile(conf.SignerKeyPath())
	switch {
	case err == nil:
		return signer, signer.AddHexKey(strings.TrimSpace(string(data)))
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}
	if err := signer.Generate(); err != nil {
		return nil, err
	}
	_, priv := signer.HexString()
	if err := os.WriteFile(conf.SignerKeyPath(), []byte(priv+"\n"), 0o600); err != nil {
		return nil, err
	}
	log.Infow("generated participation signer key", "path", conf.SignerKeyPath())
	return signer, nil
}
