// Command server runs the matching engine behind the TCP wire protocol
// internal/wire implements, the same shape as the teacher's cmd/server but
// wired to the generalized Engine/Server rather than a fixed AssetType
// engine with no admission control.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"fenrir/internal/decimal"
	"fenrir/internal/engine"
	"fenrir/internal/wire"
)

func main() {
	address := flag.String("address", "0.0.0.0", "listen address")
	port := flag.Int("port", 9001, "listen port")
	makerFee := flag.String("maker-fee", "0.001", "maker fee rate, e.g. 0.001 for 0.1%")
	takerFee := flag.String("taker-fee", "0.002", "taker fee rate, e.g. 0.002 for 0.2%")
	maxOrdersPerSec := flag.Int("max-orders-per-sec", engine.DefaultMaxOrdersPerSecond, "admission ceiling per trailing second")
	recyclerCap := flag.Int("recycler-capacity", 4096, "order recycler free-list capacity, 0 disables")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(level).With().Timestamp().Logger()

	makerRate, err := decimal.Parse(*makerFee)
	if err != nil {
		log.Fatal().Err(err).Str("maker-fee", *makerFee).Msg("invalid maker fee rate")
	}
	takerRate, err := decimal.Parse(*takerFee)
	if err != nil {
		log.Fatal().Err(err).Str("taker-fee", *takerFee).Msg("invalid taker fee rate")
	}

	eng := engine.New(engine.Config{
		MakerFeeRate:       makerRate,
		TakerFeeRate:       takerRate,
		MaxOrdersPerSecond: *maxOrdersPerSec,
		RecyclerCapacity:   *recyclerCap,
	}, log)

	srv := wire.New(*address, *port, eng, log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info().Str("address", *address).Int("port", *port).Msg("starting fenrir matching engine")
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}
