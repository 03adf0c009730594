package cmd

import (
	"os"

	"github.com/shacklettbp/miwe/log"
	"github.com/urfave/cli"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = log.New("miwe")

func setupLogging(ctx *cli.Context) {
	if logFile := ctx.GlobalString("log-file"); logFile != "" {
		log.SetSinks(os.Stdout, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    ctx.GlobalInt("log-max-size"),
			MaxBackups: 3,
			Compress:   true,
		})
	}

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
