package main

import (
	stdLog "log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Astemirdum/library-rental/app"
	"github.com/Astemirdum/library-rental/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Println("load envs from .env ", zap.Error(err))
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)

	app.Run(cfg)
}
