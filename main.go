package main

import (
	"context"
	"encoding/base64"
	"flag"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/crossroad-sim/server"
	"github.com/tsinghua-fib-lab/crossroad-sim/task"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/config"
	"github.com/tsinghua-fib-lab/crossroad-sim/viewer"
)

var (
	// 配置文件路径，为空且未给出config-data时使用默认配置
	configPath = flag.String("config", "", "config file path")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")
	// RPC与websocket监听地址，覆盖配置中的server.listen
	listen = flag.String("listen", "", "RPC and websocket listening address (overrides server.listen)")
	// 运行模式
	// server: 只提供RPC与websocket服务
	// tui: 终端查看器，同时提供服务
	mode = flag.String("mode", "server", "run mode (server or tui)")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "日志级别（可选项：trace debug info warn error critical off）")
	logFile  = flag.String("log.file", "", "日志文件路径（tui模式下为空则丢弃日志）")

	log = logrus.WithField("module", "crossroad")
)

func loadConfig() config.Config {
	var file []byte
	var err error
	if *configPath != "" {
		file, err = os.ReadFile(*configPath)
		if err != nil {
			log.Panicf("config file load err: %v", err)
		}
	} else if *configData != "" {
		file, err = base64.StdEncoding.DecodeString(*configData)
		if err != nil {
			log.Panicf("config data load err: %v", err)
		}
	} else {
		log.Info("no config specified, using defaults")
		return config.Default()
	}
	c, err := config.Load(file)
	if err != nil {
		log.Panicf("config file load err: %v", err)
	}
	return c
}

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	// log: 运行时才修改
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Panicf("open log file err: %v", err)
		}
		defer f.Close()
		logrus.SetOutput(f)
	}

	c := loadConfig()
	if *listen != "" {
		c.Server.Listen = *listen
	}
	log.Infof("%+v", c)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := task.NewRunner(c)
	srv := server.New(runner, c.Server)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer stop()
		if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
			log.Errorf("runner: %v", err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := srv.ListenAndServe(ctx, c.Server.Listen); err != nil {
			log.Fatalf("failed to serve: %v", err)
		}
	}()

	switch *mode {
	case "server":
		<-ctx.Done()
	case "tui":
		if *logFile == "" {
			logrus.SetOutput(io.Discard)
		}
		screen, err := tcell.NewScreen()
		if err != nil {
			log.Panicf("new screen err: %v", err)
		}
		if err := screen.Init(); err != nil {
			log.Panicf("init screen err: %v", err)
		}
		viewer.New(screen, runner).Run(ctx)
		screen.Fini()
		stop()
	default:
		log.Panicf("unknown mode %q", *mode)
	}
	wg.Wait()
	log.Infof("exit")
}
