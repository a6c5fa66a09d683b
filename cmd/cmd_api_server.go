package cmd

import (
	"context"

	"articledesk/pkg/db"
	"articledesk/pkg/hub"
	"articledesk/pkg/nsc"
	"articledesk/pkg/server"
	"articledesk/pkg/signals"
	"articledesk/pkg/store"
	"articledesk/pkg/util"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func NewServerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "启动api服务",
		Run: func(cmd *cobra.Command, args []string) {
			configFilePath := cmd.Root().PersistentFlags().Lookup("config").Value.String()

			cfg, err := server.TryLoadFromDisk(configFilePath)
			if err != nil {
				zap.S().Errorf("配置文件加载错误:%s", err.Error())
				return
			}
			if errs := cfg.Validate(); len(errs) > 0 {
				for _, e := range errs {
					zap.S().Errorf("配置错误: %s", e.Error())
				}
				return
			}
			ctx := signals.SetupSignalHandler()
			_ = startServer(cfg, ctx)
		},
	}
	return cmd
}

func startServer(cfg *server.Config, ctx context.Context) error {
	zap.S().Infof("***  %s %s ***", util.AppName, util.GetVersion().Version)

	//可选的NATS事件镜像
	var natsClient *nsc.NatsPubClient
	if cfg.Nats.Enabled() {
		if err := nsc.InitNats(cfg.ClientName, cfg.Nats); err != nil {
			zap.S().Fatal(err)
		}
		natsClient = nsc.GetNatsClient()
	}

	//初始化存储
	var (
		st  store.Store
		err error
	)
	switch cfg.Store {
	case server.StoreModeFile:
		zap.S().Infof("*** 使用file存储模式: %s ***", cfg.DataDir)
		st, err = store.NewBadgerStore(cfg.DataDir)
	default:
		if err := db.InitDB(cfg.DB); err != nil {
			zap.S().Fatalf("无法连接数据库。%s", err.Error())
		}
		st, err = store.NewGormStore(db.GetDB())
	}
	if err != nil {
		zap.S().Fatalf("初始化存储失败。%s", err.Error())
	}

	//实时推送hub
	liveHub := hub.NewHub()

	//启动web服务
	handler := server.NewHandler(cfg, st, liveHub, natsClient)
	webServer := server.NewServer(cfg, handler)

	g, c := errgroup.WithContext(ctx)
	g.Go(func() error {
		return webServer.Run()
	})
	g.Go(func() error {
		<-c.Done()
		if err := st.Close(); err != nil {
			zap.S().Errorf("关闭存储失败: %v", err)
		}
		if natsClient != nil {
			natsClient.Close()
		}
		_ = webServer.GracefulShutdown(c)
		return c.Err()
	})
	return g.Wait()
}
