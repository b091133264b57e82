package cmd

import (
	"os/signal"
	"syscall"

	"github.com/shouni/go-robohash-kit/internal/builder"
	"github.com/shouni/go-robohash-kit/internal/server"

	"github.com/spf13/cobra"
)

// serveCmd は、アバターを HTTP で配信するサーバーを起動するのだ。
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "アバターを HTTP で配信するのだ。",
	Long: `GET /<text>[.<ext>]?set=&color=&bgset=&size=WxH でアバターを返すのだ。
GET /health はヘルスチェック用なのだよ。`,
	RunE: serveCommand,
}

func init() {
	serveCmd.Flags().StringVar(&opts.Addr, "addr", "", "待ち受けアドレスなのだ（既定は $ROBOHASH_ADDR か :8080）。")
}

func serveCommand(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := loadConfig()
	appCtx, err := builder.NewAppContext(cfg, nil)
	if err != nil {
		return err
	}

	return server.ListenAndServe(ctx, cfg.Addr, builder.BuildServer(appCtx).Handler())
}
