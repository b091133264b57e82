package cmd

import (
	"log/slog"
	"os"

	"github.com/shouni/go-robohash-kit/internal/config"

	"github.com/spf13/cobra"
)

// opts は各サブコマンドが共有するフラグの値なのだ。
var opts config.GenerateOptions

// assetsDir は --assets の値なのだ。空なら環境変数の設定を使うのだ。
var assetsDir string

var rootCmd = &cobra.Command{
	Use:   "robohash",
	Short: "文字列から再現可能なロボットのアバターを生成するのだ。",
	Long: `入力文字列の SHA-512 ダイジェストからパーツを選び、
いつ実行しても同じロボットの画像を作るのだ。`,
	SilenceUsage:      true,
	PersistentPreRunE: preRunAppE,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVarP(&assetsDir, "assets", "a", "", "アセットのルートディレクトリなのだ（既定は $ROBOHASH_ASSETS_DIR か assets）。")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "デバッグログを出力するのだ。")
}

// preRunAppE は、コマンド実行前にロガーを設定するのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	level := logLevel(config.LoadConfig(), opts.Verbose)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// logLevel は ROBOHASH_LOG_LEVEL の値を --verbose で上書きするのだ。
func logLevel(cfg *config.Config, verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return config.ParseLogLevel(cfg.LogLevel)
}

// loadConfig は環境変数の設定にフラグの値を重ねるのだ。
func loadConfig() *config.Config {
	cfg := config.LoadConfig()
	if assetsDir != "" {
		cfg.AssetsDir = assetsDir
	}
	if opts.Addr != "" {
		cfg.Addr = opts.Addr
	}
	cfg.Options = opts
	return cfg
}

func init() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(generateCmd, serveCmd)
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
