package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"maskkit/config"
	"maskkit/utils"
)

// 构建时通过 -ldflags 注入
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "maskkit",
	Short: "重建数据集的掩码生成与校验工具",
	Long: `maskkit 把单个二值掩码重采样到多分辨率图片层，
为 transforms.json 写入掩码路径，并用两条独立解码路径差分校验掩码文件。`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			loaded, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = loaded
		} else {
			cfg = config.New()
		}
		return utils.InitLogger(cfg.Server.Mode, cfg.Server.LogFile)
	},
}

// Execute 运行根命令
func Execute() {
	rootCmd.Version = Version
	err := rootCmd.Execute()
	utils.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件路径（默认读取 config.yaml）")
}
