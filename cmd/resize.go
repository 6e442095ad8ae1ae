package cmd

import (
	"github.com/spf13/cobra"

	"maskkit/service"
)

var (
	resizeWidth  int
	resizeHeight int
)

var resizeCmd = &cobra.Command{
	Use:   "resize <输入掩码> <输出掩码>",
	Short: "把掩码二值化并重采样到指定尺寸",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewResampler().ResampleFile(args[0], args[1], resizeWidth, resizeHeight)
	},
}

func init() {
	rootCmd.AddCommand(resizeCmd)
	resizeCmd.Flags().IntVar(&resizeWidth, "width", 0, "目标宽度")
	resizeCmd.Flags().IntVar(&resizeHeight, "height", 0, "目标高度")
	resizeCmd.MarkFlagRequired("width")
	resizeCmd.MarkFlagRequired("height")
}
