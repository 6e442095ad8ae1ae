package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"maskkit/model"
	"maskkit/service"
)

var (
	colorizeColor  string
	colorizeOutput string
)

var colorizeCmd = &cobra.Command{
	Use:   "colorize <图片目录> <掩码文件>",
	Short: "用掩码把目录下所有图片的背景涂成指定颜色",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		color, err := model.BGRFromSlice(cfg.Overlay.Color)
		if err != nil {
			color = model.DefaultOverlayColor
		}
		if colorizeColor != "" {
			color, err = model.ParseBGRColor(colorizeColor)
			if err != nil {
				return err
			}
		}
		output := colorizeOutput
		if output == "" {
			output = cfg.Overlay.OutputDir
		}

		report, err := service.NewColorizer().ColorizeFolder(cmd.Context(), args[0], args[1], output, color)
		if err != nil {
			return err
		}

		fmt.Printf("处理 %d 张，跳过 %d 张 -> %s\n", report.Processed, report.Skipped, report.OutputDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(colorizeCmd)
	colorizeCmd.Flags().StringVar(&colorizeColor, "color", "", "背景颜色，B,G,R 形式（默认取配置，红色）")
	colorizeCmd.Flags().StringVar(&colorizeOutput, "output", "", "输出目录（默认取配置 overlay.output_dir）")
}
