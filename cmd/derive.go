package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"maskkit/service"
)

var (
	deriveOutput  string
	deriveMaskDir string
	deriveSuffix  string
)

var deriveCmd = &cobra.Command{
	Use:   "derive-paths <transforms.json>",
	Short: "为 transforms.json 的每个 frame 写入推导出的掩码路径",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maskDir := deriveMaskDir
		if maskDir == "" {
			maskDir = cfg.Manifest.MaskDir
		}
		suffix := deriveSuffix
		if suffix == "" {
			suffix = cfg.Manifest.MaskSuffix
		}

		d := service.NewManifestDeriver(maskDir, suffix)
		report, err := d.DeriveFile(args[0], deriveOutput)
		if err != nil {
			return err
		}

		fmt.Printf("共 %d 个 frame，更新 %d 个 -> %s\n", report.Frames, report.Updated, report.Output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deriveCmd)
	deriveCmd.Flags().StringVar(&deriveOutput, "output", "", "输出路径（默认原地覆盖输入文件）")
	deriveCmd.Flags().StringVar(&deriveMaskDir, "mask-dir", "", "掩码子目录名（默认取配置 manifest.mask_dir）")
	deriveCmd.Flags().StringVar(&deriveSuffix, "mask-suffix", "", "掩码文件名后缀（默认取配置 manifest.mask_suffix）")
}
