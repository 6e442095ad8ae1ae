package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"maskkit/service"
)

var (
	synthSource  string
	synthDataDir string
	synthTiers   []string
	synthWorkers int
)

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize",
	Short: "把源掩码重采样到每个分辨率层，生成与图片同名的掩码",
	RunE: func(cmd *cobra.Command, args []string) error {
		source := synthSource
		if source == "" {
			source = cfg.Pipeline.SourceMask
		}
		if source == "" {
			return fmt.Errorf("source mask not set: use --source or pipeline.source_mask")
		}
		dataDir := synthDataDir
		if dataDir == "" {
			dataDir = cfg.Pipeline.DataDir
		}
		names := synthTiers
		if len(names) == 0 {
			names = cfg.Pipeline.Tiers
		}
		workers := synthWorkers
		if workers <= 0 {
			workers = cfg.Pipeline.Workers
		}

		s := service.NewSynthesizer(service.NewResampler(), workers)
		report, err := s.Synthesize(cmd.Context(), source, service.TiersFor(dataDir, names))
		if err != nil {
			return err
		}

		for _, tr := range report.Tiers {
			fmt.Printf("层 %s：写入 %d，跳过 %d -> %s\n", tr.Tier, tr.Written, tr.Skipped, tr.MasksDir)
		}
		fmt.Printf("共写入 %d 个掩码，跳过 %d 个\n", report.TotalWritten, report.TotalSkipped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(synthesizeCmd)
	synthesizeCmd.Flags().StringVar(&synthSource, "source", "", "源掩码路径（默认取配置 pipeline.source_mask）")
	synthesizeCmd.Flags().StringVar(&synthDataDir, "data", "", "数据根目录（默认取配置 pipeline.data_dir）")
	synthesizeCmd.Flags().StringSliceVar(&synthTiers, "tiers", nil, "图片目录列表（默认取配置 pipeline.tiers）")
	synthesizeCmd.Flags().IntVar(&synthWorkers, "workers", 0, "单层内的并发数（默认取配置 pipeline.workers）")
}
