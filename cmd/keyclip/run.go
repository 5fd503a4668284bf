package main

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/keagan/keyclip/internal/assembler"
	"github.com/keagan/keyclip/internal/clips"
	"github.com/keagan/keyclip/internal/config"
	"github.com/keagan/keyclip/internal/ffmpeg"
	"github.com/keagan/keyclip/internal/pipeline"
	"github.com/keagan/keyclip/pkg/util"
)

var (
	flagStride    int
	flagMotion    bool
	flagAnalyzer  string
	flagKeepTemp  bool
	flagOutputDir string
)

var runCmd = &cobra.Command{
	Use:   "run [video]",
	Short: "Extract keyframe clips and build the highlight video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		opts := optionsFromConfig(cfg, args[0])

		flags := cmd.Flags()
		if flags.Changed("stride") {
			opts.Stride = flagStride
		}
		if flags.Changed("motion") {
			opts.MotionFilter = flagMotion
		}
		if flags.Changed("analyzer") {
			opts.Analyzer = flagAnalyzer
		}
		if flags.Changed("keep-temp") {
			opts.KeepTemp = flagKeepTemp
		}
		if flags.Changed("output-dir") {
			opts.OutputDir = flagOutputDir
		}

		pipe, err := pipeline.New(log.Logger, cfg)
		if err != nil {
			return err
		}

		summary, err := pipe.Run(cmd.Context(), opts)
		if err != nil {
			return err
		}

		fmt.Println(renderSummary(summary))
		return nil
	},
}

func optionsFromConfig(cfg *config.Config, source string) pipeline.Options {
	return pipeline.Options{
		Source:       source,
		OutputDir:    cfg.OutputDir,
		Stride:       cfg.Sampling.StrideSeconds,
		MotionFilter: cfg.Sampling.MotionFilter,
		Analyzer:     cfg.Sampling.MotionAnalyzer,
		KeepTemp:     cfg.Cleanup.KeepTemp,
	}
}

var assembleOutput string

var assembleCmd = &cobra.Command{
	Use:   "assemble [clip directory]",
	Short: "Re-run the combining stage over an existing clip directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		media, err := ffmpeg.New(log.Logger, ffmpeg.Config{
			FFmpegPath:  cfg.FFmpeg.BinaryPath,
			FFprobePath: cfg.FFmpeg.ProbePath,
			Threads:     cfg.FFmpeg.Threads,
		})
		if err != nil {
			return err
		}

		workDir := args[0]
		found, err := clips.ScanDir(workDir)
		if err != nil {
			return err
		}

		output := assembleOutput
		if output == "" {
			output = filepath.Join(workDir, "..", "keyframe_highlights.mp4")
		}

		result, err := assembler.New(log.Logger, media).Assemble(cmd.Context(), found, workDir, output)
		if err != nil {
			return err
		}

		fmt.Println(renderTable(
			[]string{"", "Clips", "Duration"},
			[][]string{
				{"valid", fmt.Sprintf("%d", len(result.Valid)), util.FormatSeconds(clips.TotalDuration(result.Valid))},
				{"discarded", fmt.Sprintf("%d", len(result.Discarded)), util.FormatSeconds(clips.TotalDuration(result.Discarded))},
			},
			[]columnAlignment{alignLeft, alignRight, alignRight},
		))
		fmt.Printf("output: %s\n", result.OutputPath)
		return nil
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe [video]",
	Short: "Show media metadata for a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		media, err := ffmpeg.New(log.Logger, ffmpeg.Config{
			FFmpegPath:  cfg.FFmpeg.BinaryPath,
			FFprobePath: cfg.FFmpeg.ProbePath,
		})
		if err != nil {
			return err
		}

		info, err := media.ProbeVideo(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		audio := "none"
		if info.HasAudio {
			audio = info.AudioCodec
		}
		fmt.Println(renderTable(
			[]string{"Field", "Value"},
			[][]string{
				{"file", info.FilePath},
				{"duration", util.FormatSeconds(info.Duration)},
				{"resolution", fmt.Sprintf("%dx%d", info.Width, info.Height)},
				{"fps", fmt.Sprintf("%.2f", info.FPS)},
				{"video codec", info.VideoCodec},
				{"audio", audio},
			},
			[]columnAlignment{alignLeft, alignLeft},
		))
		return nil
	},
}

func init() {
	runCmd.Flags().IntVar(&flagStride, "stride", 30, "seconds between sample offsets (10/15/20/30)")
	runCmd.Flags().BoolVar(&flagMotion, "motion", false, "skip fully static scenes")
	runCmd.Flags().StringVar(&flagAnalyzer, "analyzer", config.AnalyzerSizeDelta, "motion analyzer (size_delta|pixel_diff)")
	runCmd.Flags().BoolVar(&flagKeepTemp, "keep-temp", false, "keep the working directory after the run")
	runCmd.Flags().StringVar(&flagOutputDir, "output-dir", "", "destination directory (default: current directory)")

	assembleCmd.Flags().StringVarP(&assembleOutput, "output", "o", "", "final video path")
}
