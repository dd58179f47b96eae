package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ivlev/edgeoverlay/internal/config"
	"github.com/ivlev/edgeoverlay/internal/render"
	"github.com/ivlev/edgeoverlay/internal/system"
	"github.com/ivlev/edgeoverlay/internal/texture"
)

const defaultInputDir = "input"

func newRenderCommand(root *rootOptions) *cobra.Command {
	flags := config.Default()

	cmd := &cobra.Command{
		Use:   "render [input]",
		Short: "Render the edge overlay for an image, image directory, PDF or pattern",
		Long: `Render the edge overlay for every frame of the input.

Input can be an image file, a directory of images, a PDF (one frame per page)
or a generated pattern: qr:<text>, split[:WxH], uniform[:WxH], alpha[:WxH].
Without an input the newest image in ./input is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root.ConfigPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, cfg, flags)
			if len(args) == 1 {
				cfg.Input = args[0]
			}
			cfg.BuildVersion = version

			if cfg.Input == "" {
				latest, err := system.FindLatestImage(defaultInputDir)
				if err != nil {
					return fmt.Errorf("%w. Положите текстуру в %s/ или укажите input", err, defaultInputDir)
				}
				cfg.Input = latest
				fmt.Fprintf(cmd.OutOrStdout(), "[*] Выбран файл: %s\n", cfg.Input)
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			src, err := texture.Open(cfg.Input, cfg.DPI)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer src.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "--- [EDGE OVERLAY] ---")
			fmt.Fprintf(cmd.OutOrStdout(), "[*] Вход: %s | Кадров: %d\n", cfg.Input, src.Count())
			fmt.Fprintf(cmd.OutOrStdout(), "[*] Смещение: %v текс. %v | Бит: %d | Адресация: %s\n",
				cfg.OffsetTexels, cfg.Offset, cfg.Bits, cfg.Addressing)

			r := render.NewRenderer(cfg, src)
			r.Out = cmd.OutOrStdout()
			report, err := r.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "[+++] Успех! Кадров: %d, краевых фрагментов: %d из %d\n",
				len(report.Frames), report.Edges, report.Fragments)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.Input, "input", "i", "", "input image, directory, PDF or pattern")
	f.StringVarP(&flags.Output, "output", "o", "", "output file or directory (default output/<name>_edges.png, '-' to skip writing)")
	f.IntVar(&flags.Width, "width", 0, "render target width (0 = texture width)")
	f.IntVar(&flags.Height, "height", 0, "render target height (0 = texture height)")
	f.Float32SliceVar(&flags.Offset, "offset", nil, "neighbor offset in normalized units: x,y")
	f.Float32Var(&flags.OffsetTexels, "offset-texels", flags.OffsetTexels, "neighbor offset in texels (overrides --offset when > 0)")
	f.IntVar(&flags.Bits, "bits", flags.Bits, "texture bits per channel; tolerance is one quantization step")
	f.Float32SliceVar(&flags.Tolerance, "tolerance", nil, "explicit tolerance: one value or r,g,b,a")
	f.StringVar(&flags.Addressing, "addressing", flags.Addressing, "texture addressing: clamp, repeat, border")
	f.IntVarP(&flags.Workers, "workers", "w", 0, "parallel row bands (0 = GOMAXPROCS)")
	f.IntVar(&flags.DPI, "dpi", flags.DPI, "PDF rasterization DPI")
	f.BoolVar(&flags.ShowStats, "stats", false, "print a performance report and append it to the stats log")
	f.StringVar(&flags.StatsLog, "stats-log", flags.StatsLog, "stats log file")
	f.BoolVar(&flags.ASCII, "ascii", false, "print the overlay mask as text")
	f.IntVar(&flags.MinRegion, "min-region", flags.MinRegion, "smallest outline (in pixels) counted in the report")

	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// applyFlags copies explicitly set flags over the file configuration.
func applyFlags(cmd *cobra.Command, cfg, flags *config.Config) {
	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("input", func() { cfg.Input = flags.Input })
	set("output", func() { cfg.Output = flags.Output })
	set("width", func() { cfg.Width = flags.Width })
	set("height", func() { cfg.Height = flags.Height })
	set("offset", func() {
		cfg.Offset = flags.Offset
		if !cmd.Flags().Changed("offset-texels") {
			cfg.OffsetTexels = 0
		}
	})
	set("offset-texels", func() { cfg.OffsetTexels = flags.OffsetTexels })
	set("bits", func() { cfg.Bits = flags.Bits })
	set("tolerance", func() { cfg.Tolerance = flags.Tolerance })
	set("addressing", func() { cfg.Addressing = flags.Addressing })
	set("workers", func() { cfg.Workers = flags.Workers })
	set("dpi", func() { cfg.DPI = flags.DPI })
	set("stats", func() { cfg.ShowStats = flags.ShowStats })
	set("stats-log", func() { cfg.StatsLog = flags.StatsLog })
	set("ascii", func() { cfg.ASCII = flags.ASCII })
	set("min-region", func() { cfg.MinRegion = flags.MinRegion })
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
