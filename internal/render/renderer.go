package render

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ivlev/edgeoverlay/internal/analyzer"
	"github.com/ivlev/edgeoverlay/internal/config"
	"github.com/ivlev/edgeoverlay/internal/logging"
	"github.com/ivlev/edgeoverlay/internal/system"
	"github.com/ivlev/edgeoverlay/internal/texture"
)

// Renderer draws the edge overlay for every frame of a source.
type Renderer struct {
	Config *config.Config
	Source texture.Source

	// Out receives progress lines and ASCII masks. Nil means os.Stdout.
	Out io.Writer
}

// FrameResult describes one rendered frame.
type FrameResult struct {
	Name    string
	Output  string
	Stats   Stats
	Regions []analyzer.Region
}

// Report summarizes a whole run.
type Report struct {
	RunID     string
	Frames    []FrameResult
	Fragments int
	Edges     int
	Duration  time.Duration
	Host      system.Host
}

func NewRenderer(cfg *config.Config, src texture.Source) *Renderer {
	return &Renderer{Config: cfg, Source: src}
}

func (r *Renderer) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}

// Run renders every frame in order. The first failing frame stops the run.
func (r *Renderer) Run(ctx context.Context) (*Report, error) {
	if err := r.Config.Validate(); err != nil {
		return nil, err
	}

	count := r.Source.Count()
	if count == 0 {
		return nil, fmt.Errorf("source has no frames")
	}

	start := time.Now()
	report := &Report{RunID: uuid.NewString()}
	log := logging.Logger().With("run", report.RunID)
	log.Info("render started", "frames", count, "input", r.Config.Input)

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fr, err := r.renderFrame(ctx, i, count)
		if err != nil {
			return nil, fmt.Errorf("frame %s: %w", r.Source.Name(i), err)
		}
		report.Frames = append(report.Frames, fr)
		report.Fragments += fr.Stats.Fragments
		report.Edges += fr.Stats.Edges
		fmt.Fprintf(r.out(), "[>] Ready: %d/%d %s (контуров: %d)\n", i+1, count, fr.Output, len(fr.Regions))
	}

	report.Duration = time.Since(start)
	log.Info("render finished", "fragments", report.Fragments, "edges", report.Edges, "duration", report.Duration)

	if r.Config.ShowStats {
		report.Host = system.HostInfo()
		fmt.Fprint(r.out(), report.String(r.Config.BuildVersion))
		if err := r.appendStatsLog(report); err != nil {
			fmt.Fprintf(r.out(), "[!] Не удалось записать %s: %v\n", r.Config.StatsLog, err)
		}
	}

	return report, nil
}

func (r *Renderer) renderFrame(ctx context.Context, index, count int) (FrameResult, error) {
	name := r.Source.Name(index)
	img, err := r.Source.Load(index)
	if err != nil {
		return FrameResult{}, err
	}

	tex := texture.FromImage(img, texture.ClampToEdge)
	params, err := r.Config.Resolve(tex.TexelSize())
	if err != nil {
		return FrameResult{}, err
	}
	tex = tex.WithAddressing(params.Addressing)

	w, h := r.Config.Width, r.Config.Height
	if w == 0 {
		w = tex.Width()
	}
	if h == 0 {
		h = tex.Height()
	}

	workers := r.Config.Workers
	if workers == 0 {
		workers = system.DefaultWorkers()
	}

	dst := system.GetImage(image.Rect(0, 0, w, h))
	defer system.PutImage(dst)

	pass := &Pass{
		Sampler:   tex,
		Offset:    params.Offset,
		Tolerance: params.Tolerance,
		Workers:   workers,
	}
	st, err := pass.Run(ctx, dst)
	if err != nil {
		return FrameResult{}, err
	}

	regions := analyzer.Regions(dst, r.Config.MinRegion)
	log := logging.Logger()
	for _, reg := range regions {
		log.Debug("outline", "frame", name, "rect", reg.Rect, "pixels", reg.Pixels)
	}

	if r.Config.ASCII {
		fmt.Fprintf(r.out(), "%s (%dx%d):\n%s", name, w, h, FormatMask(dst))
	}

	output := r.outputPath(name, count)
	if output != "" {
		if err := WriteImage(output, dst); err != nil {
			return FrameResult{}, err
		}
	}

	return FrameResult{Name: name, Output: output, Stats: st, Regions: regions}, nil
}

// outputPath picks the file for a frame. A single frame goes to
// Config.Output as given; several frames, or an Output without an image
// extension, are written into that directory. "-" disables writing.
func (r *Renderer) outputPath(name string, count int) string {
	out := r.Config.Output
	switch {
	case out == "-":
		return ""
	case out == "":
		return filepath.Join("output", name+"_edges.png")
	case count == 1 && texture.IsImageFile(out):
		return out
	default:
		return filepath.Join(out, name+"_edges.png")
	}
}

func (rep *Report) String(build string) string {
	fps := 0.0
	if rep.Duration > 0 {
		fps = float64(len(rep.Frames)) / rep.Duration.Seconds()
	}
	return fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Run: %s\n"+
			"Build: %s\n"+
			"Host: %s\n"+
			"Frames: %d\n"+
			"Fragments: %d (edges: %d)\n"+
			"Total Time: %.3fs\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		rep.RunID, build, rep.Host, len(rep.Frames), rep.Fragments, rep.Edges, rep.Duration.Seconds(), fps,
	)
}

func (r *Renderer) appendStatsLog(rep *Report) error {
	if r.Config.StatsLog == "" {
		return nil
	}
	line := fmt.Sprintf("[%s] Run: %s | Build: %s | Input: %s | Frames: %d | Fragments: %d | Edges: %d | Total: %.3fs\n",
		time.Now().Format("2006-01-02 15:04:05"),
		rep.RunID,
		r.Config.BuildVersion,
		filepath.Base(r.Config.Input),
		len(rep.Frames),
		rep.Fragments,
		rep.Edges,
		rep.Duration.Seconds(),
	)

	f, err := os.OpenFile(r.Config.StatsLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
