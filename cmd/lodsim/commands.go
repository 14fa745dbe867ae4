package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/voyager-lod/internal/config"
	"github.com/Faultbox/voyager-lod/internal/logger"
	"github.com/Faultbox/voyager-lod/internal/scene"
	"github.com/Faultbox/voyager-lod/pkg/lod"
	"github.com/Faultbox/voyager-lod/pkg/math"
)

var errUsage = errors.New("missing scene file")

// simulation couples a scene with the controller that manages it.
type simulation struct {
	scene *scene.Scene
	ctrl  *lod.Controller
	cfg   *config.Config
	frame int
}

func newSimulation(cfg *config.Config, args []string) (*simulation, error) {
	if len(args) < 1 {
		return nil, errUsage
	}
	settings, err := cfg.LOD.Settings()
	if err != nil {
		return nil, err
	}
	sc, err := scene.LoadFile(args[0])
	if err != nil {
		return nil, err
	}
	ctrl, err := lod.NewController(settings, logger.Named("lod"))
	if err != nil {
		return nil, err
	}

	logger.Info("scene loaded",
		zap.String("scene", sc.Name),
		zap.Int("models", len(sc.Models())),
		zap.Int64("budget", settings.Budget))

	return &simulation{scene: sc, ctrl: ctrl, cfg: cfg}, nil
}

// step runs one frame and advances the camera.
func (s *simulation) step(w io.Writer) lod.Result {
	res := s.ctrl.Update(s.scene.Frame(s.cfg.LOD.Enabled, s.cfg.Simulation.Force))
	for _, d := range res.Decisions {
		if d.Applied {
			fmt.Fprintf(w, "frame %4d  %-16s %-7s -> %-7s weight %.4f\n",
				s.frame, d.ID, d.Current, d.Final, d.Weight)
		}
	}
	if res.OverBudget {
		fmt.Fprintf(w, "frame %4d  over budget: %d px\n", s.frame, res.Total)
	}
	s.scene.Step()
	s.frame++
	return res
}

func (s *simulation) printQualities(w io.Writer) {
	fmt.Fprintln(w, "Final qualities:")
	for _, m := range s.scene.Models() {
		fmt.Fprintf(w, "  %-16s %s\n", m.ID(), m.Quality())
	}
}

func cmdRun(cfg *config.Config, args []string, w io.Writer) error {
	sim, err := newSimulation(cfg, args)
	if err != nil {
		return err
	}

	passes, changes := 0, 0
	for i := 0; i < cfg.Simulation.Frames; i++ {
		res := sim.step(w)
		if res.Ran {
			passes++
		}
		changes += res.Changed
	}

	fmt.Fprintf(w, "\nFrames:  %d\n", cfg.Simulation.Frames)
	fmt.Fprintf(w, "Passes:  %d\n", passes)
	fmt.Fprintf(w, "Changes: %d\n", changes)
	sim.printQualities(w)
	return nil
}

func cmdScore(cfg *config.Config, args []string, w io.Writer) error {
	sim, err := newSimulation(cfg, args)
	if err != nil {
		return err
	}

	frame := sim.scene.Frame(cfg.LOD.Enabled, true)
	res := sim.ctrl.Run(frame)
	if !res.Ran {
		fmt.Fprintln(w, "Level of detail is disabled.")
		return nil
	}

	fmt.Fprintf(w, "%-16s %-8s %-38s %-8s %-8s %-8s %s\n",
		"ID", "WEIGHT", "NDC", "CURRENT", "PROPOSED", "FINAL", "APPLIED")
	for _, d := range res.Decisions {
		fmt.Fprintf(w, "%-16s %-8.4f %-38s %-8s %-8s %-8s %t\n",
			d.ID, d.Weight, formatBox(d.NDC), d.Current, d.Proposed, d.Final, d.Applied)
	}
	fmt.Fprintf(w, "\nTexture total: %d / %d px\n", res.Total, sim.ctrl.Settings().Budget)
	if res.OverBudget {
		fmt.Fprintln(w, "Over budget even at the lowest tier.")
	}
	return nil
}

// cmdWatch runs frames on a ticker until ctx is done. When configPath names
// a file, edits to it replace the controller settings between frames.
func cmdWatch(ctx context.Context, cfg *config.Config, configPath string, args []string, w io.Writer) error {
	sim, err := newSimulation(cfg, args)
	if err != nil {
		return err
	}

	reloads := make(chan *config.Config, 1)
	if configPath != "" {
		go func() {
			err := config.Watch(ctx, configPath,
				func(c *config.Config) {
					select {
					case reloads <- c:
					case <-ctx.Done():
					}
				},
				func(err error) {
					logger.Warn("config reload failed", zap.Error(err))
				})
			if err != nil {
				logger.Error("config watcher stopped", zap.Error(err))
			}
		}()
		logger.Info("watching config", zap.String("path", configPath))
	}

	tick := cfg.Simulation.TickRate
	if tick <= 0 {
		tick = time.Second / 30
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sim.printQualities(w)
			return nil
		case next := <-reloads:
			settings, err := next.LOD.Settings()
			if err != nil {
				logger.Warn("ignoring config", zap.Error(err))
				continue
			}
			if err := sim.ctrl.SetSettings(settings); err != nil {
				logger.Warn("ignoring config", zap.Error(err))
				continue
			}
			cfg.LOD = next.LOD
			fmt.Fprintf(w, "frame %4d  settings reloaded\n", sim.frame)
		case <-ticker.C:
			sim.step(w)
		}
	}
}

func cmdConfig(cfg *config.Config, args []string, w io.Writer) error {
	if len(args) == 0 {
		data, err := cfg.Marshal(false)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	switch args[0] {
	case "save":
		if len(args) > 1 {
			if err := cfg.SaveTo(args[1]); err != nil {
				return err
			}
			fmt.Fprintf(w, "Saved %s\n", args[1])
			return nil
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintf(w, "Saved %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
		return nil
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

func formatBox(b math.Box3) string {
	if b.IsEmpty() {
		return "-"
	}
	return fmt.Sprintf("x[%.2f,%.2f] y[%.2f,%.2f] z[%.2f,%.2f]",
		b.Min.X, b.Max.X, b.Min.Y, b.Max.Y, b.Min.Z, b.Max.Z)
}
