package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/depechec0de/yagabor/yagabor"
	"github.com/depechec0de/yagabor/yagabor/debug"
	"github.com/depechec0de/yagabor/yagabor/video"
)

type headlessOptions struct {
	romPath          string
	frames           int
	snapshotInterval int
	snapshotDir      string
	snapshotFormat   string
}

// runHeadless runs a fixed number of frames, logging a digest of each one and
// saving snapshots at the requested interval.
func runHeadless(ctx context.Context, emu *yagabor.DMG, opts headlessOptions) error {
	if opts.frames <= 0 {
		return errors.New("headless mode requires --frames option with a positive value")
	}
	if opts.snapshotFormat != "png" && opts.snapshotFormat != "txt" {
		return fmt.Errorf("unknown snapshot format %q", opts.snapshotFormat)
	}

	if opts.snapshotInterval > 0 {
		if opts.snapshotDir == "" {
			dir, err := os.MkdirTemp("", "yagabor-snapshots-*")
			if err != nil {
				return fmt.Errorf("failed to create snapshot directory: %w", err)
			}
			opts.snapshotDir = dir
		} else if err := os.MkdirAll(opts.snapshotDir, 0o755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	romName := strings.TrimSuffix(filepath.Base(opts.romPath), filepath.Ext(opts.romPath))

	slog.Info("Running headless mode", "frames", opts.frames, "snapshot_interval", opts.snapshotInterval, "snapshot_dir", opts.snapshotDir)

	for i := 1; i <= opts.frames; i++ {
		if err := ctx.Err(); err != nil {
			slog.Info("Headless execution interrupted", "completed", i-1)
			return nil
		}
		if err := emu.RunUntilFrame(); err != nil {
			return err
		}

		slog.Debug("frame", "n", i, "digest", fmt.Sprintf("%016x", debug.FrameDigest(emu.Frame())))

		if opts.snapshotInterval > 0 && i%opts.snapshotInterval == 0 {
			path := filepath.Join(opts.snapshotDir, fmt.Sprintf("%s_frame_%d.%s", romName, i, opts.snapshotFormat))
			if err := saveSnapshot(emu, path, opts.snapshotFormat); err != nil {
				slog.Error("Failed to save snapshot", "frame", i, "path", path, "error", err)
			} else {
				slog.Info("Saved frame snapshot", "frame", i, "path", path)
			}
		}
	}

	slog.Info("Headless execution completed", "frames", opts.frames, "instructions", emu.InstructionCount())
	slog.Debug("lcd", "state", debug.ReadLCDState(debug.ReaderFunc(emu.Peek)).FormatSummary())
	if out := emu.SerialOutput(); out != "" {
		slog.Info("Serial output", "text", out)
	}
	return nil
}

func saveSnapshot(emu *yagabor.DMG, path, format string) error {
	if format == "png" {
		return debug.SavePNG(emu.Frame(), path, video.ScreenWidth, video.ScreenHeight)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return debug.WriteText(file, emu.Frame(), emu.FrameCount(), video.ScreenWidth, video.ScreenHeight)
}
