package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/depechec0de/yagabor/yagabor"
	"github.com/depechec0de/yagabor/yagabor/debug"
	"github.com/depechec0de/yagabor/yagabor/render"
	"github.com/depechec0de/yagabor/yagabor/video"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "yagabor"
	app.Description = "A DMG Game Boy emulator"
	app.Usage = "yagabor [options] <ROM file>"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.StringFlag{
			Name:  "boot-rom",
			Usage: "Path to a 256 byte DMG boot ROM, run before the cartridge",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the emulator without a terminal front-end",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.StringFlag{
			Name:  "snapshot-format",
			Usage: "Snapshot format, png or txt",
			Value: "png",
		},
		cli.StringFlag{
			Name:  "dump-tiles",
			Usage: "Write the tile data as a PNG to this path when the run ends",
		},
		cli.StringFlag{
			Name:  "dump-background",
			Usage: "Write the background map as a PNG to this path when the run ends",
		},
		cli.BoolFlag{
			Name:  "trace",
			Usage: "Log every executed instruction (implies --debug)",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() == 0 {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
		romPath = c.Args().Get(0)
	}

	level := slog.LevelInfo
	if c.Bool("debug") || c.Bool("trace") || c.Bool("headless") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	emu, err := yagabor.NewWithFile(romPath, yagabor.Config{
		BootROM: c.String("boot-rom"),
		Trace:   c.Bool("trace"),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if c.Bool("headless") {
		err = runHeadless(ctx, emu, headlessOptions{
			romPath:          romPath,
			frames:           c.Int("frames"),
			snapshotInterval: c.Int("snapshot-interval"),
			snapshotDir:      c.String("snapshot-dir"),
			snapshotFormat:   c.String("snapshot-format"),
		})
	} else {
		var term *render.Terminal
		term, err = render.NewTerminal(emu)
		if err == nil {
			err = term.Run(ctx)
		}
	}

	if err != nil {
		logFailure(emu, err)
		return err
	}
	return dumpViews(emu, c.String("dump-tiles"), c.String("dump-background"))
}

// logFailure logs where the CPU stopped, with the code that follows.
func logFailure(emu *yagabor.DMG, err error) {
	regs := emu.Registers()
	slog.Error("Emulation stopped",
		"error", err,
		"frame", emu.FrameCount(),
		"instructions", emu.InstructionCount(),
		"flags", regs.FlagString())
	slog.Debug("lcd", "state", debug.ReadLCDState(debug.ReaderFunc(emu.Peek)).FormatSummary())
	for _, line := range emu.Disassemble(4) {
		slog.Debug("code", "line", line.String())
	}
}

func dumpViews(emu *yagabor.DMG, tilesPath, backgroundPath string) error {
	if tilesPath != "" {
		w, h := video.TileDataCols*8, video.TileDataRows*8
		if err := debug.SavePNG(emu.TileData(), tilesPath, w, h); err != nil {
			return err
		}
		slog.Info("Tile data saved", "path", tilesPath)
	}
	if backgroundPath != "" {
		w, h := video.BackgroundCols*8, video.BackgroundRows*8
		if err := debug.SavePNG(emu.Background(), backgroundPath, w, h); err != nil {
			return err
		}
		slog.Info("Background saved", "path", backgroundPath)
	}
	return nil
}
