// sctool is a CLI utility for inspecting and rewriting Supercell SWF containers.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/scswf/internal/config"
	"github.com/Faultbox/scswf/internal/logger"
	"github.com/Faultbox/scswf/pkg/swf"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		err = cmdInfo(cfg, args)
	case "exports":
		err = cmdExports(cfg, args)
	case "clip":
		err = cmdClip(cfg, args)
	case "textures", "tex":
		err = cmdTextures(cfg, args)
	case "resave":
		err = cmdResave(cfg, args)
	case "config":
		err = cmdConfig(cfg, args)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Log.Error("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`sctool - Supercell SWF container utility

Usage:
  sctool [global options] <command> [options]

Global options:
  -config <file>      Config file (default ./sctool.yaml)
  -debug              Enable debug logging
  -compression <n>    Envelope version for resave (0-4)
  -format <png|bmp>   Texture export format
  -out <dir>          Output directory for exported textures

Commands:
  info <file.sc>...                  Show container summary
  exports <file.sc>                  List export names and ids
  clip <file.sc> <name|id>           Dump a movie clip timeline
  textures <file.sc> [-out dir]      Export textures as images
  resave <in.sc> <out.sc>            Decode and re-encode a container
  config show                        Print the effective configuration
  config init [path] [-force]        Write the default configuration file

Examples:
  sctool info ui.sc background.sc
  sctool clip ui.sc main_menu
  sctool -format bmp textures ui.sc -out ./textures
  sctool resave ui.sc ui_raw.sc -compression 0
  sctool config init`)
}

func loadOptions(cfg *config.Config) swf.Options {
	return swf.Options{
		Logger:               logger.Log,
		HighresSuffix:        cfg.Load.HighresSuffix,
		LowresSuffix:         cfg.Load.LowresSuffix,
		TextureExtension:     cfg.Load.TextureExtension,
		SkipExternalTextures: !cfg.Load.LoadExternalTextures,
	}
}

func open(cfg *config.Config, path string) (*swf.SupercellSWF, error) {
	return swf.LoadWithOptions(path, loadOptions(cfg))
}

func cmdInfo(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: sctool info <file.sc>...")
	}

	files := make([]*swf.SupercellSWF, len(args))
	var g errgroup.Group
	for i, path := range args {
		g.Go(func() error {
			f, err := open(cfg, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, f := range files {
		if i > 0 {
			fmt.Println()
		}
		printInfo(f)
	}
	return nil
}

func printInfo(f *swf.SupercellSWF) {
	fmt.Printf("File:         %s\n", f.Filename())
	fmt.Printf("Shapes:       %d\n", f.ShapesCount())
	fmt.Printf("Movie clips:  %d\n", f.MovieClipsCount())
	fmt.Printf("Text fields:  %d\n", f.TextFieldsCount())
	fmt.Printf("Modifiers:    %d\n", f.ModifiersCount())
	fmt.Printf("Textures:     %d\n", f.TexturesCount())
	fmt.Printf("Exports:      %d\n", f.ExportsCount())
	fmt.Printf("Matrix banks: %d\n", len(f.MatrixBanks()))
	for i, bank := range f.MatrixBanks() {
		fmt.Printf("  [%d] %d matrices, %d color transforms\n", i, bank.MatricesCount(), bank.ColorTransformsCount())
	}

	if f.UseExternalTexture {
		fmt.Printf("External texture: %s\n", f.TexturePath())
	}
	if f.UseUncommonResolution {
		fmt.Printf("Uncommon resolution: %s\n", f.UncommonResolutionTexturePath())
	}
	for _, tex := range f.Textures() {
		fmt.Printf("  %s\n", tex)
	}

	if fonts := f.FontNames(); len(fonts) > 0 {
		fmt.Printf("Fonts: %s\n", strings.Join(fonts, ", "))
	}
	if diags := f.Diagnostics(); len(diags) > 0 {
		fmt.Printf("Skipped tags: %d\n", len(diags))
		for _, d := range diags {
			fmt.Printf("  %s\n", d)
		}
	}
}

func cmdExports(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: sctool exports <file.sc>")
	}

	f, err := open(cfg, args[0])
	if err != nil {
		return err
	}

	exports := append([]swf.Export(nil), f.Exports()...)
	sort.Slice(exports, func(i, j int) bool {
		return exports[i].Name < exports[j].Name
	})
	for _, e := range exports {
		clip, err := f.GetOriginalMovieClip(e.ID, e.Name)
		if err != nil {
			return err
		}
		fmt.Printf("%6d  %4d frames  %s\n", e.ID, len(clip.Frames), e.Name)
	}
	return nil
}

// resolveClip accepts an export name or a numeric movie clip id.
func resolveClip(f *swf.SupercellSWF, ref string) (*swf.MovieClipOriginal, error) {
	if id, err := strconv.ParseUint(ref, 10, 16); err == nil {
		return f.GetOriginalMovieClip(uint16(id), "")
	}
	return f.GetExportedMovieClip(ref)
}

func cmdClip(cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: sctool clip <file.sc> <name|id>")
	}

	f, err := open(cfg, args[0])
	if err != nil {
		return err
	}

	clip, err := resolveClip(f, args[1])
	if err != nil {
		return err
	}
	if err := clip.CreateTimelineChildren(f); err != nil {
		return err
	}

	dumpClip(os.Stdout, f, clip)
	return nil
}

func cmdTextures(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("textures", flag.ExitOnError)
	out := fs.String("out", cfg.Export.OutputDir, "Output directory")
	format := fs.String("format", cfg.Export.ImageFormat, "Image format (png, bmp)")
	positional := parseInterspersed(fs, args)

	if len(positional) < 1 {
		return fmt.Errorf("usage: sctool textures <file.sc> [-out dir] [-format png|bmp]")
	}

	f, err := open(cfg, positional[0])
	if err != nil {
		return err
	}

	written, err := exportTextures(f, *out, *format)
	if err != nil {
		return err
	}
	for _, path := range written {
		fmt.Println(path)
	}
	return nil
}

func cmdResave(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("resave", flag.ExitOnError)
	version := fs.Uint("compression", uint(cfg.Save.Compression), "Envelope version (0-4)")
	positional := parseInterspersed(fs, args)

	if len(positional) < 2 {
		return fmt.Errorf("usage: sctool resave <in.sc> <out.sc> [-compression n]")
	}
	in, out := positional[0], positional[1]

	f, err := open(cfg, in)
	if err != nil {
		return err
	}

	opts := swf.SaveOptions{
		Compression:      uint32(*version),
		TextureExtension: cfg.Load.TextureExtension,
	}
	if err := f.Save(out, opts); err != nil {
		return err
	}

	logger.Log.Info("container saved",
		zap.String("in", in),
		zap.String("out", out),
		zap.Uint32("compression", opts.Compression))
	return nil
}

func cmdConfig(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: sctool config <show|init> [path] [-force]")
	}

	switch args[0] {
	case "show":
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		if cfg.Source != "" {
			fmt.Printf("# loaded from %s\n", cfg.Source)
		}
		fmt.Print(string(data))
		return nil
	case "init":
		fs := flag.NewFlagSet("config init", flag.ExitOnError)
		force := fs.Bool("force", false, "Overwrite an existing file")
		positional := parseInterspersed(fs, args[1:])

		path := config.DefaultPath()
		if len(positional) > 0 {
			path = positional[0]
		}
		if err := config.Default().SaveTo(path, *force); err != nil {
			return err
		}
		logger.Sugar.Infow("config written", "path", path)
		fmt.Println(path)
		return nil
	}
	return fmt.Errorf("unknown config command: %s", args[0])
}

// parseInterspersed parses fs over args, allowing flags after positional
// arguments, and returns the positional arguments in order.
func parseInterspersed(fs *flag.FlagSet, args []string) []string {
	var positional []string
	for {
		fs.Parse(args)
		args = fs.Args()
		if len(args) == 0 {
			return positional
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}
