// Command pixfx applies pixfx filters to image files and converts raw YUV camera frames.
package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/soypat/pixfx"
	"github.com/soypat/pixfx/filters"
	"github.com/soypat/pixfx/internal/lanes"
	"github.com/soypat/pixfx/yuv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		confFile string
		logLevel string
	)
	cf := NewConfig()
	root := &cobra.Command{
		Use:          "pixfx",
		Short:        "In-place RGBA filters and YUV conversion",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if confFile != "" {
				loaded, err := NewConfigFromFile(confFile)
				if err != nil {
					return err
				}
				*cf = *loaded
			}
			if cmd.Flags().Changed("log-level") {
				cf.LogLevel = logLevel
			}
			return cf.Apply()
		},
	}
	root.PersistentFlags().StringVar(&confFile, "config", os.Getenv("PIXFX_CONFIG"), "path to TOML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", DefaultConfig.LogLevel, "log level: debug, info, warn or error")
	root.AddCommand(newFilterCmd(cf), newYUVCmd(cf), newInfoCmd())
	return root
}

func newFilterCmd(cf *Config) *cobra.Command {
	var (
		kind   string
		mode   string
		radius int
		sigma  float32
		useGPU bool
	)
	cmd := &cobra.Command{
		Use:   "filter [flags] <input> <output>",
		Short: "Apply a filter to an image file",
		Long:  "Apply a filter to an image file. Supported kinds: " + kindNames() + ".",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := filters.ParseKind(kind)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("radius") {
				cf.Blur.Radius = radius
			}
			if cmd.Flags().Changed("sigma") {
				cf.Blur.Sigma = sigma
			}
			if cmd.Flags().Changed("mode") {
				cf.Mode = mode
			}
			execMode, err := cf.ExecMode()
			if err != nil {
				return err
			}
			img, err := readRGBA(args[0])
			if err != nil {
				return err
			}
			var f pixfx.Filter
			if useGPU {
				device, queue, err := filters.OpenGPU()
				if err != nil {
					return err
				}
				gf, err := filters.NewGPU(k, device, queue)
				if err != nil {
					return err
				}
				defer gf.Cleanup()
				f = gf
			} else if f, err = cf.Filter(k); err != nil {
				return err
			}
			if err := filters.Apply(pixfx.BufferFromRGBA(img), f, execMode); err != nil {
				return err
			}
			pixfx.Logger().Info("filtered", "kind", k, "mode", execMode, "gpu", useGPU, "output", args[1])
			return writeImage(args[1], img)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&kind, "kind", "k", filters.KindGrayscale.String(), "filter kind")
	fl.StringVar(&mode, "mode", DefaultConfig.Mode, "execution mode: scalar or simd")
	fl.IntVar(&radius, "radius", DefaultConfig.Blur.Radius, "blur radius in pixels")
	fl.Float32Var(&sigma, "sigma", DefaultConfig.Blur.Sigma, "blur standard deviation")
	fl.BoolVar(&useGPU, "gpu", false, "run grayscale or negative on a WebGPU device")
	return cmd
}

func newYUVCmd(cf *Config) *cobra.Command {
	var (
		layout        string
		mode          string
		width, height int
	)
	cmd := &cobra.Command{
		Use:   "yuv [flags] <input.yuv> <output>",
		Short: "Convert a raw 4:2:0 YUV frame to an image file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("mode") {
				cf.Mode = mode
			}
			execMode, err := cf.ExecMode()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var frame yuv.Frame
			switch strings.ToLower(layout) {
			case "nv21":
				frame, err = yuv.NV21(data, width, height)
			case "nv12":
				frame, err = yuv.NV12(data, width, height)
			case "i420":
				frame, err = yuv.I420(data, width, height)
			default:
				err = fmt.Errorf("%w: unknown layout %q", pixfx.ErrInvalidParameter, layout)
			}
			if err != nil {
				return err
			}
			dst := pixfx.NewBuffer(width, height)
			if err := yuv.ToRGBA(frame, dst, execMode); err != nil {
				return err
			}
			return writeImage(args[1], dst.RGBA())
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&layout, "layout", "nv21", "frame layout: nv21, nv12 or i420")
	fl.StringVar(&mode, "mode", DefaultConfig.Mode, "execution mode: scalar or simd")
	fl.IntVar(&width, "width", 0, "frame width in pixels")
	fl.IntVar(&height, "height", 0, "frame height in pixels")
	cmd.MarkFlagRequired("width")
	cmd.MarkFlagRequired("height")
	return cmd
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print CPU features and the SIMD block width",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "arch:       %s/%s\n", runtime.GOOS, runtime.GOARCH)
			fmt.Fprintf(w, "cpus:       %d (GOMAXPROCS %d)\n", runtime.NumCPU(), runtime.GOMAXPROCS(0))
			fmt.Fprintf(w, "features:   %s\n", strings.Join(lanes.Features(), " "))
			fmt.Fprintf(w, "lane width: %d pixels\n", lanes.Width())
			fmt.Fprintf(w, "filters:    %s\n", kindNames())
		},
	}
}

func kindNames() string {
	names := make([]string, len(filters.Kinds))
	for i, k := range filters.Kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}
