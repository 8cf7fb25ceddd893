package main

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/tauraamui/maskdaemon/pkg/configdef"
	data "github.com/tauraamui/maskdaemon/pkg/database"
	"github.com/tauraamui/maskdaemon/pkg/database/models"
	"github.com/tauraamui/maskdaemon/pkg/database/repos"
	"github.com/tauraamui/maskdaemon/pkg/detector"
	"github.com/tauraamui/maskdaemon/pkg/detector/inference"
	"github.com/tauraamui/maskdaemon/pkg/detector/onnxlandmark"
	"github.com/tauraamui/maskdaemon/pkg/ingest"
	"github.com/tauraamui/maskdaemon/pkg/log"
	"github.com/tauraamui/maskdaemon/pkg/present"
	"github.com/tauraamui/maskdaemon/pkg/video/affine"
	"github.com/tauraamui/maskdaemon/pkg/video/videoframe"
	"github.com/tauraamui/maskdaemon/pkg/video/yuv"
	"github.com/tauraamui/xerror"
	"golang.org/x/term"
)

type scoreOptions struct {
	ModelPath          string
	RuntimeLibrary     string
	InputSize          int
	DetectionThreshold float64
	Rotation           int
	OutputDir          string
	Record             bool
}

// openDetector returns a detector along with a func that tears it down.
var openDetector = func(opts scoreOptions) (detector.Detector, func(), error) {
	if err := inference.Initialize(opts.RuntimeLibrary); err != nil {
		return nil, nil, err
	}
	d, err := onnxlandmark.New(opts.ModelPath, opts.InputSize, float32(opts.DetectionThreshold))
	if err != nil {
		inference.Shutdown() //nolint
		return nil, nil, err
	}
	inv := detector.NewInvoker(d)
	return inv, func() {
		if err := inv.Close(); err != nil {
			log.Error(err.Error())
		}
		inference.Shutdown() //nolint
	}, nil
}

var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func newScoreCmd() *cobra.Command {
	opts := scoreOptions{}
	cmd := &cobra.Command{
		Use:   "score <images...>",
		Short: "Score still images through the same pipeline the daemon runs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.ModelPath, "model", "m", "", "path to the 68 point landmark model")
	cmd.Flags().StringVar(&opts.RuntimeLibrary, "onnxruntime", "", "path to the onnxruntime shared library")
	cmd.Flags().IntVarP(&opts.InputSize, "input-size", "s", configdef.DefaultInputSize, "side of the square frame fed to the model")
	cmd.Flags().Float64VarP(&opts.DetectionThreshold, "threshold", "t", configdef.DefaultDetectionThreshold, "minimum face confidence")
	cmd.Flags().IntVarP(&opts.Rotation, "rotation", "r", 0, "rotation applied after cropping (0, 90, 180 or 270)")
	cmd.Flags().StringVarP(&opts.OutputDir, "out", "o", "", "write annotated frames into this directory")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "store scores in the history database")
	return cmd
}

func runScore(cmd *cobra.Command, opts scoreOptions, paths []string) error {
	rotation := affine.Rotation(opts.Rotation)
	if !rotation.Valid() {
		return xerror.Errorf("%w: %d", affine.ErrInvalidRotation, opts.Rotation)
	}

	d, closeDetector, err := openDetector(opts)
	if err != nil {
		return xerror.Errorf("unable to load detector: %w", err)
	}
	defer closeDetector()

	var recorder *repos.ScoreRepository
	if opts.Record {
		db, err := data.Connect(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		recorder = &repos.ScoreRepository{DB: db}
	}

	in := ingest.New(opts.InputSize, affine.Fixed(rotation))
	bar := newProgressBar(len(paths))
	out := cmd.OutOrStdout()

	failed := 0
	for _, path := range paths {
		if cmd.Context() != nil && cmd.Context().Err() != nil {
			return cmd.Context().Err()
		}
		if err := scoreFile(out, path, opts, in, d, recorder); err != nil {
			log.Error("Unable to score %s: %v", path, err)
			failed++
		}
		if bar != nil {
			bar.Add(1) //nolint
		}
	}
	if bar != nil {
		bar.Finish() //nolint
	}

	if failed > 0 {
		return xerror.Errorf("%d of %d images could not be scored", failed, len(paths))
	}
	return nil
}

func newProgressBar(total int) *progressbar.ProgressBar {
	if total < 2 || !isTerminal(os.Stderr) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Scoring"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)
}

func scoreFile(out io.Writer, path string, opts scoreOptions, in *ingest.Ingestor, d detector.Detector, recorder *repos.ScoreRepository) error {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return err
	}

	lease, err := in.OnFrame(rawFromImage(img))
	if err != nil {
		return err
	}
	defer lease.Release()

	results, err := scoreFrame(lease.Frame, d)
	if err != nil {
		return err
	}

	for i, r := range results {
		fmt.Fprintf(out, "%s\tface %d\tconfidence %.2f\tscore %s\n", path, i, r.Detection.Score, r.Score)
	}
	if len(results) == 0 {
		fmt.Fprintf(out, "%s\tno faces\n", path)
	}

	if len(opts.OutputDir) > 0 {
		if err := present.Annotate(lease.Frame, results); err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + "_scored.png"
		if err := imaging.Save(lease.Frame, filepath.Join(opts.OutputDir, name)); err != nil {
			return xerror.Errorf("unable to save annotated frame: %w", err)
		}
	}

	if recorder != nil {
		for _, r := range results {
			if err := recorder.Create(&models.ScoreRecord{
				FrameUUID: lease.ID,
				Camera:    filepath.Base(path),
				FaceCount: len(results),
				Score:     r.Score.Value,
				Defined:   r.Score.Defined,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// rawFromImage presents a decoded still as a sensor frame so it takes the
// same conversion path as camera frames.
func rawFromImage(img image.Image) videoframe.Raw {
	p := yuv.FromRGBA(img)
	return videoframe.NewRaw(
		videoframe.Dimensions{W: p.Width, H: p.Height},
		[]videoframe.Plane{
			{Data: p.Y, RowStride: p.YRowStride, PixelStride: 1},
			{Data: p.U, RowStride: p.UVRowStride, PixelStride: p.UVPixelStride},
			{Data: p.V, RowStride: p.UVRowStride, PixelStride: p.UVPixelStride},
		},
		nil,
	)
}

// scoreFrame scores every face before any of them is drawn.
func scoreFrame(frame *image.RGBA, d detector.Detector) ([]present.Result, error) {
	detections, err := d.Detect(frame)
	if err != nil {
		return nil, err
	}
	results, skipped := present.ScoreAll(frame, detections)
	for _, err := range skipped {
		log.Warn("Skipping face: %v", err)
	}
	return results, nil
}
