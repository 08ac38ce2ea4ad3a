package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
)

// DecodeVideo decodes every frame of a video file to grayscale and rescales
// each frame by the given factor. Frames are returned as [T][H][W] float32
// with values in the 0-255 pixel range.
func DecodeVideo(ctx context.Context, path string, scale float64) ([][][]float32, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, NewError(ErrCodeMediaIO, path, "video file not accessible", err)
	}

	width, height, err := probeDimensions(ctx, path)
	if err != nil {
		return nil, err
	}

	raw, err := decodeGrayFrames(ctx, path)
	if err != nil {
		return nil, err
	}

	frameSize := width * height
	if frameSize == 0 || len(raw)%frameSize != 0 {
		return nil, NewError(ErrCodeDecoding, path,
			fmt.Sprintf("raw frame data length %d does not divide into %dx%d frames", len(raw), width, height), nil)
	}
	numFrames := len(raw) / frameSize
	if numFrames == 0 {
		return nil, NewError(ErrCodeDecoding, path, "video contains no frames", nil)
	}

	targetW := int(math.Round(float64(width) * scale))
	targetH := int(math.Round(float64(height) * scale))
	if targetW < 1 || targetH < 1 {
		return nil, NewError(ErrCodeDecoding, path,
			fmt.Sprintf("scale factor %g collapses %dx%d frames", scale, width, height), nil)
	}

	frames := make([][][]float32, numFrames)
	for t := 0; t < numFrames; t++ {
		src := &image.Gray{
			Pix:    raw[t*frameSize : (t+1)*frameSize],
			Stride: width,
			Rect:   image.Rect(0, 0, width, height),
		}
		dst := image.NewGray(image.Rect(0, 0, targetW, targetH))
		draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

		frame := make([][]float32, targetH)
		for y := 0; y < targetH; y++ {
			row := make([]float32, targetW)
			for x := 0; x < targetW; x++ {
				row[x] = float32(dst.Pix[y*dst.Stride+x])
			}
			frame[y] = row
		}
		frames[t] = frame
	}

	return frames, nil
}

// probeDimensions reads the native frame size of the first video stream
func probeDimensions(ctx context.Context, path string) (int, int, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=s=x:p=0",
		path)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &bytes.Buffer{}

	if err := cmd.Run(); err != nil {
		return 0, 0, NewError(ErrCodeDecoding, path, "ffprobe failed", err)
	}

	dims := strings.Split(strings.TrimSpace(out.String()), "x")
	if len(dims) != 2 {
		return 0, 0, NewError(ErrCodeDecoding, path,
			fmt.Sprintf("unexpected ffprobe output %q", out.String()), nil)
	}

	width, err := strconv.Atoi(dims[0])
	if err != nil {
		return 0, 0, NewError(ErrCodeDecoding, path, "could not parse frame width", err)
	}
	height, err := strconv.Atoi(dims[1])
	if err != nil {
		return 0, 0, NewError(ErrCodeDecoding, path, "could not parse frame height", err)
	}

	return width, height, nil
}

// decodeGrayFrames shells out to ffmpeg for a raw grayscale frame dump
func decodeGrayFrames(ctx context.Context, path string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner", "-v", "error",
		"-i", path,
		"-f", "rawvideo",
		"-pix_fmt", "gray",
		"pipe:1")

	var out bytes.Buffer
	var errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		return nil, NewError(ErrCodeDecoding, path,
			"ffmpeg decode failed: "+strings.TrimSpace(errOut.String()), err)
	}

	return out.Bytes(), nil
}
