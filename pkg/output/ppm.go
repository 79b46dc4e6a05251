package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// WritePPM writes the framebuffer as a plain-text P3 pixmap: the format
// tag, width and height, the max channel value, then one "r g b" line per
// pixel in row-major order starting at the top row.
func WritePPM(w io.Writer, fb *renderer.Framebuffer) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n%d\n", fb.Width, fb.Height, renderer.MaxChannelValue); err != nil {
		return fmt.Errorf("failed to write PPM header: %w", err)
	}

	line := make([]byte, 0, len("255 255 255\n"))
	for _, p := range fb.Pixels {
		line = strconv.AppendUint(line[:0], uint64(p.R), 10)
		line = append(line, ' ')
		line = strconv.AppendUint(line, uint64(p.G), 10)
		line = append(line, ' ')
		line = strconv.AppendUint(line, uint64(p.B), 10)
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return fmt.Errorf("failed to write PPM body: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write PPM body: %w", err)
	}
	return nil
}
