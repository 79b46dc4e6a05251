package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// ErrInvalidPPM is returned for input that is not a plain-text P3 pixmap
var ErrInvalidPPM = errors.New("invalid P3 pixmap")

// MaxPPMPixels bounds the image size ReadPPM will allocate
const MaxPPMPixels = 1 << 28

// ppmTokens yields whitespace-separated words with '#' comments removed
type ppmTokens struct {
	scanner *bufio.Scanner
	pending []string
}

func (t *ppmTokens) next() (string, error) {
	for len(t.pending) == 0 {
		if !t.scanner.Scan() {
			if err := t.scanner.Err(); err != nil {
				return "", fmt.Errorf("error reading input: %w", err)
			}
			return "", fmt.Errorf("unexpected end of input: %w", ErrInvalidPPM)
		}
		line := t.scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		t.pending = strings.Fields(line)
	}

	word := t.pending[0]
	t.pending = t.pending[1:]
	return word, nil
}

func (t *ppmTokens) nextInt(what string) (int, error) {
	word, err := t.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(word)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s %q: %w", what, word, ErrInvalidPPM)
	}
	return v, nil
}

// ReadPPM parses a plain-text (P3) pixmap. Channels are rescaled from the
// declared maximum to 0..255.
func ReadPPM(r io.Reader) (*renderer.Framebuffer, error) {
	tokens := &ppmTokens{scanner: bufio.NewScanner(r)}

	magic, err := tokens.next()
	if err != nil {
		return nil, err
	}
	if magic != "P3" {
		return nil, fmt.Errorf("format tag %q: %w", magic, ErrInvalidPPM)
	}

	width, err := tokens.nextInt("width")
	if err != nil {
		return nil, err
	}
	height, err := tokens.nextInt("height")
	if err != nil {
		return nil, err
	}
	maxValue, err := tokens.nextInt("max value")
	if err != nil {
		return nil, err
	}
	if width == 0 || height == 0 || maxValue == 0 || maxValue > 65535 {
		return nil, fmt.Errorf("header %dx%d max %d: %w", width, height, maxValue, ErrInvalidPPM)
	}
	if width > MaxPPMPixels/height {
		return nil, fmt.Errorf("%dx%d exceeds %d pixels: %w", width, height, MaxPPMPixels, ErrInvalidPPM)
	}

	fb := renderer.NewFramebuffer(width, height)
	for i := range fb.Pixels {
		var channels [3]uint8
		for c := range channels {
			v, err := tokens.nextInt("channel")
			if err != nil {
				return nil, fmt.Errorf("pixel %d: %w", i, err)
			}
			if v > maxValue {
				return nil, fmt.Errorf("pixel %d: channel %d exceeds max %d: %w", i, v, maxValue, ErrInvalidPPM)
			}
			channels[c] = uint8(v * renderer.MaxChannelValue / maxValue)
		}
		fb.Pixels[i] = renderer.RGB8{R: channels[0], G: channels[1], B: channels[2]}
	}

	return fb, nil
}

// LoadPPM reads a P3 pixmap from disk
func LoadPPM(filename string) (*renderer.Framebuffer, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PPM file: %w", err)
	}
	defer file.Close()

	return ReadPPM(file)
}
