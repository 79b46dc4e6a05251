package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

var (
	// ErrUnknownDirective is returned for a statement keyword the parser does not know
	ErrUnknownDirective = errors.New("unknown directive")
	// ErrArgumentCount is returned when a statement has the wrong number of values
	ErrArgumentCount = errors.New("wrong number of arguments")
	// ErrNonPositive is returned for an image size or sample count below 1
	ErrNonPositive = errors.New("value must be positive")
)

// CameraSpec is an explicit viewport: eye, lower-left corner and spans
type CameraSpec struct {
	Origin          core.Point
	LowerLeftCorner core.Point
	Horizontal      core.Vec3
	Vertical        core.Vec3
}

// ViewportSpec is a centered viewport looking down -z
type ViewportSpec struct {
	Origin      core.Point
	Width       float64
	Height      float64
	FocalLength float64
}

// BackgroundSpec is the sky gradient
type BackgroundSpec struct {
	Top    core.Color
	Bottom core.Color
}

// SphereSpec is a parsed Sphere statement
type SphereSpec struct {
	Center core.Point
	Radius float64
	Line   int // Source line, for error reporting
}

// SceneDescription contains all parsed scene file data.
// Zero values mean "not specified".
type SceneDescription struct {
	Name        string
	Description string
	Width       int
	Height      int
	Samples     int
	Camera      *CameraSpec
	Viewport    *ViewportSpec
	Background  *BackgroundSpec
	Spheres     []SphereSpec
}

// ParseSceneFile parses scene statements from an io.Reader.
//
// One statement per line; '#' starts a comment. Header comments of the form
// "# Scene: <name>" and "# Description: <text>" fill Name and Description.
//
//	Image      <width> <height>
//	Samples    <n>
//	Camera     <origin xyz> <lower-left xyz> <horizontal xyz> <vertical xyz>
//	Viewport   <origin xyz> <width> <height> <focal length>
//	Background <top rgb> <bottom rgb>
//	Sphere     <center xyz> <radius>
func ParseSceneFile(reader io.Reader) (*SceneDescription, error) {
	desc := &SceneDescription{Spheres: make([]SphereSpec, 0)}

	scanner := bufio.NewScanner(reader)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		if err := desc.processLine(scanner.Text(), lineNumber); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	return desc, nil
}

// LoadSceneFile loads and parses a scene file
func LoadSceneFile(filename string) (*SceneDescription, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	desc, err := ParseSceneFile(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return desc, nil
}

func (d *SceneDescription) processLine(line string, lineNumber int) error {
	line = strings.TrimSpace(line)

	if strings.HasPrefix(line, "#") {
		d.processComment(strings.TrimSpace(strings.TrimPrefix(line, "#")))
		return nil
	}
	if i := strings.Index(line, "#"); i >= 0 {
		line = line[:i]
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	keyword, args := fields[0], fields[1:]
	values, err := parseFloats(args)
	if err != nil {
		return fmt.Errorf("%s: %w", keyword, err)
	}

	switch keyword {
	case "Image":
		if err := expectArgs(keyword, values, 2); err != nil {
			return err
		}
		if d.Width, err = toPositiveInt(values[0]); err != nil {
			return err
		}
		d.Height, err = toPositiveInt(values[1])
		return err
	case "Samples":
		if err := expectArgs(keyword, values, 1); err != nil {
			return err
		}
		d.Samples, err = toPositiveInt(values[0])
		return err
	case "Camera":
		if err := expectArgs(keyword, values, 12); err != nil {
			return err
		}
		d.Camera = &CameraSpec{
			Origin:          core.Point(vec(values[0:3])),
			LowerLeftCorner: core.Point(vec(values[3:6])),
			Horizontal:      vec(values[6:9]),
			Vertical:        vec(values[9:12]),
		}
		d.Viewport = nil
	case "Viewport":
		if err := expectArgs(keyword, values, 6); err != nil {
			return err
		}
		d.Viewport = &ViewportSpec{
			Origin:      core.Point(vec(values[0:3])),
			Width:       values[3],
			Height:      values[4],
			FocalLength: values[5],
		}
		d.Camera = nil
	case "Background":
		if err := expectArgs(keyword, values, 6); err != nil {
			return err
		}
		d.Background = &BackgroundSpec{
			Top:    core.Color(vec(values[0:3])),
			Bottom: core.Color(vec(values[3:6])),
		}
	case "Sphere":
		if err := expectArgs(keyword, values, 4); err != nil {
			return err
		}
		d.Spheres = append(d.Spheres, SphereSpec{
			Center: core.Point(vec(values[0:3])),
			Radius: values[3],
			Line:   lineNumber,
		})
	default:
		return fmt.Errorf("%q: %w", keyword, ErrUnknownDirective)
	}

	return nil
}

func (d *SceneDescription) processComment(content string) {
	if value, ok := strings.CutPrefix(content, "Scene:"); ok {
		d.Name = strings.TrimSpace(value)
	} else if value, ok := strings.CutPrefix(content, "Description:"); ok {
		d.Description = strings.TrimSpace(value)
	}
}

func parseFloats(args []string) ([]float64, error) {
	values := make([]float64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", arg)
		}
		values[i] = v
	}
	return values, nil
}

func expectArgs(keyword string, values []float64, n int) error {
	if len(values) != n {
		return fmt.Errorf("%s expects %d values, got %d: %w", keyword, n, len(values), ErrArgumentCount)
	}
	return nil
}

func toPositiveInt(v float64) (int, error) {
	if v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("expected an integer, got %v", v)
	}
	if v < 1 {
		return 0, fmt.Errorf("got %v: %w", v, ErrNonPositive)
	}
	if v > math.MaxInt32 {
		return 0, fmt.Errorf("%v is too large", v)
	}
	return int(v), nil
}

func vec(v []float64) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}
