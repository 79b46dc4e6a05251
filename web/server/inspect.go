package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Color        string                 `json:"color"` // Shaded color of the pixel center
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// InspectResult contains information about the object hit by an inspection ray
type InspectResult struct {
	Hit       bool
	HitRecord *geometry.HitRecord
	Shape     geometry.Shape // The shape that was hit
	Color     renderer.RGB8
}

// inspectPixel casts a ray through the center of output pixel (pixelX, pixelY)
// and returns the nearest shape it hits
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) InspectResult {
	// Output rows run top to bottom while v grows upward
	u := (float64(pixelX) + 0.5) / float64(width)
	v := (float64(height-1-pixelY) + 0.5) / float64(height)
	ray := sceneObj.Camera.GetRay(u, v)

	result := InspectResult{
		Color: renderer.Quantize(renderer.RayColor(ray, sceneObj.World, sceneObj.Background)),
	}

	hit, isHit := sceneObj.World.Hit(ray, 0, math.Inf(1))
	if !isHit {
		return result
	}
	result.Hit = true
	result.HitRecord = hit

	// The aggregate doesn't report which shape it hit
	for _, shape := range sceneObj.World.Shapes() {
		if shapeHit, shapeIsHit := shape.Hit(ray, 0, math.Inf(1)); shapeIsHit && shapeHit.T == hit.T {
			result.Shape = shape
			break
		}
	}

	return result
}

// extractGeometryInfo extracts detailed geometry information
func (s *Server) extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = [3]float64{geom.Center.X, geom.Center.Y, geom.Center.Z}
		properties["radius"] = geom.Radius
		return "sphere", properties

	default:
		return "unknown", properties
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	sceneObj, err := scene.CreateScene(req.Scene)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}
	if req.Width == 0 {
		req.Width = sceneObj.SamplingConfig.Width
	}
	if req.Height == 0 {
		req.Height = sceneObj.SamplingConfig.Height
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	// Validate pixel coordinates
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	result := inspectPixel(sceneObj, req.Width, req.Height, pixelX, pixelY)
	response := InspectResponse{
		Hit:   result.Hit,
		Color: fmt.Sprintf("#%02x%02x%02x", result.Color.R, result.Color.G, result.Color.B),
	}

	if result.Hit {
		geometryType, geometryProps := s.extractGeometryInfo(result.Shape)
		response.GeometryType = geometryType
		response.Point = [3]float64{result.HitRecord.Point.X, result.HitRecord.Point.Y, result.HitRecord.Point.Z}
		response.Normal = [3]float64{result.HitRecord.Normal.X, result.HitRecord.Normal.Y, result.HitRecord.Normal.Z}
		response.Distance = result.HitRecord.T
		response.Properties = map[string]interface{}{"geometry": geometryProps}
	}

	writeJSON(w, http.StatusOK, response)
}
