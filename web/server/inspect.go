package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/material"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
	"github.com/labstack/echo/v4"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Color        string                 `json:"color"` // Shaded pixel color
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// extractMaterialInfo describes a material for the inspector
func extractMaterialInfo(mat material.Material) map[string]interface{} {
	properties := map[string]interface{}{
		"diffuse":  colorArray(mat.Diffuse),
		"specular": colorArray(mat.Specular),
		"color":    hexColor(mat.Diffuse),
		"textured": mat.IsTextured(),
	}
	if mat.IsTextured() {
		properties["textureSize"] = [2]int{mat.Texture.Width, mat.Texture.Height}
	}
	return properties
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(obj geometry.Object) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := obj.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Plane:
		properties["point"] = vecArray(geom.Point)
		properties["normal"] = vecArray(geom.Normal)
		properties["width"] = geom.Width
		properties["height"] = geom.Height
		return "plane", properties

	case *geometry.Marker:
		properties["position"] = vecArray(geom.Position)
		return "marker", properties

	default:
		return "unknown", properties
	}
}

// inspectPixel casts the primary ray of an image pixel and shades the nearest hit.
// Image row 0 is the top of the picture.
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) (InspectResponse, error) {
	rt, err := renderer.NewRaytracer(sceneObj, sceneObj.Width, sceneObj.Height)
	if err != nil {
		return InspectResponse{}, err
	}

	ray := rt.PixelRay(pixelX, sceneObj.Height-1-pixelY)
	hit, ok := rt.FindNearestHit(ray)
	if !ok {
		return InspectResponse{Hit: false, Color: hexColor(sceneObj.Background)}, nil
	}

	geometryType, geometryProps := extractGeometryInfo(hit.Object)
	return InspectResponse{
		Hit:          true,
		GeometryType: geometryType,
		Point:        vecArray(hit.Point),
		Normal:       vecArray(hit.Normal),
		Distance:     hit.Distance,
		Color:        hexColor(rt.Shade(hit)),
		Properties: map[string]interface{}{
			"material": extractMaterialInfo(hit.Object.GetMaterial()),
			"geometry": geometryProps,
		},
	}, nil
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(c echo.Context) error {
	req, err := s.parseRenderRequest(c.QueryParams())
	if err != nil {
		return badRequest(c, "Invalid scene parameters: "+err.Error())
	}

	pixelX, err := strconv.Atoi(c.QueryParam("x"))
	if err != nil {
		return badRequest(c, "Invalid x coordinate")
	}
	pixelY, err := strconv.Atoi(c.QueryParam("y"))
	if err != nil {
		return badRequest(c, "Invalid y coordinate")
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		return badRequest(c, "Pixel coordinates out of bounds")
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		return badRequest(c, err.Error())
	}

	response, err := inspectPixel(sceneObj, pixelX, pixelY)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.JSON(http.StatusOK, response)
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func colorArray(c core.Color) [3]float64 {
	return [3]float64{c.R, c.G, c.B}
}

func hexColor(c core.Color) string {
	rgba := c.ToRGBA()
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}
