package sheetbuilder

import "math"

// CameraHeight returns how high off the ground an isometric capture camera
// must sit to frame the base of a subject most tightly, given the viewport
// scale, the camera's horizontal distance from the subject and the width of
// the subject's base.
func CameraHeight(viewportScale, distance, baseWidth float64) float64 {
	return (viewportScale + distance - baseWidth/math.Sqrt2) / math.Sqrt(3)
}
