package app

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/face"
)

var (
	regionColor = color.RGBA{0, 255, 0, 0}
	lipsColor   = color.RGBA{255, 0, 255, 0}
	jointColor  = color.RGBA{0, 200, 255, 0}
	textColor   = color.RGBA{255, 255, 255, 0}
	humanColor  = color.RGBA{255, 0, 0, 0}
)

// closedRegions are drawn as rings, everything else as open polylines.
var closedRegions = map[face.Region]bool{
	face.OuterLips: true,
	face.InnerLips: true,
	face.LeftEye:   true,
	face.RightEye:  true,
}

// renderPreview draws the detected face regions, hand landmarks, person
// boxes and the frame labels on a copy of frame and encodes it as JPEG.
func renderPreview(frame *gocv.Mat, det *detector.Detection, res Result) ([]byte, error) {
	if frame == nil || frame.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	img := frame.Clone()
	defer img.Close()

	w, h := float64(img.Cols()), float64(img.Rows())
	pixel := func(x, y float64) image.Point {
		return image.Pt(int(x*w), int(y*h))
	}

	if det != nil {
		for _, f := range det.Faces {
			for _, r := range face.AllRegions {
				pts := f.Image(r)
				if len(pts) < 2 {
					continue
				}
				poly := make([]image.Point, len(pts))
				for i, p := range pts {
					poly[i] = pixel(p.X, p.Y)
				}
				c := regionColor
				if r == face.OuterLips || r == face.InnerLips {
					c = lipsColor
				}
				pv := gocv.NewPointsVectorFromPoints([][]image.Point{poly})
				gocv.Polylines(&img, pv, closedRegions[r], c, 1)
				pv.Close()
			}
		}

		for _, hu := range det.Humans {
			b := hu.Box
			rect := image.Rectangle{Min: pixel(b.X, b.Y), Max: pixel(b.X+b.Width, b.Y+b.Height)}
			gocv.Rectangle(&img, rect, humanColor, 2)
		}

		for _, hand := range det.Hands {
			for i, kp := range hand.Points {
				if !hand.Detected[i] {
					continue
				}
				gocv.Circle(&img, pixel(kp.X, kp.Y), 3, jointColor, -1)
			}
		}
	}

	label := fmt.Sprintf("%s / %s", res.Expression.Label, res.Gesture.Label)
	gocv.PutText(&img, label, image.Pt(10, 24), gocv.FontHersheySimplex, 0.7, textColor, 2)

	buf, err := gocv.IMEncode(".jpg", img)
	if err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...), nil
}
