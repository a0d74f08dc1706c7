package detection

import (
	"image"
	"image/color"
)

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// grayValue converts a pixel to grayscale using ITU-R BT.601 luminance weights.
// Formula: Y = 0.299*R + 0.587*G + 0.114*B
func grayValue(img image.Image, x, y int) uint8 {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(float64(r>>8)*0.299 + float64(g>>8)*0.587 + float64(b>>8)*0.114)
}

// grayPlane converts an image to a row-major grayscale plane.
func grayPlane(img image.Image) [][]uint8 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	plane := make([][]uint8, height)
	for y := 0; y < height; y++ {
		plane[y] = make([]uint8, width)
		for x := 0; x < width; x++ {
			plane[y][x] = grayValue(img, x+bounds.Min.X, y+bounds.Min.Y)
		}
	}
	return plane
}

// adaptiveThreshold produces an inverted binary mask using a local-mean
// threshold. A pixel becomes foreground (255) when it is darker than the mean
// of its window by more than the offset c. Local means tolerate the uneven
// contrast typical of scanned sheets where a global threshold loses faint
// linework.
//
// Computed with a summed-area table, so runtime is independent of window size.
func adaptiveThreshold(gray [][]uint8, window, c int) *image.Gray {
	height := len(gray)
	if height == 0 {
		return image.NewGray(image.Rect(0, 0, 0, 0))
	}
	width := len(gray[0])

	// Summed-area table with a one-cell border of zeros.
	integral := make([][]int64, height+1)
	integral[0] = make([]int64, width+1)
	for y := 0; y < height; y++ {
		integral[y+1] = make([]int64, width+1)
		var rowSum int64
		for x := 0; x < width; x++ {
			rowSum += int64(gray[y][x])
			integral[y+1][x+1] = integral[y][x+1] + rowSum
		}
	}

	half := window / 2
	out := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			x1 := maxInt(x-half, 0)
			y1 := maxInt(y-half, 0)
			x2 := minInt(x+half, width-1)
			y2 := minInt(y+half, height-1)

			count := int64((x2 - x1 + 1) * (y2 - y1 + 1))
			sum := integral[y2+1][x2+1] - integral[y1][x2+1] - integral[y2+1][x1] + integral[y1][x1]
			mean := sum / count

			if int64(gray[y][x]) < mean-int64(c) {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// otsuThreshold produces an inverted binary mask using Otsu's method: the
// global threshold that maximizes between-class variance of the histogram.
// Ink (darker than the threshold) becomes foreground (255).
func otsuThreshold(gray [][]uint8) *image.Gray {
	height := len(gray)
	if height == 0 {
		return image.NewGray(image.Rect(0, 0, 0, 0))
	}
	width := len(gray[0])

	var hist [256]int
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			hist[gray[y][x]]++
		}
	}

	total := width * height
	var sumAll float64
	for i, n := range hist {
		sumAll += float64(i) * float64(n)
	}

	var sumBackground float64
	var weightBackground int
	bestThreshold := 0
	bestVariance := -1.0

	for t := 0; t < 256; t++ {
		weightBackground += hist[t]
		if weightBackground == 0 {
			continue
		}
		weightForeground := total - weightBackground
		if weightForeground == 0 {
			break
		}

		sumBackground += float64(t) * float64(hist[t])
		meanBackground := sumBackground / float64(weightBackground)
		meanForeground := (sumAll - sumBackground) / float64(weightForeground)

		diff := meanBackground - meanForeground
		variance := float64(weightBackground) * float64(weightForeground) * diff * diff
		if variance > bestVariance {
			bestVariance = variance
			bestThreshold = t
		}
	}

	out := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if int(gray[y][x]) <= bestThreshold {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// dilateRect grows foreground pixels with a kernelW x kernelH rectangular
// structuring element. A wide flat kernel merges adjacent glyphs into a
// single word-shaped blob without bridging separate text lines vertically.
func dilateRect(mask *image.Gray, kernelW, kernelH int) *image.Gray {
	bounds := mask.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	halfW := kernelW / 2
	halfH := kernelH / 2

	out := image.NewGray(bounds)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask.GrayAt(x, y).Y < 128 {
				continue
			}
			for dy := -halfH; dy <= halfH; dy++ {
				for dx := -halfW; dx <= halfW; dx++ {
					nx, ny := x+dx, y+dy
					if nx >= 0 && nx < width && ny >= 0 && ny < height {
						out.SetGray(nx, ny, color.Gray{Y: 255})
					}
				}
			}
		}
	}
	return out
}

// maskOf converts an image produced by a filter back into a binary mask,
// treating any pixel brighter than mid-gray as foreground.
func maskOf(img image.Image) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			if uint8(r>>8) >= 128 {
				out.SetGray(x-bounds.Min.X, y-bounds.Min.Y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// findBlobs finds connected components of foreground pixels in a binary mask.
//
// Uses flood fill to group connected pixels. Connectivity is 8-connected
// (includes diagonals). Components smaller than 10 pixels are discarded as
// noise. Returns a slice of components, each a slice of Points.
func findBlobs(mask *image.Gray) [][]Point {
	bounds := mask.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	visited := make([][]bool, height)
	for y := 0; y < height; y++ {
		visited[y] = make([]bool, width)
	}

	blobs := make([][]Point, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask.GrayAt(x, y).Y >= 128 && !visited[y][x] {
				blob := make([]Point, 0)
				floodFill(mask, visited, x, y, width, height, &blob)
				if len(blob) >= 10 {
					blobs = append(blobs, blob)
				}
			}
		}
	}
	return blobs
}

// floodFill performs iterative flood fill from a starting point.
//
// Uses a stack-based approach (not recursive) to avoid stack overflow on
// large components. Marks visited pixels and appends them to the blob.
// Uses 8-connectivity (includes diagonal neighbors).
func floodFill(mask *image.Gray, visited [][]bool, startX, startY, width, height int, blob *[]Point) {
	stack := []Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		if visited[p.Y][p.X] || mask.GrayAt(p.X, p.Y).Y < 128 {
			continue
		}

		visited[p.Y][p.X] = true
		*blob = append(*blob, p)

		// 8-connected neighbors
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}
}

// boundingRect returns the axis-aligned bounding box of a blob as
// (minX, minY, width, height).
func boundingRect(blob []Point) (int, int, int, int) {
	minX, minY := blob[0].X, blob[0].Y
	maxX, maxY := blob[0].X, blob[0].Y
	for _, p := range blob[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return minX, minY, maxX - minX + 1, maxY - minY + 1
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
