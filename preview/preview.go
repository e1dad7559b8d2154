// Package preview 把采样好的高度场渲染成灰度 PNG，
// 不用切片软件也能快速肉眼检查锯齿分布
package preview

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"

	"github.com/chaos-io/fresnel2STL/grid"
	"github.com/chaos-io/fresnel2STL/lens"
)

// Render 渲染 size×size 的高度图，亮度按 z 的 min/max 归一化到 0-255
func Render(g *grid.Grid, size int) *image.Gray {
	lo, hi := zRange(g)
	span := hi - lo

	var raw *image.Gray
	if g.Topology == lens.Polar {
		raw = renderPolar(g, size, lo, span)
	} else {
		raw = renderCartesian(g, lo, span)
	}

	if raw.Bounds().Dx() == size && raw.Bounds().Dy() == size {
		return raw
	}

	// 顶点网格通常比预览图小，CatmullRom 放大
	out := image.NewGray(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(out, out.Bounds(), raw, raw.Bounds(), draw.Over, nil)
	return out
}

// renderCartesian 逐顶点落像素，行 0 在图片底部（y 轴朝上）
func renderCartesian(g *grid.Grid, lo, span float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Cols, g.Rows))
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			img.SetGray(col, g.Rows-1-row, color.Gray{Y: level(g.At(row, col).Z, lo, span)})
		}
	}
	return img
}

// renderPolar 逐像素反查最近的 (ring, segment) 采样，圆外留黑
func renderPolar(g *grid.Grid, size int, lo, span float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, size, size))
	outer := g.AtPolar(g.Rings, 0).R
	step := 2 * math.Pi / float64(g.Segments)

	for py := 0; py < size; py++ {
		y := outer * (1 - 2*float64(py)/float64(size-1))
		for px := 0; px < size; px++ {
			x := outer * (2*float64(px)/float64(size-1) - 1)
			r := math.Hypot(x, y)
			if r > outer {
				continue
			}

			ring := int(r/outer*float64(g.Rings) + 0.5)
			var z float64
			if ring == 0 {
				z = g.AtPolar(0, 0).Z
			} else {
				z = g.AtPolar(ring, nearestSegment(x, y, step)).Z
			}
			img.SetGray(px, py, color.Gray{Y: level(z, lo, span)})
		}
	}
	return img
}

// nearestSegment 最近的角向分段
// 负角度也要向最近者取整，int 截断会把 −0.6·step 归到 0 而不是 −1，
// 所以先 Floor 再转 int，负下标由 AtPolar 回绕
func nearestSegment(x, y, step float64) int {
	return int(math.Floor(math.Atan2(y, x)/step + 0.5))
}

func zRange(g *grid.Grid) (lo, hi float64) {
	lo, hi = g.Points[0].Z, g.Points[0].Z
	for _, p := range g.Points {
		if p.Z < lo {
			lo = p.Z
		}
		if p.Z > hi {
			hi = p.Z
		}
	}
	return lo, hi
}

func level(z, lo, span float64) uint8 {
	if span <= 0 {
		return 0
	}
	return uint8((z - lo) / span * 255)
}

// Thumbnail 最长边缩到 maxSize 以内
func Thumbnail(img image.Image, maxSize int) image.Image {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	longest := max(w, h)
	if longest <= maxSize {
		return img
	}

	scale := float64(maxSize) / float64(longest)
	return resize.Resize(uint(float64(w)*scale), uint(float64(h)*scale), img, resize.Lanczos3)
}

// SaveWithThumbnail 写全尺寸 PNG，并在旁边放一张 *_thumb.png 缩略图
func SaveWithThumbnail(path string, img image.Image, maxThumb int) error {
	if err := SavePNG(path, img); err != nil {
		return err
	}
	return SavePNG(ThumbPath(path), Thumbnail(img, maxThumb))
}

// ThumbPath preview.png → preview_thumb.png
func ThumbPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_thumb" + ext
}

// SavePNG 写 PNG 文件
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return png.Encode(f, img)
}
