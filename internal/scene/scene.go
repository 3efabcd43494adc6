// Package scene generates the bundled example dataset so the viewer is
// runnable out of the box.
package scene

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/igridvu/igridvu/internal/config"
	"github.com/igridvu/igridvu/internal/errs"
	"github.com/igridvu/igridvu/internal/suffix"
)

const (
	// SubDir is the directory created under the target directory.
	SubDir = "testscene"
	// FilePrefix is the shared filename prefix of the generated images.
	FilePrefix = "scene1_"

	width  = 256
	height = 256

	overlayText = "Test Scene"
)

// Suffixes returns the generated suffixes in pipeline order: a logical
// rendering decomposition from geometry through shadow.
func Suffixes() []string {
	return []string{
		"geometry.png",
		"texture.png",
		"diffuse.png",
		"specular.png",
		"fresnel.png",
		"shadow.png",
	}
}

// Distinct fill colors so each pass is recognizable at a glance.
var colors = map[string]color.NRGBA{
	"geometry.png": {R: 150, G: 220, B: 150, A: 255}, // soft green
	"texture.png":  {R: 128, G: 128, B: 128, A: 255}, // neutral gray
	"diffuse.png":  {R: 210, G: 200, B: 190, A: 255}, // beige
	"specular.png": {R: 245, G: 245, B: 255, A: 255}, // cool white
	"fresnel.png":  {R: 200, G: 255, B: 255, A: 255}, // light cyan
	"shadow.png":   {R: 40, G: 40, B: 60, A: 255},    // dark cool gray
}

// CreateDataset generates the example images and their suffix file in
// a testscene subdirectory of baseDir. It returns the image prefix to
// open the dataset with.
func CreateDataset(baseDir string) (string, error) {
	sceneDir := filepath.Join(baseDir, SubDir)
	if err := os.MkdirAll(sceneDir, 0755); err != nil {
		return "", errs.Wrapf(err, "cannot create dataset directory %s", sceneDir)
	}

	for _, s := range Suffixes() {
		path := filepath.Join(sceneDir, FilePrefix+s)
		if err := writeImage(path, colors[s]); err != nil {
			return "", err
		}
	}

	suffixPath := filepath.Join(sceneDir, config.DefaultSuffixFileName)
	if err := suffix.Save(suffixPath, Suffixes()); err != nil {
		return "", err
	}

	return filepath.Join(sceneDir, FilePrefix), nil
}

// writeImage renders one pass: a solid fill with the overlay text
// centered on it.
func writeImage(path string, fill color.NRGBA) error {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, overlayText).Ceil()
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{A: 255}),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I((width - textWidth) / 2),
			Y: fixed.I(height / 2),
		},
	}
	drawer.DrawString(overlayText)

	file, err := os.Create(path)
	if err != nil {
		return errs.NewFileError("cannot create example image", path, errs.FileWriteFailed, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return errs.NewFileError("cannot encode example image", path, errs.FileWriteFailed, err)
	}
	return nil
}
