// Package receipt extracts the purchase total (and, where printed, the
// dispensed litres) from fuel-pump receipt images via Tesseract OCR.
package receipt

import (
	"fmt"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// ExtractTotal runs OCR over the image at path and parses the purchase
// total. A receipt without a recognisable total yields amount 0 with no
// error; err is reserved for images that cannot be read at all.
func ExtractTotal(path string) (amount int64, litres float64, raw string, err error) {
	texts, err := runPasses(path)
	if err != nil {
		return 0, 0, "", fmt.Errorf("ocr passes: %w", err)
	}
	combined := strings.Join(texts, "\n")
	amount, raw = ParseTotal(combined)
	litres = ParseLitres(combined)
	return amount, litres, raw, nil
}

// runPasses OCRs the original image plus a preprocessed variant; faded
// thermal prints often only resolve after upscaling and contrast stretch.
func runPasses(path string) ([]string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	var out []string
	if err := client.SetImage(path); err != nil {
		return nil, err
	}
	if text, err := client.Text(); err == nil && strings.TrimSpace(text) != "" {
		out = append(out, text)
	}
	if pre, err := preprocess(path); err == nil {
		defer os.Remove(pre)
		if err := client.SetImage(pre); err == nil {
			if text, err := client.Text(); err == nil && strings.TrimSpace(text) != "" {
				out = append(out, text)
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no ocr output for %s", path)
	}
	return out, nil
}

func preprocess(path string) (string, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", err
	}
	g := imaging.Grayscale(img)
	if g.Bounds().Dx() < 1000 {
		g = imaging.Resize(g, g.Bounds().Dx()*2, 0, imaging.Lanczos)
	}
	g = imaging.AdjustContrast(g, 25)
	g = imaging.Sharpen(g, 1.0)
	// .ocr. infix keeps the watcher from re-processing temp files
	outPath := path + ".ocr.png"
	if err := imaging.Save(g, outPath); err != nil {
		return "", err
	}
	return outPath, nil
}
