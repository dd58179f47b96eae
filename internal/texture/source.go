package texture

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gen2brain/go-fitz"
)

// Source yields the images that become textures, one per frame.
type Source interface {
	Count() int
	Name(index int) string
	Load(index int) (image.Image, error)
	Close() error
}

// Open picks a source for spec: a pattern ("qr:...", "split", "uniform"),
// a PDF file, or an image file/directory.
func Open(spec string, dpi int) (Source, error) {
	if IsPattern(spec) {
		return NewPatternSource(spec)
	}
	if strings.EqualFold(filepath.Ext(spec), ".pdf") {
		return NewPDFSource(spec, dpi)
	}
	return NewImageSource(spec)
}

// PDFSource растеризует страницы PDF через go-fitz. Отрендеренная страница
// служит прокси-текстурой модели.
type PDFSource struct {
	mu   sync.Mutex
	doc  *fitz.Document
	path string
	dpi  int
}

func NewPDFSource(path string, dpi int) (*PDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	if dpi <= 0 {
		dpi = 72
	}
	return &PDFSource{doc: doc, path: path, dpi: dpi}, nil
}

func (s *PDFSource) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.NumPage()
}

func (s *PDFSource) Name(index int) string {
	base := strings.TrimSuffix(filepath.Base(s.path), filepath.Ext(s.path))
	return fmt.Sprintf("%s_p%03d", base, index+1)
}

func (s *PDFSource) Load(index int) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, err := s.doc.ImageDPI(index, float64(s.dpi))
	if err != nil {
		return nil, fmt.Errorf("render page %d of %s: %w", index+1, s.path, err)
	}
	return img, nil
}

func (s *PDFSource) Close() error {
	return s.doc.Close()
}
