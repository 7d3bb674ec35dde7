// Package text wraps the recognizers of OpenCV's text module: Tesseract, the
// HMM decoder and the holistic word recognizer, behind one OCR type.
package text

import (
	"fmt"
	"strings"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/core"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/types"
)

// Variant names the recognizer behind an OCR.
type Variant int32

const (
	Tesseract Variant = iota
	HMMDecoder
	HolisticWord
)

func (v Variant) Valid() bool { return v >= Tesseract && v <= HolisticWord }

func (v Variant) String() string {
	switch v {
	case Tesseract:
		return "Tesseract"
	case HMMDecoder:
		return "HMMDecoder"
	case HolisticWord:
		return "HolisticWord"
	}
	return fmt.Sprintf("Variant(%d)", int32(v))
}

// ComponentLevel selects what Run reports components for.
type ComponentLevel int32

const (
	LevelWord ComponentLevel = iota
	LevelTextLine
)

func (l ComponentLevel) Valid() bool { return l == LevelWord || l == LevelTextLine }

// Component is one recognized word or line.
type Component struct {
	Box        types.Rect
	Text       string
	Confidence float32
}

// Result is the output of Run.
type Result struct {
	Text       string
	Components []Component
}

// OCR owns one recognizer.
type OCR struct {
	n       backend.Native
	o       *ffi.Owned[backend.OCR]
	variant Variant
}

// TesseractParams configure NewTesseract. DataPath is a tessdata directory;
// empty means Tesseract's compiled-in default. Language is one or more
// '+'-joined language codes and defaults to "eng".
type TesseractParams struct {
	DataPath    string
	Language    string
	Whitelist   string
	EngineMode  int
	PageSegMode int
}

// NewTesseract creates a Tesseract recognizer. With a DataPath, every
// requested language must have its traineddata file there; a missing one
// fails with ErrEntryNotFound before Tesseract is started.
func NewTesseract(p TesseractParams) (*OCR, error) {
	if p.Language == "" {
		p.Language = "eng"
	}
	if p.DataPath != "" {
		if _, err := ffi.CPath(p.DataPath, true); err != nil {
			return nil, err
		}
		for _, lang := range strings.Split(p.Language, "+") {
			if _, err := ffi.ResourcePath(p.DataPath, lang+".traineddata"); err != nil {
				return nil, err
			}
		}
	}
	for what, s := range map[string]string{"language": p.Language, "whitelist": p.Whitelist} {
		if _, err := ffi.CString(what, s); err != nil {
			return nil, err
		}
	}
	var nr ffi.Narrower
	params := backend.OCRParams{
		DataPath:    p.DataPath,
		Language:    p.Language,
		Whitelist:   p.Whitelist,
		EngineMode:  nr.Int32("engine mode", p.EngineMode),
		PageSegMode: nr.Int32("page segmentation mode", p.PageSegMode),
	}
	if err := nr.Err(); err != nil {
		return nil, fmt.Errorf("text: %w", err)
	}
	return newOCR(Tesseract, params)
}

// HMMParams configure NewHMMDecoder. Transition and Emission are the
// vocabulary-sized probability tables; they are copied by the native side
// and may be closed after the call.
type HMMParams struct {
	ClassifierPath string
	Vocabulary     string
	Transition     *core.Mat
	Emission       *core.Mat
	Mode           int
	ClassifierType int
}

// NewHMMDecoder creates an HMM decoder over a character classifier.
func NewHMMDecoder(p HMMParams) (*OCR, error) {
	var nr ffi.Narrower
	mode := nr.Int32("decoder mode", p.Mode)
	ctype := nr.Int32("classifier type", p.ClassifierType)
	if err := nr.Err(); err != nil {
		return nil, fmt.Errorf("text: %w", err)
	}
	classifier, err := ffi.CPath(p.ClassifierPath, true)
	if err != nil {
		return nil, err
	}
	vocab, err := ffi.CString("vocabulary", p.Vocabulary)
	if err != nil {
		return nil, err
	}
	th, tdone, err := p.Transition.Borrow()
	if err != nil {
		return nil, fmt.Errorf("text: transition table: %w", err)
	}
	defer tdone()
	eh, edone, err := p.Emission.Borrow()
	if err != nil {
		return nil, fmt.Errorf("text: emission table: %w", err)
	}
	defer edone()
	return newOCR(HMMDecoder, backend.OCRParams{
		ClassifierPath: classifier,
		Vocabulary:     vocab,
		Transition:     th,
		Emission:       eh,
		DecoderMode:    mode,
		ClassifierType: ctype,
	})
}

// HolisticParams are the three model files of the holistic word recognizer.
type HolisticParams struct {
	ArchPath    string
	WeightsPath string
	WordsPath   string
}

// NewHolisticWord creates a holistic word recognizer.
func NewHolisticWord(p HolisticParams) (*OCR, error) {
	paths := []*string{&p.ArchPath, &p.WeightsPath, &p.WordsPath}
	for _, s := range paths {
		c, err := ffi.CPath(*s, true)
		if err != nil {
			return nil, err
		}
		*s = c
	}
	return newOCR(HolisticWord, backend.OCRParams{
		ArchPath:    p.ArchPath,
		WeightsPath: p.WeightsPath,
		WordsPath:   p.WordsPath,
	})
}

func newOCR(v Variant, p backend.OCRParams) (*OCR, error) {
	n := backend.Current()
	h, err := n.OCRNew(int32(v), p).Into()
	if err != nil {
		return nil, fmt.Errorf("text: create %s: %w", v, err)
	}
	return &OCR{n: n, o: ffi.Own(h, n.OCRRelease), variant: v}, nil
}

// Variant returns the recognizer kind.
func (o *OCR) Variant() Variant { return o.variant }

// Run recognizes img. Components below minConfidence (0-100) are dropped.
func (o *OCR) Run(img *core.Mat, minConfidence int, level ComponentLevel) (Result, error) {
	if _, err := ffi.EnumFrom[ComponentLevel](int32(level)); err != nil {
		return Result{}, err
	}
	minConf, err := ffi.Int32("min confidence", minConfidence)
	if err != nil {
		return Result{}, fmt.Errorf("text: %w", err)
	}
	h, done, err := o.o.Lend()
	if err != nil {
		return Result{}, err
	}
	defer done()
	ih, idone, err := img.Borrow()
	if err != nil {
		return Result{}, err
	}
	defer idone()

	run := o.n.OCRRun(h, ih, minConf, int32(level))
	res := Result{Text: run.Text.Take()}
	boxes := run.Boxes.Unpack()
	words := ffi.UnpackWith(run.Words, ffi.CStr.String)
	confs := run.Confidences.Unpack()
	if len(boxes) != len(words) || len(words) != len(confs) {
		return Result{}, fmt.Errorf("text: %d boxes, %d words and %d confidences", len(boxes), len(words), len(confs))
	}
	res.Components = make([]Component, len(words))
	for i := range words {
		res.Components[i] = Component{Box: boxes[i], Text: words[i], Confidence: confs[i]}
	}
	return res, nil
}

// Close releases the recognizer.
func (o *OCR) Close() error { return o.o.Close() }
