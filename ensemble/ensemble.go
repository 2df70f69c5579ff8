/*
Package ensemble orchestrates the fusion core (align, multialign,
consensus, postprocess) over the output of an injected set of OCR
engines and image preprocessors, and scores the result against a gold
standard. It implements the Ensemble Runner and Scoring/Evaluation
components of the OCR ensemble fusion core.
*/
package ensemble

import (
	"context"
	"strings"

	"github.com/rafelafrance/ocrensemble/align"
	"github.com/rafelafrance/ocrensemble/charset"
	"github.com/rafelafrance/ocrensemble/consensus"
	"github.com/rafelafrance/ocrensemble/multialign"
	"github.com/rafelafrance/ocrensemble/postprocess"
)

// Image is an opaque handle to whatever image representation OCREngine
// and ImagePreprocessor agree on. Ensemble never inspects it; OCR engine
// invocation and image preprocessing are out of scope for this module.
type Image any

// OCREngine runs one OCR engine over an image and returns its best text.
// Callers supply a concrete implementation; none ships with this module.
type OCREngine interface {
	EasyOCR(ctx context.Context, image Image) (string, error)
	Tesseract(ctx context.Context, image Image) (string, error)
}

// ImagePreprocessor applies one image transform ahead of OCR. Callers
// supply a concrete implementation; none ships with this module.
type ImagePreprocessor interface {
	Deskew(ctx context.Context, image Image) (Image, error)
	Binarize(ctx context.Context, image Image) (Image, error)
	Denoise(ctx context.Context, image Image) (Image, error)
}

// Config assembles everything Ensemble needs to run: the enabled pipeline
// set, the alignment scorer and penalties, the Line Filter threshold, the
// post-processing dictionary, and the OCR/image collaborators.
type Config struct {
	Pipes map[Pipe]bool

	Scorer    charset.Scorer
	GapOpen   float64
	GapExtend float64

	FilterThreshold int
	VocabLen        int
	Dictionary      postprocess.Dictionary

	OCR          OCREngine
	Preprocessor ImagePreprocessor
}

// Ensemble is the orchestration object the original's
// ensemble/pylib/ocr/ensemble.py Ensemble class represents.
type Ensemble struct {
	pipes map[Pipe]bool

	aligner         *align.Aligner
	filterThreshold int
	vocabLen        int
	dict            postprocess.Dictionary

	ocr          OCREngine
	preprocessor ImagePreprocessor
}

// New validates cfg and builds an Ensemble. It returns
// ErrInvalidConfiguration if no pipeline is enabled, or if GapOpen/GapExtend
// reward rather than penalize a gap (a positive value).
func New(cfg Config) (*Ensemble, error) {
	enabled := false
	for _, on := range cfg.Pipes {
		if on {
			enabled = true
			break
		}
	}
	if !enabled {
		return nil, ErrInvalidConfiguration
	}
	if cfg.GapOpen > 0 || cfg.GapExtend > 0 {
		return nil, ErrInvalidConfiguration
	}

	threshold := cfg.FilterThreshold
	if threshold == 0 {
		threshold = multialign.DefaultFilterThreshold
	}
	vocabLen := cfg.VocabLen
	if vocabLen == 0 {
		vocabLen = postprocess.VocabLen
	}

	pipes := make(map[Pipe]bool, len(cfg.Pipes))
	for p, on := range cfg.Pipes {
		if on {
			pipes[p] = true
		}
	}

	return &Ensemble{
		pipes:           pipes,
		aligner:         &align.Aligner{Scorer: cfg.Scorer, GapOpen: cfg.GapOpen, GapExtend: cfg.GapExtend},
		filterThreshold: threshold,
		vocabLen:        vocabLen,
		dict:            cfg.Dictionary,
		ocr:             cfg.OCR,
		preprocessor:    cfg.Preprocessor,
	}, nil
}

// NeedsDeskew reports whether any enabled pipe requires a deskewed image,
// directly or because a downstream transform (binarize, denoise) needs one.
func (e *Ensemble) NeedsDeskew() bool {
	for p := range e.pipes {
		if strings.HasPrefix(string(p), "deskew") {
			return true
		}
	}
	return e.NeedsBinarize() || e.NeedsDenoise()
}

// NeedsBinarize reports whether any enabled pipe requires a binarized
// image, directly or because denoise needs one.
func (e *Ensemble) NeedsBinarize() bool {
	for p := range e.pipes {
		if strings.HasPrefix(string(p), "binarize") {
			return true
		}
	}
	return e.NeedsDenoise()
}

// NeedsDenoise reports whether any enabled pipe requires a denoised image.
func (e *Ensemble) NeedsDenoise() bool {
	for p := range e.pipes {
		if strings.HasPrefix(string(p), "denoise") {
			return true
		}
	}
	return false
}

// Pipeline returns the enabled pipes' labels, comma-joined in canonical
// order, matching the original's Ensemble.pipeline property.
func (e *Ensemble) Pipeline() string {
	var labels []string
	for _, info := range pipeOrder {
		if e.pipes[info.pipe] {
			labels = append(labels, info.label)
		}
	}
	return strings.Join(labels, ",")
}

// Run executes the full fusion pipeline over one image: OCR under every
// enabled (transform, engine) pipeline, Line Filter, Multiple Aligner,
// consensus, and (if post_process is enabled) the post-processing
// tool-chain; without a Dictionary only its Substitute step runs. ctx is
// checked once, before any OCR engine is invoked;
// cancellation mid-alignment is not observed.
func (e *Ensemble) Run(ctx context.Context, image Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lines, err := e.ocrAll(ctx, image)
	if err != nil {
		return "", err
	}

	lines = multialign.FilterOutliers(lines, e.filterThreshold)
	aligned := multialign.Align(e.aligner, lines)
	text := consensus.Build(aligned)

	if e.pipes[PostProcess] {
		if e.dict == nil {
			logPostProcessingSoft("post_process", ErrPostProcessingSoft)
			text = postprocess.Substitute(text)
		} else {
			text = postprocess.Run(text, e.dict, e.vocabLen)
		}
	}

	return text, nil
}

// ocrAll runs one OCR call per enabled (transform, engine) pipe, in
// pipeOrder, preprocessing the source image for each distinct transform at
// most once.
func (e *Ensemble) ocrAll(ctx context.Context, image Image) ([]string, error) {
	var deskewed, binarized, denoised Image
	var err error

	if e.NeedsDeskew() {
		if e.preprocessor == nil {
			return nil, ErrInvalidConfiguration
		}
		if deskewed, err = e.preprocessor.Deskew(ctx, image); err != nil {
			return nil, err
		}
	}
	if e.NeedsBinarize() {
		if binarized, err = e.preprocessor.Binarize(ctx, deskewed); err != nil {
			return nil, err
		}
	}
	if e.NeedsDenoise() {
		if denoised, err = e.preprocessor.Denoise(ctx, binarized); err != nil {
			return nil, err
		}
	}

	preProcess := e.pipes[PreProcess]

	var lines []string
	for _, info := range pipeOrder {
		if !info.ocr || !e.pipes[info.pipe] {
			continue
		}

		var src Image
		switch info.transform {
		case transformDeskew:
			src = deskewed
		case transformBinarize:
			src = binarized
		case transformDenoise:
			src = denoised
		default:
			src = image
		}

		var line string
		if info.tesseract {
			line, err = e.ocr.Tesseract(ctx, src)
		} else {
			line, err = e.ocr.EasyOCR(ctx, src)
		}
		if err != nil {
			return nil, err
		}

		if preProcess {
			line = postprocess.Substitute(strings.TrimSpace(line))
		}
		lines = append(lines, line)
	}

	return lines, nil
}
