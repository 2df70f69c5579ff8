package ensemble_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rafelafrance/ocrensemble/ensemble"
	"github.com/rafelafrance/ocrensemble/postprocess"
)

type fakeOCR struct {
	easy, tess string
}

func (f fakeOCR) EasyOCR(_ context.Context, _ ensemble.Image) (string, error) {
	return f.easy, nil
}

func (f fakeOCR) Tesseract(_ context.Context, _ ensemble.Image) (string, error) {
	return f.tess, nil
}

type identityPreprocessor struct{}

func (identityPreprocessor) Deskew(_ context.Context, image ensemble.Image) (ensemble.Image, error) {
	return image, nil
}

func (identityPreprocessor) Binarize(_ context.Context, image ensemble.Image) (ensemble.Image, error) {
	return image, nil
}

func (identityPreprocessor) Denoise(_ context.Context, image ensemble.Image) (ensemble.Image, error) {
	return image, nil
}

func TestNewRejectsEmptyPipes(t *testing.T) {
	_, err := ensemble.New(ensemble.Config{Pipes: map[ensemble.Pipe]bool{}})
	if !errors.Is(err, ensemble.ErrInvalidConfiguration) {
		t.Fatalf("New error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestNewRejectsPositiveGapPenalty(t *testing.T) {
	_, err := ensemble.New(ensemble.Config{
		Pipes:   map[ensemble.Pipe]bool{ensemble.NoneEasyOCR: true},
		GapOpen: 1.0,
	})
	if !errors.Is(err, ensemble.ErrInvalidConfiguration) {
		t.Fatalf("New error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestNeedsDeskewTransitivity(t *testing.T) {
	e, err := ensemble.New(ensemble.Config{
		Pipes: map[ensemble.Pipe]bool{ensemble.DenoiseEasyOCR: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !e.NeedsDeskew() || !e.NeedsBinarize() || !e.NeedsDenoise() {
		t.Fatal("denoise_easyocr must imply deskew, binarize, and denoise")
	}
}

func TestNeedsDeskewFalseForPlainPipes(t *testing.T) {
	e, err := ensemble.New(ensemble.Config{
		Pipes: map[ensemble.Pipe]bool{ensemble.NoneEasyOCR: true, ensemble.NoneTesseract: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if e.NeedsDeskew() || e.NeedsBinarize() || e.NeedsDenoise() {
		t.Fatal("none_easyocr/none_tesseract must not require any image transform")
	}
}

func TestPipelineLabelOrder(t *testing.T) {
	e, err := ensemble.New(ensemble.Config{
		Pipes: map[ensemble.Pipe]bool{
			ensemble.PostProcess:   true,
			ensemble.NoneEasyOCR:   true,
			ensemble.NoneTesseract: true,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := "[,easyocr],[,tesseract],[post_process]"
	if got := e.Pipeline(); got != want {
		t.Errorf("Pipeline = %q, want %q", got, want)
	}
}

func TestRunAgreeingEnginesProduceConsensus(t *testing.T) {
	e, err := ensemble.New(ensemble.Config{
		Pipes: map[ensemble.Pipe]bool{ensemble.NoneEasyOCR: true, ensemble.NoneTesseract: true},
		OCR:   fakeOCR{easy: "North Carolina", tess: "North Carolina"},
	})
	if err != nil {
		t.Fatal(err)
	}
	got, err := e.Run(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "North Carolina" {
		t.Errorf("Run = %q, want %q", got, "North Carolina")
	}
}

func TestRunRequiresPreprocessorWhenTransformNeeded(t *testing.T) {
	e, err := ensemble.New(ensemble.Config{
		Pipes: map[ensemble.Pipe]bool{ensemble.DeskewEasyOCR: true},
		OCR:   fakeOCR{easy: "text"},
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = e.Run(context.Background(), nil)
	if !errors.Is(err, ensemble.ErrInvalidConfiguration) {
		t.Fatalf("Run error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestRunWithPreprocessor(t *testing.T) {
	e, err := ensemble.New(ensemble.Config{
		Pipes:        map[ensemble.Pipe]bool{ensemble.DeskewEasyOCR: true, ensemble.NoneEasyOCR: true},
		OCR:          fakeOCR{easy: "Johns Island"},
		Preprocessor: identityPreprocessor{},
	})
	if err != nil {
		t.Fatal(err)
	}
	got, err := e.Run(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Johns Island" {
		t.Errorf("Run = %q, want %q", got, "Johns Island")
	}
}

func TestRunSkipsPostProcessWithoutDictionary(t *testing.T) {
	e, err := ensemble.New(ensemble.Config{
		Pipes: map[ensemble.Pipe]bool{ensemble.NoneEasyOCR: true, ensemble.PostProcess: true},
		OCR:   fakeOCR{easy: "carolona"},
	})
	if err != nil {
		t.Fatal(err)
	}
	got, err := e.Run(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "carolona" {
		t.Errorf("Run = %q, want unchanged %q", got, "carolona")
	}
}

func TestRunAppliesPostProcessWithDictionary(t *testing.T) {
	dict := postprocess.NewFrequencyDictionary(map[string]int{"carolina": 100})
	e, err := ensemble.New(ensemble.Config{
		Pipes:      map[ensemble.Pipe]bool{ensemble.NoneEasyOCR: true, ensemble.PostProcess: true},
		OCR:        fakeOCR{easy: "carolona"},
		Dictionary: dict,
	})
	if err != nil {
		t.Fatal(err)
	}
	got, err := e.Run(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "carolina" {
		t.Errorf("Run = %q, want %q", got, "carolina")
	}
}

func TestRunHonorsCanceledContext(t *testing.T) {
	e, err := ensemble.New(ensemble.Config{
		Pipes: map[ensemble.Pipe]bool{ensemble.NoneEasyOCR: true},
		OCR:   fakeOCR{easy: "text"},
	})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Run(ctx, nil); err == nil {
		t.Fatal("Run with a canceled context must return an error")
	}
}

func TestScoreStripsGaps(t *testing.T) {
	if got := ensemble.Score("west", "w⋄est"); got != 0 {
		t.Errorf("Score = %d, want 0", got)
	}
}

func TestScoreCountsEdits(t *testing.T) {
	if got := ensemble.Score("carolina", "carolona"); got != 1 {
		t.Errorf("Score = %d, want 1", got)
	}
}

func TestPipelinesEnumeratesPowerSetBySize(t *testing.T) {
	got := ensemble.Pipelines([]string{"b", "a"})
	want := [][]string{{"a"}, {"b"}, {"a", "b"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Pipelines mismatch (-want +got):\n%s", diff)
	}
}
