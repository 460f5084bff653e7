package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/user/photoinsight/pkg/datauri"
	"github.com/user/photoinsight/pkg/mocks"
	"github.com/user/photoinsight/pkg/pipeline"
	"github.com/user/photoinsight/pkg/ports"
	"github.com/user/photoinsight/pkg/scoring"
)

type stubs struct {
	exif     *mocks.ExifReader
	compress pipeline.StageFunc[pipeline.CompressionRequest, pipeline.CompressionResult]
	card     pipeline.StageFunc[pipeline.ShareCardRequest, pipeline.ShareCardResult]
	export   pipeline.StageFunc[pipeline.ExportInput, pipeline.ExportResult]
	logger   *mocks.Logger

	compressCalls []pipeline.CompressionRequest
	cardCalls     []pipeline.ShareCardRequest
	exportCalls   []pipeline.ExportInput
}

var cardURI = datauri.Encode("image/jpeg", []byte("card-jpeg"))

func newStubs() *stubs {
	s := &stubs{exif: &mocks.ExifReader{}, logger: mocks.NewLogger()}
	s.compress = func(ctx context.Context, req pipeline.CompressionRequest) (pipeline.CompressionResult, error) {
		s.compressCalls = append(s.compressCalls, req)
		file := req.File
		file.Name = "small.jpg"
		file.Data = []byte("small")
		return pipeline.CompressionResult{File: file, Quality: 70, Attempts: 2, Width: 2560, Height: 1920}, nil
	}
	s.card = func(ctx context.Context, req pipeline.ShareCardRequest) (pipeline.ShareCardResult, error) {
		s.cardCalls = append(s.cardCalls, req)
		return pipeline.ShareCardResult{
			DataURI: cardURI,
			Layout:  pipeline.CardLayout{Size: pipeline.Dimension{Width: 1080, Height: 2000}},
			TierID:  scoring.TierFor(req.Scores.Overall).ID,
		}, nil
	}
	s.export = func(ctx context.Context, in pipeline.ExportInput) (pipeline.ExportResult, error) {
		s.exportCalls = append(s.exportCalls, in)
		return pipeline.ExportResult{Saved: true, Method: "download", Location: "out/card.jpg"}, nil
	}
	return s
}

func (s *stubs) build() *Orchestrator {
	return New(s.exif, s.compress, s.card, s.export, s.logger, Config{})
}

func TestNew_DefaultTarget(t *testing.T) {
	s := newStubs()
	o := s.build()
	if o.config.TargetMB != pipeline.DefaultTargetMB {
		t.Errorf("TargetMB = %v, want %v", o.config.TargetMB, pipeline.DefaultTargetMB)
	}
}

func TestPrepareUpload_ReadsExifBeforeCompressing(t *testing.T) {
	s := newStubs()
	var order []string
	original := []byte("original-with-exif")
	s.exif.ReadFunc = func(data []byte) (*pipeline.ExifSnapshot, error) {
		order = append(order, "exif")
		if string(data) != string(original) {
			t.Errorf("EXIF read from %q, want original bytes", data)
		}
		return &pipeline.ExifSnapshot{Camera: "SONY ILCE-7M3", Aperture: "f/1.8"}, nil
	}
	compress := s.compress
	s.compress = func(ctx context.Context, req pipeline.CompressionRequest) (pipeline.CompressionResult, error) {
		order = append(order, "compress")
		return compress(ctx, req)
	}

	up, err := s.build().PrepareUpload(context.Background(), pipeline.ImageFile{Name: "a.jpg", MIMEType: "image/jpeg", Data: original})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(order) != 2 || order[0] != "exif" || order[1] != "compress" {
		t.Errorf("order = %v, want [exif compress]", order)
	}
	if up.Exif == nil || up.Exif.Camera != "SONY ILCE-7M3" {
		t.Errorf("Exif = %+v", up.Exif)
	}
	if up.File.Name != "small.jpg" {
		t.Errorf("File.Name = %q", up.File.Name)
	}
	if s.compressCalls[0].TargetMB != pipeline.DefaultTargetMB {
		t.Errorf("TargetMB = %v", s.compressCalls[0].TargetMB)
	}
}

func TestPrepareUpload_ExifFailureIsNotFatal(t *testing.T) {
	s := newStubs()
	s.exif.ReadFunc = func(data []byte) (*pipeline.ExifSnapshot, error) {
		return &pipeline.ExifSnapshot{Camera: "partial"}, errors.New("corrupt IFD")
	}

	up, err := s.build().PrepareUpload(context.Background(), pipeline.ImageFile{Name: "a.jpg", Data: []byte("x")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up.Exif != nil {
		t.Errorf("Exif = %+v, want nil", up.Exif)
	}
	if !s.logger.Has(ports.LevelWarn, "corrupt IFD") {
		t.Error("EXIF failure should be logged as a warning")
	}
}

func TestPrepareUpload_CompressError(t *testing.T) {
	s := newStubs()
	s.compress = func(ctx context.Context, req pipeline.CompressionRequest) (pipeline.CompressionResult, error) {
		return pipeline.CompressionResult{}, context.Canceled
	}

	_, err := s.build().PrepareUpload(context.Background(), pipeline.ImageFile{Name: "a.jpg"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected wrapped context.Canceled, got %v", err)
	}
}

func TestRenderShareCard(t *testing.T) {
	s := newStubs()
	uri := s.build().RenderShareCard(context.Background(), pipeline.ShareCardRequest{Title: "Dusk", Scores: pipeline.ScoreSet{Overall: 9.2}})
	if uri != cardURI {
		t.Errorf("uri = %q, want %q", uri, cardURI)
	}
	if s.logger.Count(ports.LevelError) != 0 {
		t.Errorf("unexpected errors: %+v", s.logger.Entries())
	}
}

func TestRenderShareCard_FailureReturnsEmpty(t *testing.T) {
	s := newStubs()
	s.card = func(ctx context.Context, req pipeline.ShareCardRequest) (pipeline.ShareCardResult, error) {
		return pipeline.ShareCardResult{}, errors.New("photo load timed out")
	}

	uri := s.build().RenderShareCard(context.Background(), pipeline.ShareCardRequest{})
	if uri != "" {
		t.Errorf("uri = %q, want empty", uri)
	}
	if !s.logger.Has(ports.LevelError, "Generation failed, please retry") {
		t.Errorf("missing user-facing error, got %+v", s.logger.Entries())
	}
}

func TestShareCard(t *testing.T) {
	tests := []struct {
		name        string
		cardErr     error
		saved       bool
		want        bool
		wantExport  int
		wantSaveLog bool
	}{
		{name: "rendered and saved", saved: true, want: true, wantExport: 1},
		{name: "export failed", saved: false, want: false, wantExport: 1, wantSaveLog: true},
		{name: "render failed", cardErr: errors.New("boom"), want: false, wantExport: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStubs()
			if tt.cardErr != nil {
				s.card = func(ctx context.Context, req pipeline.ShareCardRequest) (pipeline.ShareCardResult, error) {
					return pipeline.ShareCardResult{}, tt.cardErr
				}
			}
			s.export = func(ctx context.Context, in pipeline.ExportInput) (pipeline.ExportResult, error) {
				s.exportCalls = append(s.exportCalls, in)
				return pipeline.ExportResult{Saved: tt.saved, Method: "share"}, nil
			}

			got := s.build().ShareCard(context.Background(), pipeline.ShareCardRequest{Title: "Dusk"})
			if got != tt.want {
				t.Errorf("ShareCard() = %v, want %v", got, tt.want)
			}
			if len(s.exportCalls) != tt.wantExport {
				t.Fatalf("export calls = %d, want %d", len(s.exportCalls), tt.wantExport)
			}
			if tt.wantExport > 0 {
				in := s.exportCalls[0]
				if in.DataURI != cardURI || in.Title != "Dusk" {
					t.Errorf("export input = %+v", in)
				}
			}
			if got := s.logger.Has(ports.LevelError, "long-press"); got != tt.wantSaveLog {
				t.Errorf("save-failed log = %v, want %v", got, tt.wantSaveLog)
			}
		})
	}
}

func TestRun(t *testing.T) {
	s := newStubs()
	s.exif.ReadFunc = func(data []byte) (*pipeline.ExifSnapshot, error) {
		return &pipeline.ExifSnapshot{Camera: "FUJIFILM X100V"}, nil
	}

	in := RunInput{
		File: pipeline.ImageFile{Name: "big.png", MIMEType: "image/png", Data: make([]byte, 4096)},
		Request: pipeline.ShareCardRequest{
			Title:  "Harbor",
			Tags:   []string{"street"},
			Scores: pipeline.ScoreSet{Overall: 8.3},
		},
		Export: true,
	}
	result, err := s.build().Run(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := s.cardCalls[0]
	p, err := datauri.Decode(req.Source)
	if err != nil {
		t.Fatalf("card source is not a data URI: %v", err)
	}
	if string(p.Data) != "small" {
		t.Errorf("card rendered from %q, want compressed bytes", p.Data)
	}
	if req.Exif == nil || req.Exif.Camera != "FUJIFILM X100V" {
		t.Errorf("card Exif = %+v, want the upload snapshot", req.Exif)
	}

	if result.Tier.ID != scoring.TierMasterWork {
		t.Errorf("Tier = %q", result.Tier.ID)
	}
	if result.CardBytes != len("card-jpeg") {
		t.Errorf("CardBytes = %d", result.CardBytes)
	}
	if result.OriginalBytes != 4096 {
		t.Errorf("OriginalBytes = %d", result.OriginalBytes)
	}
	if !result.Export.Saved || result.Export.Location != "out/card.jpg" {
		t.Errorf("Export = %+v", result.Export)
	}
}

func TestRun_KeepsExplicitSourceAndExif(t *testing.T) {
	s := newStubs()
	s.exif.ReadFunc = func(data []byte) (*pipeline.ExifSnapshot, error) {
		return &pipeline.ExifSnapshot{Camera: "from file"}, nil
	}

	in := RunInput{
		File: pipeline.ImageFile{Name: "a.jpg", Data: []byte("x")},
		Request: pipeline.ShareCardRequest{
			Source: "https://cdn.example.com/a.jpg",
			Exif:   &pipeline.ExifSnapshot{Camera: "from request"},
		},
	}
	result, err := s.build().Run(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := s.cardCalls[0]
	if req.Source != "https://cdn.example.com/a.jpg" {
		t.Errorf("Source = %q", req.Source)
	}
	if req.Exif.Camera != "from request" {
		t.Errorf("Exif.Camera = %q", req.Exif.Camera)
	}
	if len(s.exportCalls) != 0 {
		t.Error("export must not run unless requested")
	}
	if result.Export.Saved {
		t.Error("Export.Saved should be false")
	}
}

func TestRun_CardFailure(t *testing.T) {
	s := newStubs()
	s.card = func(ctx context.Context, req pipeline.ShareCardRequest) (pipeline.ShareCardResult, error) {
		return pipeline.ShareCardResult{}, errors.New("decode failed")
	}

	_, err := s.build().Run(context.Background(), RunInput{File: pipeline.ImageFile{Name: "a.jpg"}})
	if !errors.Is(err, ErrNoCard) {
		t.Errorf("expected ErrNoCard, got %v", err)
	}
}

func TestDescribeExif(t *testing.T) {
	e := &pipeline.ExifSnapshot{Camera: "SONY ILCE-7M3", FocalLength: "35mm", Aperture: "f/1.8", ISO: "ISO 200"}
	if got, want := describeExif(e), "SONY ILCE-7M3 35mm f/1.8 ISO 200"; got != want {
		t.Errorf("describeExif() = %q, want %q", got, want)
	}
	if got := describeExif(&pipeline.ExifSnapshot{Aperture: "f/2"}); got != "f/2" {
		t.Errorf("describeExif() = %q, want f/2", got)
	}
}
