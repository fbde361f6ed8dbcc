package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/talentwire/cvscan/internal/profile"
	"github.com/talentwire/cvscan/internal/providers"
)

const goodResponse = `{
  "nombre": "Juan Pérez",
  "edad": "32 años",
  "hay_foto_en_cv": "sí",
  "nivel": "senior",
  "oficios": [],
  "idiomas": []
}`

func testExtractor(t *testing.T, mock *providers.MockClient) *Extractor {
	t.Helper()
	cs := testCompiled(t)
	p := profile.New("electricista", profile.Options{Locale: "Lanús"})
	return New(mock, cs, p, Options{Temperature: 0.2})
}

func TestExtractOne(t *testing.T) {
	mock := providers.NewMockClient()
	mock.Responses = []string{goodResponse}

	out, err := testExtractor(t, mock).ExtractOne(context.Background(), "texto del cv")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	if out.Attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", out.Attempts)
	}
	if out.Record["nombre"] != "Juan Pérez" {
		t.Errorf("unexpected nombre: %v", out.Record["nombre"])
	}
	if out.Record["edad"] != int64(32) {
		t.Errorf("lenient age not coerced: %v", out.Record["edad"])
	}
	if out.Record["hay_foto_en_cv"] != true {
		t.Errorf("boolean vocabulary not coerced: %v", out.Record["hay_foto_en_cv"])
	}
	if _, ok := out.Record[DerivedKey]; !ok {
		t.Error("derived field missing from record")
	}
	if mock.RequestCount() != 1 {
		t.Errorf("expected 1 model call, got %d", mock.RequestCount())
	}

	rf := mock.Calls()[0].ResponseFormat
	if rf == nil || rf.Type != "json_object" {
		t.Errorf("every call must request JSON output, got %+v", rf)
	}
}

func TestExtractOne_FencedResponse(t *testing.T) {
	mock := providers.NewMockClient()
	mock.Responses = []string{"```json\n" + goodResponse + "\n```"}

	out, err := testExtractor(t, mock).ExtractOne(context.Background(), "texto")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if out.Attempts != 1 {
		t.Errorf("fenced but valid response must not trigger a correction, attempts=%d", out.Attempts)
	}
}

func TestExtractOne_CorrectionRecovers(t *testing.T) {
	mock := providers.NewMockClient()
	mock.Responses = []string{
		`{"nombre": "Juan", "edad": 99}`, // out of range
		goodResponse,
	}

	out, err := testExtractor(t, mock).ExtractOne(context.Background(), "texto")
	if err != nil {
		t.Fatalf("correction should have recovered: %v", err)
	}
	if out.Attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", out.Attempts)
	}

	calls := mock.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected exactly 2 model calls, got %d", len(calls))
	}

	// The correction keeps the original prompt and appends the addendum.
	original := calls[0].Messages[1].Content
	corrected := calls[1].Messages[1].Content
	if !strings.HasPrefix(corrected, original) {
		t.Error("correction must preserve the original user prompt")
	}
	if !strings.Contains(corrected, "campo 'edad'") {
		t.Error("correction must embed the validation error")
	}
	if !strings.Contains(corrected, `"nombre": "Juan"`) {
		t.Error("correction must embed the previous response excerpt")
	}
	if calls[1].Temperature != 0.1 {
		t.Errorf("correction temperature must be 0.1, got %v", calls[1].Temperature)
	}
}

func TestExtractOne_SecondFailureRejects(t *testing.T) {
	mock := providers.NewMockClient()
	mock.Responses = []string{"no es json", "tampoco es json"}

	_, err := testExtractor(t, mock).ExtractOne(context.Background(), "texto")
	if err == nil {
		t.Fatal("expected rejection after failed correction")
	}
	if mock.RequestCount() != 2 {
		t.Errorf("exactly one correction allowed, got %d calls", mock.RequestCount())
	}

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Errorf("rejection must wrap the final cause, got %v", err)
	}
}

func TestExtractOne_ProviderErrorSkipsCorrection(t *testing.T) {
	mock := providers.NewMockClient()
	mock.Err = &providers.ProviderError{Provider: "mock", StatusCode: 500, Message: "boom"}

	_, err := testExtractor(t, mock).ExtractOne(context.Background(), "texto")
	if err == nil {
		t.Fatal("expected provider error")
	}
	var pe *providers.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProviderError, got %T", err)
	}
	if mock.RequestCount() != 1 {
		t.Errorf("transport failures must not burn the correction, got %d calls", mock.RequestCount())
	}
}

func TestExtractOne_ProviderErrorDuringCorrection(t *testing.T) {
	mock := providers.NewMockClient()
	mock.Responses = []string{"no es json", "irrelevante"}
	mock.Err = &providers.ProviderError{Provider: "mock", Message: "down"}
	mock.ErrAt = 2

	_, err := testExtractor(t, mock).ExtractOne(context.Background(), "texto")
	var pe *providers.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProviderError from correction call, got %v", err)
	}
}
