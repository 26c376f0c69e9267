package convert_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"arxivepub/internal/convert"
	"arxivepub/internal/services"
)

type stubExecutor struct {
	binary string
	args   []string
	err    error
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	s.binary = binary
	s.args = args
	return s.err
}

func TestLaTeXMLArguments(t *testing.T) {
	stub := &stubExecutor{}
	client := convert.NewLaTeXML("latexml", convert.WithLaTeXMLExecutor(stub))

	if err := client.Convert(context.Background(), "/src/main.tex", "/out/main.xml"); err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if stub.binary != "latexml" {
		t.Fatalf("binary = %q", stub.binary)
	}
	want := []string{"--dest=/out/main.xml", "/src/main.tex"}
	if !reflect.DeepEqual(stub.args, want) {
		t.Fatalf("args = %v, want %v", stub.args, want)
	}
}

func TestLaTeXMLPostArguments(t *testing.T) {
	stub := &stubExecutor{}
	client := convert.NewLaTeXMLPost("latexmlpost", convert.WithLaTeXMLPostExecutor(stub))

	if err := client.Convert(context.Background(), "/out/main.xml", "/out/main.html"); err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	want := []string{"--dest=/out/main.html", "/out/main.xml"}
	if !reflect.DeepEqual(stub.args, want) {
		t.Fatalf("args = %v, want %v", stub.args, want)
	}
}

func TestEbookConvertArguments(t *testing.T) {
	stub := &stubExecutor{}
	client := convert.NewEbookConvert("ebook-convert", "de", convert.WithEbookConvertExecutor(stub))

	if err := client.Convert(context.Background(), "/out/main.html", "/out/Paper.epub"); err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	want := []string{"/out/main.html", "/out/Paper.epub", "--language", "de", "--no-default-epub-cover"}
	if !reflect.DeepEqual(stub.args, want) {
		t.Fatalf("args = %v, want %v", stub.args, want)
	}
}

func TestConvertFailuresNameTheStep(t *testing.T) {
	stub := &stubExecutor{err: errors.New("exit status 1")}

	cases := []struct {
		step string
		run  func() error
	}{
		{"latexml", func() error {
			return convert.NewLaTeXML("latexml", convert.WithLaTeXMLExecutor(stub)).
				Convert(context.Background(), "a.tex", "a.xml")
		}},
		{"latexmlpost", func() error {
			return convert.NewLaTeXMLPost("latexmlpost", convert.WithLaTeXMLPostExecutor(stub)).
				Convert(context.Background(), "a.xml", "a.html")
		}},
		{"ebook-convert", func() error {
			return convert.NewEbookConvert("ebook-convert", "en", convert.WithEbookConvertExecutor(stub)).
				Convert(context.Background(), "a.html", "a.epub")
		}},
	}
	for _, tc := range cases {
		err := tc.run()
		if !errors.Is(err, services.ErrConversion) {
			t.Errorf("%s: expected ErrConversion, got %v", tc.step, err)
		}
		if err == nil || !strings.Contains(err.Error(), tc.step) {
			t.Errorf("%s: error should name the step, got %v", tc.step, err)
		}
	}
}
