package config

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLoadDefaultConfig(t *testing.T) {
	opts, err := GetConfig()
	if err != nil {
		t.Fatalf("Error loading config: %s", err)
	}

	t.Logf(`Config
		Host: %s
		Port: %d
		LogLevel: %s
		Packager: %s
		`, opts.Host, opts.Port, opts.LogLevel, opts.Packager)

	if opts.Packager != PackagerNative {
		t.Errorf("packager not set")
	}
	if opts.OutputFile != "output.epub" {
		t.Errorf("output_file not set")
	}
	if opts.MaxUploadBytes() != 32<<20 {
		t.Errorf("max_upload_size incorrect")
	}
}

func TestLoadConfigFile(t *testing.T) {
	GetDefaultOptions()
	opts, err := ParseFile("config_test.toml")
	if err != nil {
		t.Fatalf("Error loading config: %s", err)
	}
	t.Logf(`Config
		Host: %s
		Port: %d
		LogLevel: %s
		LogFile: %s
		`, opts.Host, opts.Port, opts.LogLevel, opts.LogFile)
	if opts.Host != "127.0.0.1" {
		t.Errorf("host incorrect")
	}
	if opts.LogFile != "test.log" {
		t.Errorf("log_file incorrect")
	}
	if opts.Port != 2333 {
		t.Errorf("port incorrect")
	}
	if opts.LogLevel != "debug" {
		t.Errorf("log_level incorrect")
	}
	if opts.Packager != PackagerGoEpub {
		t.Errorf("packager incorrect")
	}
	if opts.DefaultLanguage != "fr" {
		t.Errorf("default_language incorrect")
	}
	// Keys absent from the file keep their defaults.
	if opts.RateBurst != defaultRateBurst {
		t.Errorf("rate_burst should keep its default, got %d", opts.RateBurst)
	}
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("JSON2EPUB_PORT", "9999")
	t.Setenv("JSON2EPUB_PACKAGER", "go-epub")

	opts, err := GetConfig()
	if err != nil {
		t.Fatalf("Error loading config: %s", err)
	}
	if opts.Port != 9999 {
		t.Errorf("port from environment not applied, got %d", opts.Port)
	}
	if opts.Packager != PackagerGoEpub {
		t.Errorf("packager from environment not applied, got %s", opts.Packager)
	}
}

func TestValidate(t *testing.T) {
	opts := GetDefaultOptions()
	opts.Packager = "zip"
	if err := opts.Validate(); err == nil {
		t.Errorf("expected an error for an unknown packager")
	}

	opts = GetDefaultOptions()
	opts.WorkerPoolSize = 0
	if err := opts.Validate(); err == nil {
		t.Errorf("expected an error for an empty worker pool")
	}

	for _, lang := range []string{"", "not a tag", "en_GB!"} {
		opts = GetDefaultOptions()
		opts.DefaultLanguage = lang
		if err := opts.Validate(); err == nil {
			t.Errorf("expected an error for default_language %q", lang)
		}
	}

	opts = GetDefaultOptions()
	opts.DefaultLanguage = "PT-br"
	if err := opts.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.DefaultLanguage != "pt-BR" {
		t.Errorf("default_language not normalised, got %s", opts.DefaultLanguage)
	}
}

func TestMissingConfigFile(t *testing.T) {
	if _, err := ParseFile("does-not-exist.toml"); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestLoadWithFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("template-dir", "", "")
	flags.Int("port", 0, "")
	if err := flags.Parse([]string{"--template-dir", "/tmp/templates"}); err != nil {
		t.Fatal(err)
	}

	opts, err := Load("config_test.toml", flags)
	if err != nil {
		t.Fatalf("Error loading config: %s", err)
	}
	if opts.TemplateDir != "/tmp/templates" {
		t.Errorf("template_dir flag not applied, got %q", opts.TemplateDir)
	}
	// An unset flag does not hide the file value.
	if opts.Port != 2333 {
		t.Errorf("port incorrect, got %d", opts.Port)
	}
}
