package docconv_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/docconv"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := docconv.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, docconv.DefaultMaxFileSize, cfg.MaxFileSize)
	assert.Equal(t, docconv.EngineLedongthuc, cfg.PDFEngine)
	assert.NotNil(t, cfg.Logger)
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		content string
		size    int64
		engine  string
		wantErr require.ErrorAssertionFunc
	}{
		"full": {
			content: "max_file_size: 2048\npdf_engine: pdfcpu\n",
			size:    2048, engine: docconv.EnginePDFCPU, wantErr: require.NoError,
		},
		"partial keeps defaults": {
			content: "pdf_engine: pdfcpu\n",
			size:    docconv.DefaultMaxFileSize, engine: docconv.EnginePDFCPU, wantErr: require.NoError,
		},
		"unknown engine": {
			content: "pdf_engine: tesseract\n",
			wantErr: require.Error,
		},
		"malformed yaml": {
			content: "max_file_size: [\n",
			wantErr: require.Error,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "docconv.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			cfg, err := docconv.LoadConfig(path)
			tt.wantErr(t, err)
			if err != nil {
				return
			}
			assert.Equal(t, tt.size, cfg.MaxFileSize)
			assert.Equal(t, tt.engine, cfg.PDFEngine)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()
	_, err := docconv.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

// Not parallel: t.Setenv.
func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("DOCCONV_MAX_FILE_SIZE", "1024")
	t.Setenv("DOCCONV_PDF_ENGINE", "pdfcpu")

	path := filepath.Join(t.TempDir(), "docconv.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_file_size: 2048\n"), 0o600))

	cfg, err := docconv.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, int64(1024), cfg.MaxFileSize)
	assert.Equal(t, docconv.EnginePDFCPU, cfg.PDFEngine)

	conv := docconv.New(cfg)
	out := convert(t, conv, "big.txt", make([]byte, 1025), docconv.JSONL)
	assert.Equal(t, docconv.KindTooLarge, out.ErrorKind)
}

func TestNewUnknownEngineFallsBack(t *testing.T) {
	t.Parallel()
	conv := docconv.New(docconv.Config{PDFEngine: "nope"})
	out := convert(t, conv, "broken.pdf", []byte("%PDF-1.4\n"), docconv.JSONL)
	assert.Equal(t, docconv.KindCorrupt, out.ErrorKind)
}
