package main_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shoplens/shoplens"
	main "github.com/shoplens/shoplens/cmd/shoplens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExtractor satisfies main.Extractor without a browser.
type stubExtractor struct {
	fn      func(ctx context.Context, url string, opts shoplens.ExtractOptions) (*shoplens.ProductRecord, error)
	invoked int
}

func (s *stubExtractor) Extract(ctx context.Context, url string, opts shoplens.ExtractOptions) (*shoplens.ProductRecord, error) {
	s.invoked++
	return s.fn(ctx, url, opts)
}

func TestRun_NoArgs(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	err := m.Run(context.Background(), nil, stdout, stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"--help"}, stdout, stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "extract")
	assert.Contains(t, stdout.String(), "platforms")
}

func TestRun_Platforms(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"platforms"}, stdout, stderr)

	require.NoError(t, err)
	lines := strings.Fields(stdout.String())
	assert.Equal(t, []string{"amazon", "flipkart", "myntra", "snapdeal"}, lines)
}

func TestRun_Extract(t *testing.T) {
	t.Parallel()

	t.Run("prints one JSON line per record", func(t *testing.T) {
		t.Parallel()

		stub := &stubExtractor{
			fn: func(ctx context.Context, url string, opts shoplens.ExtractOptions) (*shoplens.ProductRecord, error) {
				return &shoplens.ProductRecord{
					Title:       shoplens.String("Wireless Mouse"),
					OriginalURL: url,
				}, nil
			},
		}
		m := main.NewMain()
		m.Pipeline = stub
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := m.Run(context.Background(), []string{
			"extract",
			"https://www.amazon.in/dp/B0TEST123",
			"https://www.flipkart.com/p/itmTEST456",
		}, stdout, stderr)

		require.NoError(t, err)
		assert.Equal(t, 2, stub.invoked)
		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		require.Len(t, lines, 2)
		for _, line := range lines {
			assert.Contains(t, line, `"Wireless Mouse"`)
		}
	})

	t.Run("passes flags through to options", func(t *testing.T) {
		t.Parallel()

		var got shoplens.ExtractOptions
		stub := &stubExtractor{
			fn: func(ctx context.Context, url string, opts shoplens.ExtractOptions) (*shoplens.ProductRecord, error) {
				got = opts
				return &shoplens.ProductRecord{Title: shoplens.String("X")}, nil
			},
		}
		m := main.NewMain()
		m.Pipeline = stub
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := m.Run(context.Background(), []string{
			"extract",
			"--bypass-cache",
			"-V", "size=XL",
			"--delivery", "--pincode", "110001",
			"https://www.amazon.in/dp/B0TEST123",
		}, stdout, stderr)

		require.NoError(t, err)
		assert.True(t, got.BypassCache)
		assert.Equal(t, map[string]string{"size": "XL"}, got.Variants)
		assert.True(t, got.CheckDelivery)
		assert.Equal(t, "110001", got.LocationCode)
	})

	t.Run("delivery without pincode is rejected", func(t *testing.T) {
		t.Parallel()

		stub := &stubExtractor{
			fn: func(ctx context.Context, url string, opts shoplens.ExtractOptions) (*shoplens.ProductRecord, error) {
				return nil, nil
			},
		}
		m := main.NewMain()
		m.Pipeline = stub
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := m.Run(context.Background(), []string{
			"extract", "--delivery", "https://www.amazon.in/dp/B0TEST123",
		}, stdout, stderr)

		require.Error(t, err)
		assert.Equal(t, shoplens.EINVALID, shoplens.ErrorCode(err))
		assert.Equal(t, 0, stub.invoked)
	})

	t.Run("partial failures report but do not fail the batch", func(t *testing.T) {
		t.Parallel()

		stub := &stubExtractor{
			fn: func(ctx context.Context, url string, opts shoplens.ExtractOptions) (*shoplens.ProductRecord, error) {
				if strings.Contains(url, "flipkart") {
					return nil, shoplens.Errorf(shoplens.ERENDER, "render failed")
				}
				return &shoplens.ProductRecord{Title: shoplens.String("OK")}, nil
			},
		}
		m := main.NewMain()
		m.Pipeline = stub
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := m.Run(context.Background(), []string{
			"extract",
			"https://www.amazon.in/dp/B0TEST123",
			"https://www.flipkart.com/p/itmTEST456",
		}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "render failed")
		assert.Contains(t, stdout.String(), `"OK"`)
	})

	t.Run("all failures fail the batch", func(t *testing.T) {
		t.Parallel()

		stub := &stubExtractor{
			fn: func(ctx context.Context, url string, opts shoplens.ExtractOptions) (*shoplens.ProductRecord, error) {
				return nil, shoplens.Errorf(shoplens.ERENDER, "render failed")
			},
		}
		m := main.NewMain()
		m.Pipeline = stub
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := m.Run(context.Background(), []string{
			"extract", "https://www.amazon.in/dp/B0TEST123",
		}, stdout, stderr)

		require.Error(t, err)
		assert.Equal(t, shoplens.EINCOMPLETE, shoplens.ErrorCode(err))
	})
}
