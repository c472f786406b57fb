package converter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nconklindev/xlsx2vcf/internal/types"
)

var ErrFileTooLarge = errors.New("file exceeds size limit")

const defaultChunkSize = 32 * 1024

// ReadFile loads a whole file in chunks, reporting the fraction read on
// progressChan. Sends never block; a slow receiver just misses updates.
func ReadFile(path string, maxSize int64, chunkSize int, progressChan chan<- float64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	total := info.Size()
	if maxSize > 0 && total > maxSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrFileTooLarge, total, maxSize)
	}
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	report := func(read int64) {
		if progressChan == nil || total == 0 {
			return
		}
		select {
		case progressChan <- float64(read) / float64(total):
		default:
		}
	}

	var buf bytes.Buffer
	buf.Grow(int(total))
	chunk := make([]byte, chunkSize)

	for {
		n, err := f.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			if maxSize > 0 && int64(buf.Len()) > maxSize {
				return nil, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, maxSize)
			}
			report(int64(buf.Len()))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// SaveDownload writes d into dir under its fixed filename and returns the
// final path. The file is written to a temp name first and renamed, so a
// failed save never leaves a partial contacts file behind.
func SaveDownload(dir string, d *types.Download) (string, error) {
	if d == nil {
		return "", errors.New("nothing to download")
	}
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, ".contacts-*.vcf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(d.Body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write %s: %w", d.Filename, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close %s: %w", d.Filename, err)
	}

	outputFile := filepath.Join(dir, d.Filename)
	if err := os.Rename(tmpName, outputFile); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("rename to %s: %w", outputFile, err)
	}
	// CreateTemp uses 0600
	if err := os.Chmod(outputFile, 0644); err != nil {
		return "", err
	}

	return outputFile, nil
}
