package main

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/ulikunitz/xz"
	xzReader "github.com/xi2/xz"
)

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var err error
	for i := len(rc.closers) - 1; i >= 0; i-- {
		cerr := rc.closers[i].Close()
		if err == nil {
			err = cerr
		}
	}
	return err
}

// loadData opens a local file or an http(s) link, decompressing it
// according to its extension.
func loadData(pathOpt string) (io.ReadCloser, error) {
	var reader io.ReadCloser

	// Local paths are never parsed as URLs, they may contain '%' or '?'
	name := pathOpt
	if strings.HasPrefix(pathOpt, "http://") || strings.HasPrefix(pathOpt, "https://") {
		u, err := url.Parse(pathOpt)
		if err != nil {
			return nil, err
		}
		name = strings.TrimSuffix(u.Path, "/")

		resp, err := cleanhttp.DefaultClient().Get(pathOpt)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, pathOpt)
		}

		reader = resp.Body
	} else {
		file, err := os.Open(pathOpt)
		if err != nil {
			return nil, err
		}

		reader = file
	}

	if strings.HasSuffix(name, ".xz") {
		xzr, err := xzReader.NewReader(reader, 0)
		if err != nil {
			reader.Close()
			return nil, err
		}
		return &readCloser{Reader: xzr, closers: []io.Closer{reader}}, nil
	} else if strings.HasSuffix(name, ".bz2") {
		bz2Reader, err := bzip2.NewReader(reader, nil)
		if err != nil {
			reader.Close()
			return nil, err
		}
		return &readCloser{Reader: bz2Reader, closers: []io.Closer{reader, bz2Reader}}, nil
	} else if strings.HasSuffix(name, ".gz") {
		zipReader, err := gzip.NewReader(reader)
		if err != nil {
			reader.Close()
			return nil, err
		}
		return &readCloser{Reader: zipReader, closers: []io.Closer{reader, zipReader}}, nil
	}

	return reader, nil
}

type writeCloser struct {
	io.Writer
	closers []io.Closer
}

// Close flushes the compressors before closing the file.
func (wc *writeCloser) Close() error {
	var err error
	for _, closer := range wc.closers {
		cerr := closer.Close()
		if err == nil {
			err = cerr
		}
	}
	return err
}

// putData creates outputPath, compressing what is written to it
// according to its extension.
func putData(outputPath string) (io.WriteCloser, error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(outputPath, ".xz") {
		xzWriter, err := xz.NewWriter(file)
		if err != nil {
			file.Close()
			return nil, err
		}
		return &writeCloser{Writer: xzWriter, closers: []io.Closer{xzWriter, file}}, nil
	} else if strings.HasSuffix(outputPath, ".bz2") {
		bz2Writer, err := bzip2.NewWriter(file, nil)
		if err != nil {
			file.Close()
			return nil, err
		}
		return &writeCloser{Writer: bz2Writer, closers: []io.Closer{bz2Writer, file}}, nil
	}

	return file, nil
}
