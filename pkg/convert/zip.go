package convert

import (
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"

	"github.com/dnaconvert/dnaconvert/pkg/errors"
)

// ZipDir writes every regular file under dir to w as a deflated zip archive.
// Entry names are slash-separated paths relative to dir.
func ZipDir(dir string, w io.Writer) error {
	files, err := walkFiles(dir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "list %s", dir)
	}

	zw := zip.NewWriter(w)
	for _, name := range files {
		if err := addFile(zw, filepath.Join(dir, filepath.FromSlash(name)), name); err != nil {
			_ = zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "finish archive")
	}
	return nil
}

func addFile(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "stat %s", path)
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "header for %s", name)
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	dst, err := zw.CreateHeader(hdr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "add %s", name)
	}
	if _, err := io.Copy(dst, f); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", name)
	}
	return nil
}
