package datagen

import (
	"os"

	"github.com/klauspost/compress/gzip"
)

func writeCompressed(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	zw := gzip.NewWriter(f)
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		f.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
