package download

import (
	"bufio"
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"

	"github.com/alejandrogzi/gofq/internal/errors"
)

// bufferSize bounds memory while hashing multi-gigabyte files.
const bufferSize = 10 * 1024 * 1024

// MD5Sum computes the hex MD5 digest of a file with a large streaming
// buffer.
func MD5Sum(path string) (string, error) {
	const op errors.Op = "download.MD5Sum"

	f, err := os.Open(path)
	if err != nil {
		return "", errors.E(op, errors.KindIO, err)
	}
	defer f.Close()

	hash := md5.New()
	reader := bufio.NewReaderSize(f, bufferSize)
	if _, err := io.Copy(hash, reader); err != nil {
		return "", errors.E(op, errors.KindIO, err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
