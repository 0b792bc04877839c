package policy

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// sniffBytes is the number of leading bytes read to classify an unknown
// extension as binary or text.
const sniffBytes = 8192

// classifyContent implements spec §4.1 step 4: known extensions
// short-circuit, unknown extensions are sniffed for a null byte within the
// first sniffBytes bytes of the file.
func classifyContent(absPath string) (isBinary bool, err error) {
	ext := strings.ToLower(filepath.Ext(absPath))
	if binaryExtensions[ext] {
		return true, nil
	}
	if textExtensions[ext] {
		return false, nil
	}

	f, err := os.Open(absPath)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, sniffBytes)
	n, readErr := f.Read(buf)
	if readErr != nil && !errors.Is(readErr, io.EOF) && n == 0 {
		return false, readErr
	}

	return bytes.IndexByte(buf[:n], 0) >= 0, nil
}
