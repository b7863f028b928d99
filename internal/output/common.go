package output

import (
	"io"
	"os"
)

// StdoutPath selects standard output wherever an output path is accepted.
const StdoutPath = "-"

func openOutputWriter(outputPath string) (io.Writer, *os.File, error) {
	if outputPath == "" || outputPath == StdoutPath {
		return os.Stdout, nil, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}
