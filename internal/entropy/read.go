package entropy

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// ReadLine reads a single line from r without any length limit and strips the
// line terminator. Hitting EOF before any byte yields "" so that the caller's
// empty-input handling applies.
func ReadLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

// ReadLines reads every line of r. A final line without a terminator is kept;
// a trailing terminator does not produce an extra empty line.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if len(line) > 0 {
			line = strings.TrimSuffix(line, "\n")
			lines = append(lines, strings.TrimSuffix(line, "\r"))
		}
		if err != nil {
			return lines, nil
		}
	}
}
