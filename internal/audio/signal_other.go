//go:build !unix

package audio

import (
	"errors"
	"os"
)

func suspendProcess(_ *os.Process) error {
	return errors.ErrUnsupported
}

func resumeProcess(_ *os.Process) error {
	return errors.ErrUnsupported
}
