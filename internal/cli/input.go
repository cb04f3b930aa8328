package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// GetSecretText prompts for the secret content without echoing it. When
// stdin is not a terminal (piped input) it falls back to reading the
// stream as-is.
func GetSecretText(w io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	if _, err := fmt.Fprint(w, "Secret content (input hidden)\n> "); err != nil {
		return "", err
	}
	line, err := readPassword(fd)
	if err != nil {
		return "", err
	}
	fmt.Fprintln(w)
	return string(line), nil
}
