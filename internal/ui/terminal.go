package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/patrickprogramme/ytranscript/internal/clipboard"
	"github.com/patrickprogramme/ytranscript/internal/session"
	"github.com/patrickprogramme/ytranscript/internal/yt"
)

// ErrNoURL : l'entrée standard est fermée avant qu'une URL valide soit saisie.
var ErrNoURL = errors.New("aucune URL saisie")

type terminalUI struct {
	reader    *bufio.Reader
	out       io.Writer
	errOut    io.Writer
	clipboard func() (string, error)
}

func NewTerminal() Interface {
	return newTerminal(os.Stdin, os.Stdout, os.Stderr, clipboard.ReadAll)
}

func newTerminal(in io.Reader, out, errOut io.Writer, readClipboard func() (string, error)) *terminalUI {
	return &terminalUI{
		reader:    bufio.NewReader(in),
		out:       out,
		errOut:    errOut,
		clipboard: readClipboard,
	}
}

func (t *terminalUI) GetYtURL(ctx context.Context) (string, error) {
	// 1) clipboard
	if t.clipboard != nil {
		if clip, err := t.clipboard(); err == nil && yt.IsYouTubeURL(clip) {
			t.PrintInfo(ctx, fmt.Sprintf("Using URL from clipboard: %s", clip))
			return clip, nil
		}
	}
	// 2) prompt
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprint(t.out, "Paste YouTube video URL: ")
		input, err := t.reader.ReadString('\n')
		url := strings.TrimSpace(input)
		if yt.IsYouTubeURL(url) {
			return url, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", ErrNoURL
			}
			return "", fmt.Errorf("lecture stdin: %w", err)
		}
		if url != "" {
			t.PrintError(ctx, "❌ "+session.MsgInvalidURL)
		}
	}
}

func (t *terminalUI) Print(ctx context.Context, s string) {
	fmt.Fprint(t.out, s)
	if !strings.HasSuffix(s, "\n") {
		fmt.Fprintln(t.out)
	}
}

func (t *terminalUI) PrintInfo(ctx context.Context, s string) {
	fmt.Fprintln(t.out, s)
}

func (t *terminalUI) PrintError(ctx context.Context, s string) {
	fmt.Fprintln(t.errOut, s)
}
