package preview

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/llmstxt-generator/pkg/preview"
)

// PreviewAction prints the free preview of an llms.txt file, or of stdin
// when no file is given, with the masked remainder below it.
func PreviewAction(c *cli.Context) error {
	var (
		content []byte
		err     error
	)
	if path := c.Args().First(); path != "" && path != "-" {
		content, err = os.ReadFile(path)
	} else {
		content, err = io.ReadAll(c.App.Reader)
	}
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	split, err := preview.SplitContent(string(content))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if c.Bool("visible-only") {
		_, err = fmt.Fprintln(c.App.Writer, split.Visible)
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, split.Visible+split.Locked)
	return err
}
