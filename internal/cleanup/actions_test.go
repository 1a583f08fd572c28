package cleanup

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/llmstxt-generator/pkg/db"
)

func TestCleanupAction(t *testing.T) {
	dir := t.TempDir()

	database, err := db.Open(filepath.Join(dir, "llmstxt.db"))
	require.NoError(t, err)
	database.SetClock(func() time.Time { return time.Now().Add(-48 * time.Hour) })
	_, err = database.CreateRun(db.NewRun{Content: "stale"})
	require.NoError(t, err)
	database.SetClock(time.Now)
	fresh, err := database.CreateRun(db.NewRun{Content: "fresh"})
	require.NoError(t, err)
	require.NoError(t, database.Close())

	var out bytes.Buffer
	app := &cli.App{
		Writer: &out,
		Flags:  []cli.Flag{&cli.StringFlag{Name: "config"}, &cli.BoolFlag{Name: "quiet"}},
		Commands: []*cli.Command{{
			Name:   "cleanup",
			Flags:  []cli.Flag{&cli.StringFlag{Name: "data-dir"}},
			Action: CleanupAction,
		}},
	}
	require.NoError(t, app.Run([]string{"llmstxt", "--quiet", "cleanup", "--data-dir", dir}))
	assert.Equal(t, "Deleted 1 expired runs\n", out.String())

	database, err = db.Open(filepath.Join(dir, "llmstxt.db"))
	require.NoError(t, err)
	defer database.Close()
	got, err := database.FindRun(fresh.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}
